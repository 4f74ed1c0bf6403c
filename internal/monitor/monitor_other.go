//go:build !windows && !darwin

package monitor

// ListMonitors reports ErrUnsupported.
func ListMonitors() ([]Monitor, error) {
	return nil, ErrUnsupported
}

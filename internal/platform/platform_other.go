//go:build !darwin && !windows

package platform

// New reports ErrUnsupported; there is no global input hook binding here.
func New() (Platform, error) {
	return Platform{Name: "unsupported"}, ErrUnsupported
}

// Package permission probes and requests the grant that gates both event
// interception and event injection.
package permission

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/logging"
	"github.com/frudas24/inputtap/internal/platform"
)

// Override forces the probe result regardless of the OS.
type Override string

const (
	// OverrideNone defers to the platform prober.
	OverrideNone Override = ""
	// OverrideGranted reports the grant as held.
	OverrideGranted Override = "granted"
	// OverrideDenied reports the grant as missing.
	OverrideDenied Override = "denied"
)

// ParseOverride validates an override flag value.
func ParseOverride(value string) (Override, error) {
	switch Override(strings.ToLower(strings.TrimSpace(value))) {
	case OverrideNone:
		return OverrideNone, nil
	case OverrideGranted:
		return OverrideGranted, nil
	case OverrideDenied:
		return OverrideDenied, nil
	default:
		return OverrideNone, fmt.Errorf("unknown permission override %q", value)
	}
}

// Gate answers whether the process may tap and inject input.
type Gate struct {
	prober   platform.Prober
	override Override
	log      *zap.Logger
	prompt   sync.Once
}

// NewGate wraps prober with an optional override.
func NewGate(prober platform.Prober, override Override, log *zap.Logger) *Gate {
	return &Gate{prober: prober, override: override, log: logging.OrNop(log)}
}

// HasCapability reports whether the grant is currently held.
func (g *Gate) HasCapability() bool {
	switch g.override {
	case OverrideGranted:
		return true
	case OverrideDenied:
		return false
	}
	return g.prober.Trusted()
}

// RequestCapability returns the status before the request. When the grant is
// missing it starts the OS prompt once per process without waiting for it.
func (g *Gate) RequestCapability() bool {
	if g.HasCapability() {
		return true
	}
	g.prompt.Do(func() {
		g.log.Info("requesting accessibility grant")
		if g.override == OverrideNone {
			g.prober.Prompt()
		}
	})
	return false
}

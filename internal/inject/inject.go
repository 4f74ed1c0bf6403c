// Package inject validates synthetic input requests and posts them to the OS.
package inject

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/input"
	"github.com/frudas24/inputtap/internal/logging"
	"github.com/frudas24/inputtap/internal/platform"
)

// maxKeyCode bounds virtual key codes on every supported platform.
const maxKeyCode = 0xFFFF

// PointerArgs is an injectMouseInput request.
type PointerArgs struct {
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	Kind       string   `json:"type"`
	Button     string   `json:"button,omitempty"`
	ClickCount int      `json:"clickCount,omitempty"`
	DeltaX     float64  `json:"deltaX,omitempty"`
	DeltaY     float64  `json:"deltaY,omitempty"`
}

// KeyboardArgs is an injectKeyboardInput request.
type KeyboardArgs struct {
	Code      *int     `json:"code"`
	Kind      string   `json:"type"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// Injector posts validated events. It never consults the block set or the tap.
type Injector struct {
	poster platform.Poster
	log    *zap.Logger
}

// New returns an injector posting through poster.
func New(poster platform.Poster, log *zap.Logger) *Injector {
	return &Injector{poster: poster, log: logging.OrNop(log)}
}

// PointerRequest validates args into a platform request.
func PointerRequest(args PointerArgs) (platform.PointerRequest, error) {
	if args.X == nil || args.Y == nil {
		return platform.PointerRequest{}, fmt.Errorf("%w: x and y are required", input.ErrInvalidArguments)
	}
	if args.Kind == "" {
		return platform.PointerRequest{}, fmt.Errorf("%w: type is required", input.ErrInvalidArguments)
	}
	for name, v := range map[string]float64{"x": *args.X, "y": *args.Y, "deltaX": args.DeltaX, "deltaY": args.DeltaY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return platform.PointerRequest{}, fmt.Errorf("%w: %s is not finite", input.ErrInvalidArguments, name)
		}
	}
	if args.ClickCount < 0 {
		return platform.PointerRequest{}, fmt.Errorf("%w: clickCount must be positive", input.ErrInvalidArguments)
	}
	kind, err := input.ParsePointerKind(args.Kind)
	if err != nil {
		return platform.PointerRequest{}, err
	}
	button := kind.Button()
	if args.Button != "" {
		hint, err := parseButton(args.Button)
		if err != nil {
			return platform.PointerRequest{}, err
		}
		if kind == input.MouseMoved || kind == input.ScrollWheel {
			button = hint
		}
	}
	req := platform.PointerRequest{
		X:          *args.X,
		Y:          *args.Y,
		Kind:       kind,
		Button:     button,
		ClickCount: 1,
	}
	if kind.IsDown() && args.ClickCount > 1 {
		req.ClickCount = args.ClickCount
	}
	if kind == input.ScrollWheel {
		req.DeltaX, req.DeltaY = args.DeltaX, args.DeltaY
	}
	return req, nil
}

// KeyboardRequest validates args into a platform request. Unknown modifier
// names are ignored.
func KeyboardRequest(args KeyboardArgs) (platform.KeyboardRequest, error) {
	if args.Code == nil {
		return platform.KeyboardRequest{}, fmt.Errorf("%w: code is required", input.ErrInvalidArguments)
	}
	if *args.Code < 0 || *args.Code > maxKeyCode {
		return platform.KeyboardRequest{}, fmt.Errorf("%w: code %d out of range", input.ErrInvalidArguments, *args.Code)
	}
	if args.Kind == "" {
		return platform.KeyboardRequest{}, fmt.Errorf("%w: type is required", input.ErrInvalidArguments)
	}
	kind, err := input.ParseKeyboardKind(args.Kind)
	if err != nil {
		return platform.KeyboardRequest{}, err
	}
	return platform.KeyboardRequest{
		Code:      *args.Code,
		Kind:      kind,
		Modifiers: input.ParseModifiers(args.Modifiers),
	}, nil
}

// InjectPointer validates and posts one pointer event.
func (i *Injector) InjectPointer(args PointerArgs) error {
	req, err := PointerRequest(args)
	if err != nil {
		return err
	}
	if err := i.poster.PostPointer(req); err != nil {
		i.log.Warn("pointer post dropped by platform", zap.String("type", string(req.Kind)), zap.Error(err))
	}
	return nil
}

// InjectKeyboard validates and posts one keyboard event.
func (i *Injector) InjectKeyboard(args KeyboardArgs) error {
	req, err := KeyboardRequest(args)
	if err != nil {
		return err
	}
	if err := i.poster.PostKeyboard(req); err != nil {
		i.log.Warn("keyboard post dropped by platform", zap.String("type", string(req.Kind)), zap.Error(err))
	}
	return nil
}

// parseButton resolves a button hint.
func parseButton(name string) (input.Button, error) {
	switch input.Button(name) {
	case input.ButtonLeft, input.ButtonRight, input.ButtonCenter:
		return input.Button(name), nil
	default:
		return "", fmt.Errorf("%w: unknown button %q", input.ErrInvalidArguments, name)
	}
}

package inject

import (
	"errors"
	"math"
	"testing"

	"github.com/frudas24/inputtap/internal/input"
	"github.com/frudas24/inputtap/internal/testutil"
)

func f(v float64) *float64 { return &v }
func n(v int) *int         { return &v }

// TestInjectKeyboard_IgnoresUnknownModifiers verifies bogus names are dropped silently.
func TestInjectKeyboard_IgnoresUnknownModifiers(t *testing.T) {
	poster := &testutil.FakePoster{}
	inj := New(poster, nil)
	err := inj.InjectKeyboard(KeyboardArgs{Code: n(53), Kind: "keyDown", Modifiers: []string{"shift", "bogus"}})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	keys := poster.Keys()
	if len(keys) != 1 {
		t.Fatalf("expected 1 posted key, got %d", len(keys))
	}
	if keys[0].Code != 53 || keys[0].Kind != input.KeyDown || keys[0].Modifiers != input.ModShift {
		t.Fatalf("unexpected request: %+v", keys[0])
	}
}

// TestInjectKeyboard_InvalidKind verifies the closed keyboard vocabulary.
func TestInjectKeyboard_InvalidKind(t *testing.T) {
	poster := &testutil.FakePoster{}
	inj := New(poster, nil)
	err := inj.InjectKeyboard(KeyboardArgs{Code: n(1), Kind: "keyPress"})
	if !errors.Is(err, input.ErrInvalidEventKind) {
		t.Fatalf("expected ErrInvalidEventKind, got %v", err)
	}
	if len(poster.Keys()) != 0 {
		t.Fatalf("expected nothing posted")
	}
}

// TestInjectKeyboard_MissingCode verifies required fields.
func TestInjectKeyboard_MissingCode(t *testing.T) {
	inj := New(&testutil.FakePoster{}, nil)
	if err := inj.InjectKeyboard(KeyboardArgs{Kind: "keyDown"}); !errors.Is(err, input.ErrInvalidArguments) {
		t.Fatalf("expected ErrInvalidArguments, got %v", err)
	}
	if err := inj.InjectKeyboard(KeyboardArgs{Code: n(-1), Kind: "keyDown"}); !errors.Is(err, input.ErrInvalidArguments) {
		t.Fatalf("expected ErrInvalidArguments for negative code, got %v", err)
	}
}

// TestInjectPointer_DerivesButton verifies the button follows the kind.
func TestInjectPointer_DerivesButton(t *testing.T) {
	poster := &testutil.FakePoster{}
	inj := New(poster, nil)
	if err := inj.InjectPointer(PointerArgs{X: f(10), Y: f(20), Kind: "otherMouseDown", ClickCount: 2}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := inj.InjectPointer(PointerArgs{X: f(10), Y: f(20), Kind: "rightMouseUp", ClickCount: 3}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	reqs := poster.Pointers()
	if reqs[0].Button != input.ButtonCenter || reqs[0].ClickCount != 2 {
		t.Fatalf("unexpected down request: %+v", reqs[0])
	}
	if reqs[1].Button != input.ButtonRight || reqs[1].ClickCount != 1 {
		t.Fatalf("unexpected up request: %+v", reqs[1])
	}
}

// TestInjectPointer_ScrollDeltas verifies deltas only travel with scroll events.
func TestInjectPointer_ScrollDeltas(t *testing.T) {
	poster := &testutil.FakePoster{}
	inj := New(poster, nil)
	_ = inj.InjectPointer(PointerArgs{X: f(0), Y: f(0), Kind: "scrollWheel", DeltaY: -120})
	_ = inj.InjectPointer(PointerArgs{X: f(0), Y: f(0), Kind: "mouseMoved", DeltaY: -120})
	reqs := poster.Pointers()
	if reqs[0].DeltaY != -120 || reqs[1].DeltaY != 0 {
		t.Fatalf("unexpected deltas: %+v", reqs)
	}
}

// TestInjectPointer_Validation verifies argument and kind errors.
func TestInjectPointer_Validation(t *testing.T) {
	inj := New(&testutil.FakePoster{}, nil)
	cases := []struct {
		name string
		args PointerArgs
		want error
	}{
		{"missing x", PointerArgs{Y: f(1), Kind: "mouseMoved"}, input.ErrInvalidArguments},
		{"missing kind", PointerArgs{X: f(1), Y: f(1)}, input.ErrInvalidArguments},
		{"nan", PointerArgs{X: f(math.NaN()), Y: f(1), Kind: "mouseMoved"}, input.ErrInvalidArguments},
		{"bad button", PointerArgs{X: f(1), Y: f(1), Kind: "mouseMoved", Button: "fourth"}, input.ErrInvalidArguments},
		{"bad kind", PointerArgs{X: f(1), Y: f(1), Kind: "doubleClick"}, input.ErrInvalidEventKind},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := inj.InjectPointer(tc.args); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

// TestInject_PlatformFailureIsNotReported verifies post failures are swallowed.
func TestInject_PlatformFailureIsNotReported(t *testing.T) {
	inj := New(&testutil.FakePoster{Err: errors.New("denied")}, nil)
	if err := inj.InjectKeyboard(KeyboardArgs{Code: n(0), Kind: "keyUp"}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

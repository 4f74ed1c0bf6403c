package monitor

import "testing"

// TestGetMonitorByIndex_Found verifies a monitor is found by index.
func TestGetMonitorByIndex_Found(t *testing.T) {
	list := []Monitor{
		{Index: 1, W: 100, H: 100},
		{Index: 2, W: 200, H: 200},
	}
	m, ok := GetMonitorByIndex(list, 2)
	if !ok || m.Index != 2 {
		t.Fatalf("expected index 2, got ok=%v monitor=%+v", ok, m)
	}
}

// TestGetMonitorByIndex_NotFound verifies missing indexes return false.
func TestGetMonitorByIndex_NotFound(t *testing.T) {
	list := []Monitor{{Index: 1, W: 100, H: 100}}
	_, ok := GetMonitorByIndex(list, 3)
	if ok {
		t.Fatalf("expected not found")
	}
}

// TestDesktop verifies the bounding box spans displays left of and above the primary.
func TestDesktop(t *testing.T) {
	list := []Monitor{
		{Index: 1, X: 0, Y: 0, W: 1920, H: 1080, Primary: true},
		{Index: 2, X: -1280, Y: -200, W: 1280, H: 1024},
	}
	x, y, w, h := Desktop(list)
	if x != -1280 || y != -200 || w != 3200 || h != 1280 {
		t.Fatalf("expected (-1280,-200,3200,1280), got (%d,%d,%d,%d)", x, y, w, h)
	}
	if x, y, w, h := Desktop(nil); x != 0 || y != 0 || w != 0 || h != 0 {
		t.Fatalf("expected empty desktop, got (%d,%d,%d,%d)", x, y, w, h)
	}
}

// TestAt verifies hit testing uses half-open bounds.
func TestAt(t *testing.T) {
	list := []Monitor{
		{Index: 1, X: 0, Y: 0, W: 100, H: 100},
		{Index: 2, X: 100, Y: 0, W: 100, H: 100},
	}
	if m, ok := At(list, 100, 5); !ok || m.Index != 2 {
		t.Fatalf("expected monitor 2, got ok=%v monitor=%+v", ok, m)
	}
	if _, ok := At(list, 250, 5); ok {
		t.Fatalf("expected no monitor")
	}
}

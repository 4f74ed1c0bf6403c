// Package monitor describes display geometry in the coordinate space used by
// captured and injected pointer events.
package monitor

import "errors"

// ErrUnsupported is returned where displays cannot be enumerated.
var ErrUnsupported = errors.New("display enumeration unsupported on this platform")

// Monitor describes a display and its bounds in global screen coordinates.
type Monitor struct {
	Index   int  `json:"index"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
	W       int  `json:"w"`
	H       int  `json:"h"`
	Primary bool `json:"primary"`
}

// Contains reports whether the point lies on m.
func (m Monitor) Contains(x, y float64) bool {
	return x >= float64(m.X) && x < float64(m.X+m.W) && y >= float64(m.Y) && y < float64(m.Y+m.H)
}

// GetMonitorByIndex returns the monitor matching the 1-based index.
func GetMonitorByIndex(list []Monitor, idx int) (Monitor, bool) {
	for _, m := range list {
		if m.Index == idx {
			return m, true
		}
	}
	return Monitor{}, false
}

// Desktop returns the bounding box of every monitor.
func Desktop(list []Monitor) (x, y, w, h int) {
	if len(list) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY := list[0].X, list[0].Y
	maxX, maxY := list[0].X+list[0].W, list[0].Y+list[0].H
	for _, m := range list[1:] {
		minX = min(minX, m.X)
		minY = min(minY, m.Y)
		maxX = max(maxX, m.X+m.W)
		maxY = max(maxY, m.Y+m.H)
	}
	return minX, minY, maxX - minX, maxY - minY
}

// At returns the monitor containing the point.
func At(list []Monitor, x, y float64) (Monitor, bool) {
	for _, m := range list {
		if m.Contains(x, y) {
			return m, true
		}
	}
	return Monitor{}, false
}

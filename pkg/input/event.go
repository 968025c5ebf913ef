package input

import (
	"fmt"

	"github.com/matzehuels/holopanel/pkg/geom"
)

// EventType is the kind of a pointer event.
type EventType int

const (
	// Move updates the pointer and re-runs hit testing.
	Move EventType = iota
	// Click activates the highlighted node without re-running hit testing.
	Click
	// Clear drops every highlight.
	Clear
	// Calibrate recenters the synthesized screen cursor on the current look.
	Calibrate
)

var eventTypeNames = [...]string{"move", "click", "clear", "calibrate"}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// ParseEventType converts a name back into an EventType.
func ParseEventType(s string) (EventType, bool) {
	for i, name := range eventTypeNames {
		if name == s {
			return EventType(i), true
		}
	}
	return 0, false
}

// Event is one pointer event. A Move carries either a world location (the
// world pipeline), a screen coordinate (the screen pipeline), or neither, in
// which case the look angles drive the synthesized cursor.
type Event struct {
	Type   EventType
	World  *geom.Vec3
	Screen *geom.Coordinates
	Yaw    float64
	Pitch  float64
}

// WorldMove returns a Move at a world location.
func WorldMove(v geom.Vec3) Event { return Event{Type: Move, World: &v} }

// ScreenMove returns a Move at a panel coordinate.
func ScreenMove(c geom.Coordinates) Event { return Event{Type: Move, Screen: &c} }

// LookMove returns a Move driven by the viewer's look angles.
func LookMove(yaw, pitch float64) Event { return Event{Type: Move, Yaw: yaw, Pitch: pitch} }

package appliance

import (
	"fmt"
	"strings"
)

// Event is a debounced button press.
type Event int

const (
	Start Event = iota
	Hit
	Stand
)

func (e Event) String() string {
	switch e {
	case Start:
		return "start"
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// ParseEvent maps a command word or its first letter to an Event.
func ParseEvent(s string) (Event, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start", "s", "deal", "d":
		return Start, nil
	case "hit", "h":
		return Hit, nil
	case "stand", "t", "stay":
		return Stand, nil
	}
	return 0, fmt.Errorf("unknown input %q", s)
}

package viz

import (
	"fmt"
	"strings"
)

// State is the visibility phase of a node.
type State uint8

const (
	// Up nodes have not been shown yet. They turn Alive on the first tick
	// that moves them inside the viewport.
	Up State = iota
	// Alive nodes are visible.
	Alive
	// Invisible nodes are not drawn.
	Invisible
)

var stateNames = [...]string{Up: "up", Alive: "alive", Invisible: "invisible"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if strings.EqualFold(string(b), name) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}

// ArrowMode selects how a node's directional arrow is drawn.
type ArrowMode uint8

const (
	// ArrowNone draws no arrow.
	ArrowNone ArrowMode = iota
	// ArrowFixed points into the node from a fixed angle.
	ArrowFixed
	// ArrowAbove points down at the pointer node from above it.
	ArrowAbove
	// ArrowTo points from the node to the pointer node.
	ArrowTo
)

var arrowNames = [...]string{ArrowNone: "none", ArrowFixed: "fixed", ArrowAbove: "above", ArrowTo: "to"}

func (m ArrowMode) String() string {
	if int(m) < len(arrowNames) {
		return arrowNames[m]
	}
	return fmt.Sprintf("arrow(%d)", m)
}

// MarshalText implements encoding.TextMarshaler.
func (m ArrowMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ArrowMode) UnmarshalText(b []byte) error {
	for i, name := range arrowNames {
		if strings.EqualFold(string(b), name) {
			*m = ArrowMode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown arrow mode %q", b)
}

// Side names a child slot of a node.
type Side uint8

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "left":
		*s = Left
	case "right":
		*s = Right
	default:
		return fmt.Errorf("unknown side %q", b)
	}
	return nil
}

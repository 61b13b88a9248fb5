// Package control defines the dispatch cadence of the event loop. Only Poll
// and Wait are meaningful; a converted integer compiles but fails Valid, and
// the event loop ignores such values. Parse rejects unknown names.
package control

import (
	"fmt"
	"strings"
)

// Flow selects how the event loop behaves once it runs out of events.
type Flow int

const (
	// Poll dispatches continuously, emitting an iteration boundary as soon
	// as the previous one was handled. Suited to animated content.
	Poll Flow = iota
	// Wait sleeps until the platform or a producer delivers the next event.
	Wait
)

// String returns the config name of the flow.
func (f Flow) String() string {
	switch f {
	case Poll:
		return "poll"
	case Wait:
		return "wait"
	}
	return fmt.Sprintf("Flow(%d)", int(f))
}

// Valid reports whether f is one of the declared flows.
func (f Flow) Valid() bool {
	return f == Poll || f == Wait
}

// Parse maps a config name to a Flow. Matching ignores case and
// surrounding whitespace.
func Parse(name string) (Flow, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "poll":
		return Poll, nil
	case "wait":
		return Wait, nil
	}
	return Poll, fmt.Errorf("unknown control flow %q", name)
}

package options

import (
	"fmt"
	"strconv"

	"webmclip/internal/util/timecode"
)

// Kind says how a field changed.
type Kind string

const (
	Edited   Kind = "edited"   // Free text typed into a field.
	Checked  Kind = "checked"  // A check box toggled.
	Selected Kind = "selected" // A track or codec picked from a list.
	Marked   Kind = "marked"   // A trim marker moved on the timeline.
)

// Event is one user change. Value carries the new raw value; for marker
// events it is the position in seconds.
type Event struct {
	Kind  Kind
	Field string
	Value string
}

// Edit returns a text edit event.
func Edit(field, value string) Event {
	return Event{Kind: Edited, Field: field, Value: value}
}

// Check returns a check box event.
func Check(field string, on bool) Event {
	return Event{Kind: Checked, Field: field, Value: strconv.FormatBool(on)}
}

// Select returns a list selection event.
func Select(field, value string) Event {
	return Event{Kind: Selected, Field: field, Value: value}
}

// Mark returns a marker move to sec.
func Mark(field string, sec float64) Event {
	return Event{Kind: Marked, Field: field, Value: strconv.FormatFloat(sec, 'f', -1, 64)}
}

// Trigger keys the transition table.
type Trigger struct {
	Kind  Kind
	Field string
}

// Trigger returns the table key for e.
func (e Event) Trigger() Trigger { return Trigger{Kind: e.Kind, Field: e.Field} }

// Env is the context transitions may read.
type Env struct {
	SourceDurationSec float64
}

type action func(f *Fields, env Env)

// transitions rewrites dependent fields before the next validation pass.
var transitions = map[Trigger]action{
	{Marked, "mstart"}: func(f *Fields, _ Env) {
		f.Start = ""
		if f.MarkStart > 0 {
			f.Start = timecode.Format(f.MarkStart)
		}
	},
	{Marked, "mend"}: func(f *Fields, env Env) {
		// A marker at the very end means "to the end of the source".
		f.End = ""
		if f.MarkEnd > 0 && f.MarkEnd <= env.SourceDurationSec-0.001 {
			f.End = timecode.Format(f.MarkEnd)
		}
	},
	{Checked, "modeCRF"}: func(f *Fields, _ Env) {
		f.Limit = ""
		if f.ModeCRF {
			f.Limit = "0"
		}
	},
	{Selected, "acodec"}: func(f *Fields, _ Env) {
		f.AudioRate = ""
	},
}

// Apply writes e into f and then runs the transition registered for its
// trigger, if any.
func Apply(f *Fields, e Event, env Env) error {
	if e.Kind == Marked {
		sec, err := strconv.ParseFloat(e.Value, 64)
		if err != nil {
			return fmt.Errorf("marker %s: %q is not a position", e.Field, e.Value)
		}
		switch e.Field {
		case "mstart":
			f.MarkStart = sec
		case "mend":
			f.MarkEnd = sec
		default:
			return fmt.Errorf("unknown marker %q", e.Field)
		}
	} else if err := Set(f, e.Field, e.Value); err != nil {
		return err
	}
	Transition(f, e.Trigger(), env)
	return nil
}

// Transition runs the action registered for t. It reports whether one ran.
func Transition(f *Fields, t Trigger, env Env) bool {
	act, ok := transitions[t]
	if !ok {
		return false
	}
	act(f, env)
	return true
}

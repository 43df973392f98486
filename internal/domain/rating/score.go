// Package rating provides the composable utility value used to rank and gate
// candidate activities.
package rating

import (
	"fmt"
	"math"
	"strings"
)

const baseEntry = "base"

type entry struct {
	name  string
	value float64
}

// Score is a scalar utility built from named base contributions and named
// multiplicative modifiers. The effective value is
//
//	clamp(sum(base entries) * product(modifiers), min, max)
//
// A non-positive effective value means "not viable".
type Score struct {
	bases     []entry
	modifiers []entry
	min       float64
	max       float64
	ranged    bool
}

// Zero returns the sentinel score meaning "no candidate"
func Zero() Score {
	return Score{}
}

// NewScore creates a score with an anonymous base value
func NewScore(base float64) Score {
	return NewNamedScore(baseEntry, base)
}

// NewNamedScore creates a score whose base value is recorded under name
func NewNamedScore(name string, base float64) Score {
	return Score{bases: []entry{{name: name, value: base}}}
}

// AddBase adds amount to the base total under a named ledger entry
func (s *Score) AddBase(name string, amount float64) {
	for i := range s.bases {
		if s.bases[i].name == name {
			s.bases[i].value += amount
			return
		}
	}
	s.bases = append(s.bases, entry{name: name, value: amount})
}

// AddModifier multiplies the running total. Re-using a name compounds the
// existing entry rather than adding a second one.
func (s *Score) AddModifier(name string, multiplier float64) {
	for i := range s.modifiers {
		if s.modifiers[i].name == name {
			s.modifiers[i].value *= multiplier
			return
		}
	}
	s.modifiers = append(s.modifiers, entry{name: name, value: multiplier})
}

// ApplyRange clamps the effective value into [min, max]
func (s *Score) ApplyRange(min, max float64) {
	s.min = min
	s.max = max
	s.ranged = true
}

// Base returns the sum of all base entries
func (s Score) Base() float64 {
	total := 0.0
	for _, b := range s.bases {
		total += b.value
	}
	return total
}

// Value returns the effective score
func (s Score) Value() float64 {
	v := s.Base()
	for _, m := range s.modifiers {
		v *= m.value
	}
	if s.ranged {
		v = math.Max(s.min, math.Min(s.max, v))
	}
	return v
}

// Viable reports whether the score can take part in a selection
func (s Score) Viable() bool {
	return s.Value() > 0
}

// Modifier returns the named multiplier, or 1 when it has not been applied
func (s Score) Modifier(name string) float64 {
	for _, m := range s.modifiers {
		if m.name == name {
			return m.value
		}
	}
	return 1
}

// Modifiers returns the modifier ledger in application order
func (s Score) Modifiers() map[string]float64 {
	out := make(map[string]float64, len(s.modifiers))
	for _, m := range s.modifiers {
		out[m.name] = m.value
	}
	return out
}

// Clone returns a deep copy so per-worker modifiers never leak back into a
// generator's base score
func (s Score) Clone() Score {
	c := s
	c.bases = append([]entry(nil), s.bases...)
	c.modifiers = append([]entry(nil), s.modifiers...)
	return c
}

// Less orders scores by effective value only
func (s Score) Less(other Score) bool {
	return s.Value() < other.Value()
}

func (s Score) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%.2f (", s.Value())
	parts := make([]string, 0, len(s.bases)+len(s.modifiers))
	for _, b := range s.bases {
		parts = append(parts, fmt.Sprintf("%s:%.2f", b.name, b.value))
	}
	for _, m := range s.modifiers {
		parts = append(parts, fmt.Sprintf("%s:x%.2f", m.name, m.value))
	}
	sb.WriteString(strings.Join(parts, " "))
	sb.WriteString(")")
	return sb.String()
}

// Package gesture provides GestureSource implementations for the round
// engine and maps hand-gesture classifier labels onto game moves.
package gesture

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lox/rps/internal/round"
)

// Labels maps classifier category names to moves. Keys are matched
// case-insensitively; unknown labels map to round.None.
type Labels map[string]round.Gesture

// DefaultLabels covers the stock hand-gesture recognizer categories.
func DefaultLabels() Labels {
	return Labels{
		"closed_fist": round.Rock,
		"open_palm":   round.Paper,
		"victory":     round.Scissors,
		"none":        round.None,
		"pointing_up": round.None,
		"thumb_down":  round.None,
		"thumb_up":    round.None,
		"iloveyou":    round.None,
	}
}

// ParseLabels builds a label table from label → move name pairs.
func ParseLabels(pairs map[string]string) (Labels, error) {
	labels := make(Labels, len(pairs))
	for label, move := range pairs {
		key := normalize(label)
		if key == "" {
			return nil, fmt.Errorf("empty classifier label for move %q", move)
		}
		g, err := round.ParseGesture(move)
		if err != nil {
			return nil, fmt.Errorf("label %q: %w", label, err)
		}
		labels[key] = g
	}
	return labels, nil
}

// Lookup returns the move for a classifier label.
func (l Labels) Lookup(label string) round.Gesture {
	return l[normalize(label)]
}

// Merge returns a copy of l with the entries of other added on top.
func (l Labels) Merge(other Labels) Labels {
	out := make(Labels, len(l)+len(other))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range other {
		out[normalize(k)] = v
	}
	return out
}

// For lists the labels that map to g, sorted.
func (l Labels) For(g round.Gesture) []string {
	var out []string
	for label, mapped := range l {
		if mapped == g {
			out = append(out, label)
		}
	}
	sort.Strings(out)
	return out
}

func normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

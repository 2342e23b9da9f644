package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownStrategy is returned by [ParseStrategy] for unrecognized names.
var ErrUnknownStrategy = errors.New("unknown tie-break strategy")

// Strategy selects which ready page is emitted next when several are
// eligible at the same time.
type Strategy int

const (
	// Stack emits the most recently readied page first.
	Stack Strategy = iota
	// Queue emits pages in the order they became ready.
	Queue
	// Sorted emits the smallest ready page first.
	Sorted
)

var strategyNames = map[Strategy]string{
	Stack:  "stack",
	Queue:  "queue",
	Sorted: "sorted",
}

// Strategies lists every supported strategy, default first.
func Strategies() []Strategy { return []Strategy{Stack, Queue, Sorted} }

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy converts a case-insensitive name into a Strategy.
// The empty string selects Stack.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Stack, nil
	}
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return Stack, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// readySet holds pages whose predecessors have all been emitted.
type readySet struct {
	items    []uint32
	strategy Strategy
}

func newReadySet(s Strategy, initial []uint32) *readySet {
	return &readySet{items: initial, strategy: s}
}

func (r *readySet) Len() int { return len(r.items) }

func (r *readySet) Push(id uint32) { r.items = append(r.items, id) }

// Pop removes and returns the next page. The set must not be empty.
func (r *readySet) Pop() uint32 {
	var i int
	switch r.strategy {
	case Queue:
		i = 0
	case Sorted:
		i = slices.Index(r.items, slices.Min(r.items))
	default:
		i = len(r.items) - 1
	}
	id := r.items[i]
	r.items = slices.Delete(r.items, i, i+1)
	return id
}

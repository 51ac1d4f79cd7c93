package runtime

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Environment is the single global variable table. Iteration follows the
// order in which names were first assigned.
type Environment struct {
	values *linkedhashmap.Map
}

// NewEnvironment creates an empty table.
func NewEnvironment() *Environment {
	return &Environment{values: linkedhashmap.New()}
}

// Set creates or overwrites a binding. Overwriting keeps the name's original
// position.
func (e *Environment) Set(name string, value Value) {
	e.values.Put(name, value)
}

// Get reports whether name has been assigned. A stored zero is still present.
func (e *Environment) Get(name string) (Value, bool) {
	raw, found := e.values.Get(name)
	if !found {
		return nil, false
	}
	return raw.(Value), true
}

// Has reports whether name has been assigned.
func (e *Environment) Has(name string) bool {
	_, found := e.values.Get(name)
	return found
}

func (e *Environment) Len() int {
	return e.values.Size()
}

// Keys returns names in first-assignment order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, e.values.Size())
	for _, k := range e.values.Keys() {
		keys = append(keys, k.(string))
	}
	return keys
}

// Snapshot returns a copy of the current bindings.
func (e *Environment) Snapshot() Snapshot {
	out := make(Snapshot, 0, e.values.Size())
	it := e.values.Iterator()
	for it.Next() {
		out = append(out, Binding{Name: it.Key().(string), Value: it.Value().(Value)})
	}
	return out
}

// Binding is one name/value pair of a Snapshot.
type Binding struct {
	Name  string
	Value Value
}

// Snapshot is an ordered view of the global table.
type Snapshot []Binding

// Lookup finds a binding by name.
func (s Snapshot) Lookup(name string) (Value, bool) {
	for _, b := range s {
		if b.Name == name {
			return b.Value, true
		}
	}
	return nil, false
}

func (s Snapshot) Names() []string {
	names := make([]string, len(s))
	for i, b := range s {
		names[i] = b.Name
	}
	return names
}

// Map drops ordering.
func (s Snapshot) Map() map[string]Value {
	out := make(map[string]Value, len(s))
	for _, b := range s {
		out[b.Name] = b.Value
	}
	return out
}

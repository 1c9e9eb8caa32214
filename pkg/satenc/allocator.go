// Package satenc translates an instance.Instance into a DIMACS CNF
// formula whose satisfying assignments are exactly the stable
// matchings of the instance, and decodes a solver's model line back
// into an instance.Matching.
package satenc

import "fmt"

// VarAllocator hands out sequential DIMACS variable numbers starting
// at 1, recording a human-readable name for each one. It mirrors
// smp_c.py's UIDAllocator(first_uid=1) plus variable_registry dict.
type VarAllocator struct {
	last     int
	registry map[int]string
}

// NewVarAllocator returns an allocator with no variables issued yet.
func NewVarAllocator() *VarAllocator {
	return &VarAllocator{registry: map[int]string{}}
}

// Allocate reserves the next variable number under the given debug
// name and returns it.
func (a *VarAllocator) Allocate(name string) int {
	a.last++
	a.registry[a.last] = name
	return a.last
}

// Last returns the highest variable number issued so far; it is the
// DIMACS "p cnf" header's variable count.
func (a *VarAllocator) Last() int {
	return a.last
}

// Name returns the debug name registered for a positive variable
// number.
func (a *VarAllocator) Name(v int) string {
	name, ok := a.registry[v]
	if !ok {
		panic(fmt.Errorf("satenc: variable %d was never allocated", v))
	}
	return name
}

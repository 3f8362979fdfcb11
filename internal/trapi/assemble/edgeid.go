package assemble

import "fmt"

// EdgeIDAllocator hands out sequential knowledge-graph edge ids of the form
// "e0001", "e0002", .... Unlike the Python original's module-level edge_idx
// counter, this is a per-assembly-call instance: a single global counter
// would be shared mutable state across concurrently assembled requests.
type EdgeIDAllocator struct {
	n int
}

// Next returns the next edge id.
func (a *EdgeIDAllocator) Next() string {
	a.n++
	return fmt.Sprintf("e%04d", a.n)
}

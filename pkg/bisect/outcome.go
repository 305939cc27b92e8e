package bisect

// NoMatch marks an absent boundary index.
const NoMatch = -1

// Outcome holds the boundary indices of the presence run within a timeline.
// Both indices are NoMatch when the string was never observed.
type Outcome struct {
	FirstIndex int
	LastIndex  int
	// Probes is the total number of probes performed.
	Probes int
}

// HasFirst reports whether a first appearance was found.
func (o Outcome) HasFirst() bool {
	return o.FirstIndex != NoMatch
}

// HasLast reports whether a last appearance was found.
func (o Outcome) HasLast() bool {
	return o.LastIndex != NoMatch
}

package bridge

// pairKey is an unordered pair of type names stored in ascending order.
type pairKey struct {
	lo, hi string
}

func keyOf(a, b string) pairKey {
	if a < b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// Table maps an unordered pair of surface type names to Parameters.
//
// A Table is filled during setup and only read afterwards; concurrent
// Lookup calls are safe as long as no Add runs at the same time.
type Table struct {
	entries map[pairKey]Parameters
}

func NewTable() *Table {
	return &Table{entries: make(map[pairKey]Parameters)}
}

// Add stores p for the pair, replacing any earlier entry in either order.
func (t *Table) Add(a, b string, p Parameters) {
	t.entries[keyOf(a, b)] = p
}

// Lookup returns the parameters for the pair, or the zero Parameters when
// the pair was never added. Lookup(a, b) == Lookup(b, a).
func (t *Table) Lookup(a, b string) Parameters {
	if t == nil {
		return Parameters{}
	}
	return t.entries[keyOf(a, b)]
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

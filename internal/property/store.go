package property

import (
	"fmt"
	"sync"
)

const (
	dataMajor = 1
	dataMinor = 0
)

type layout struct {
	defs     []Definition
	offsets  []int
	index    map[string]int
	defaults []float64
}

func (l *layout) width() int { return len(l.defaults) }

func (l *layout) span(i int) (int, int, bool) {
	if i < 0 || i >= len(l.defs) {
		return 0, 0, false
	}
	return l.offsets[i], l.offsets[i] + l.defs[i].Elements, true
}

type record struct {
	values []float64
	deltas []float64
}

// Store is an in-memory custom-property store keyed by category and
// element id.
//
// Register, Create, Remove and Commit belong to the host's serial phase.
// Handles returned by Data may be used from several goroutines as long as
// each record's deltas are written by one goroutine at a time.
type Store struct {
	mu      sync.RWMutex
	layouts map[Category]*layout
	records map[Category]map[int64]*record
}

func NewStore() *Store {
	s := &Store{
		layouts: make(map[Category]*layout),
		records: make(map[Category]map[int64]*record),
	}
	for _, c := range Categories {
		s.layouts[c] = &layout{index: make(map[string]int)}
		s.records[c] = make(map[int64]*record)
	}
	return s
}

// Register adds a property definition to a category and returns its index.
// defaults, if given, initialise the leading elements of new records.
func (s *Store) Register(cat Category, def Definition, defaults ...float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.layouts[cat]
	if !ok {
		return 0, fmt.Errorf("%w: unknown category %d", ErrInvalidDefinition, cat)
	}
	if def.Name == "" || def.Elements <= 0 {
		return 0, fmt.Errorf("%w: %q with %d elements", ErrInvalidDefinition, def.Name, def.Elements)
	}
	if _, dup := l.index[def.Name]; dup {
		return 0, fmt.Errorf("%w: %s property %q", ErrDuplicate, cat, def.Name)
	}
	if len(s.records[cat]) > 0 {
		return 0, fmt.Errorf("%w: %s property %q", ErrRegistrationClosed, cat, def.Name)
	}

	idx := len(l.defs)
	l.defs = append(l.defs, def)
	l.offsets = append(l.offsets, l.width())
	l.index[def.Name] = idx

	init := make([]float64, def.Elements)
	copy(init, defaults)
	l.defaults = append(l.defaults, init...)

	return idx, nil
}

// Definitions returns a copy of the definitions registered for cat.
func (s *Store) Definitions(cat Category) []Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.layouts[cat]
	if l == nil {
		return nil
	}
	out := make([]Definition, len(l.defs))
	copy(out, l.defs)
	return out
}

// Index returns the index of a registered property.
func (s *Store) Index(cat Category, name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.layouts[cat]
	if l == nil {
		return 0, false
	}
	i, ok := l.index[name]
	return i, ok
}

// Create adds a record for id initialised with the registered defaults and
// zero deltas. An existing record is reset.
func (s *Store) Create(cat Category, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.layouts[cat]
	rec := &record{
		values: make([]float64, l.width()),
		deltas: make([]float64, l.width()),
	}
	copy(rec.values, l.defaults)
	s.records[cat][id] = rec
}

// Remove drops the record for id.
func (s *Store) Remove(cat Category, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records[cat], id)
}

// Exists reports whether id has a record.
func (s *Store) Exists(cat Category, id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[cat][id]
	return ok
}

// Len returns the number of records in cat.
func (s *Store) Len(cat Category) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[cat])
}

// Set overwrites the live value of a property.
func (s *Store) Set(cat Category, id int64, name string, values ...float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vals, err := s.slice(cat, id, name, false)
	if err != nil {
		return err
	}
	copy(vals, values)
	return nil
}

// Get returns a copy of the live value of a property.
func (s *Store) Get(cat Category, id int64, name string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vals, err := s.slice(cat, id, name, false)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	copy(out, vals)
	return out, nil
}

// PendingDelta returns a copy of the uncommitted delta of a property.
func (s *Store) PendingDelta(cat Category, id int64, name string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, err := s.slice(cat, id, name, true)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(d))
	copy(out, d)
	return out, nil
}

func (s *Store) slice(cat Category, id int64, name string, delta bool) ([]float64, error) {
	l := s.layouts[cat]
	if l == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	i, ok := l.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s property %q", ErrUnknown, cat, name)
	}
	rec, ok := s.records[cat][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s %d", ErrNoRecord, cat, id)
	}
	lo, hi, _ := l.span(i)
	if delta {
		return rec.deltas[lo:hi], nil
	}
	return rec.values[lo:hi], nil
}

// Data returns an accessor for id, or nil when id has no record. The
// accessor is only valid until the record is removed.
func (s *Store) Data(cat Category, id int64, readOnly bool) Data {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[cat][id]
	if !ok {
		return nil
	}
	return &handle{layout: s.layouts[cat], rec: rec, readOnly: readOnly}
}

// Commit adds every pending delta to its value and clears the deltas.
func (s *Store) Commit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, recs := range s.records {
		for _, rec := range recs {
			for i, d := range rec.deltas {
				rec.values[i] += d
				rec.deltas[i] = 0
			}
		}
	}
}

type handle struct {
	layout   *layout
	rec      *record
	readOnly bool
}

func (h *handle) APIVersion() (uint8, uint8) { return dataMajor, dataMinor }
func (h *handle) APIID() APIID               { return CustomPropertyData }
func (h *handle) ReadOnly() bool             { return h.readOnly }

func (h *handle) Value(name string) []float64 {
	i, ok := h.layout.index[name]
	if !ok {
		return nil
	}
	return h.ValueAt(i)
}

func (h *handle) ValueAt(index int) []float64 {
	lo, hi, ok := h.layout.span(index)
	if !ok {
		return nil
	}
	return h.rec.values[lo:hi:hi]
}

func (h *handle) Delta(name string) []float64 {
	i, ok := h.layout.index[name]
	if !ok {
		return nil
	}
	return h.DeltaAt(i)
}

func (h *handle) DeltaAt(index int) []float64 {
	if h.readOnly {
		return nil
	}
	lo, hi, ok := h.layout.span(index)
	if !ok {
		return nil
	}
	return h.rec.deltas[lo:hi:hi]
}

func (h *handle) HasData(name string) bool {
	i, ok := h.layout.index[name]
	return ok && h.HasDataAt(i)
}

func (h *handle) HasDataAt(index int) bool {
	if _, _, ok := h.layout.span(index); !ok {
		return false
	}
	return true
}

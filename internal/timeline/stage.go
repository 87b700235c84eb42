package timeline

import "github.com/san-kum/attnviz/internal/primitive"

// Stage is the ordered set of primitives currently on screen, keyed by ID.
// Draw order is insertion order; replacing a primitive keeps its slot.
type Stage struct {
	order []primitive.ID
	items map[primitive.ID]primitive.Primitive
}

func NewStage() *Stage {
	return &Stage{items: make(map[primitive.ID]primitive.Primitive)}
}

// Put adds p on top, or replaces the entry with the same ID in place.
func (s *Stage) Put(p primitive.Primitive) {
	if _, ok := s.items[p.ID()]; !ok {
		s.order = append(s.order, p.ID())
	}
	s.items[p.ID()] = p
}

// Replace swaps the entry for old with p, keeping old's draw slot. It
// reports false when old is not on stage. If p's ID is already on stage
// elsewhere that entry is dropped.
func (s *Stage) Replace(old primitive.ID, p primitive.Primitive) bool {
	idx := s.index(old)
	if idx < 0 {
		return false
	}
	if old != p.ID() {
		if _, dup := s.items[p.ID()]; dup {
			s.Remove(p.ID())
			idx = s.index(old)
		}
		delete(s.items, old)
		s.order[idx] = p.ID()
	}
	s.items[p.ID()] = p
	return true
}

// Remove takes id off the stage. Removing an absent id is a no-op.
func (s *Stage) Remove(id primitive.ID) {
	if _, ok := s.items[id]; !ok {
		return
	}
	delete(s.items, id)
	idx := s.index(id)
	s.order = append(s.order[:idx], s.order[idx+1:]...)
}

func (s *Stage) Get(id primitive.ID) (primitive.Primitive, bool) {
	p, ok := s.items[id]
	return p, ok
}

func (s *Stage) Has(id primitive.ID) bool {
	_, ok := s.items[id]
	return ok
}

func (s *Stage) Len() int { return len(s.order) }

// Primitives returns the stage contents in draw order.
func (s *Stage) Primitives() []primitive.Primitive {
	out := make([]primitive.Primitive, len(s.order))
	for i, id := range s.order {
		out[i] = s.items[id]
	}
	return out
}

// Clear empties the stage.
func (s *Stage) Clear() {
	s.order = s.order[:0]
	clear(s.items)
}

func (s *Stage) index(id primitive.ID) int {
	for i, v := range s.order {
		if v == id {
			return i
		}
	}
	return -1
}

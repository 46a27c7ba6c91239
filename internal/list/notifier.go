package list

// subscribers fans change events out to registered callbacks.
type subscribers struct {
	fns    map[int]func(ChangedEvent)
	order  []int
	nextID int
}

// Subscribe registers fn and returns a function removing it.
func (s *subscribers) Subscribe(fn func(ChangedEvent)) func() {
	if s.fns == nil {
		s.fns = make(map[int]func(ChangedEvent))
	}
	id := s.nextID
	s.nextID++
	s.fns[id] = fn
	s.order = append(s.order, id)

	return func() {
		if _, ok := s.fns[id]; !ok {
			return
		}
		delete(s.fns, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// Len returns the number of active subscriptions.
func (s *subscribers) Len() int {
	return len(s.fns)
}

func (s *subscribers) notify(e ChangedEvent) {
	ids := make([]int, len(s.order))
	copy(ids, s.order)
	for _, id := range ids {
		if fn, ok := s.fns[id]; ok {
			fn(e)
		}
	}
}

package ecs

// entityStore tracks entity generations and free ids.
// Slot 0 is reserved so the zero Entity is never alive.
type entityStore struct {
	gens  []generation
	alive []bool
	free  []entityID
	order []Entity
}

func (s *entityStore) create() Entity {
	if len(s.gens) == 0 {
		s.gens = append(s.gens, 0)
		s.alive = append(s.alive, false)
	}
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		id = entityID(len(s.gens))
		s.gens = append(s.gens, 0)
		s.alive = append(s.alive, false)
	}
	s.alive[id] = true
	e := makeEntity(id, s.gens[id])
	s.order = append(s.order, e)
	return e
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	id := e.id()
	s.alive[id] = false
	s.gens[id]++
	s.free = append(s.free, id)
	for i, o := range s.order {
		if o == e {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) >= len(s.gens) {
		return false
	}
	return s.alive[id] && s.gens[id] == e.generation()
}

// entities returns live entities in creation order.
func (s *entityStore) entities() []Entity {
	out := make([]Entity, len(s.order))
	copy(out, s.order)
	return out
}

package ecs

// intersect returns live entities present in every set, ordered by the
// first set.
func intersect(w *World, sets ...*SparseSet) []Entity {
	if len(sets) == 0 {
		return nil
	}
	for _, s := range sets {
		if s == nil {
			return nil
		}
	}
	base := sets[0].Entities()
	out := make([]Entity, 0, len(base))
	for _, e := range base {
		if !w.entities.isAlive(e) {
			continue
		}
		ok := true
		for _, s := range sets[1:] {
			if !s.Has(e) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, e)
		}
	}
	return out
}

package flip

import "github.com/five82/foldview/internal/geometry"

// arena stores in-flight units in creation order. Identifiers are monotonic,
// so creation order is also ID order and the newest unit is last.
type arena struct {
	next  UnitID
	units []*Unit
}

func (a *arena) alloc() UnitID {
	a.next++
	return a.next
}

func (a *arena) add(u *Unit) {
	a.units = append(a.units, u)
}

func (a *arena) get(id UnitID) *Unit {
	for _, u := range a.units {
		if u.id == id {
			return u
		}
	}
	return nil
}

// remove drops the unit with the given id and reports whether it was present.
func (a *arena) remove(id UnitID) bool {
	for i, u := range a.units {
		if u.id == id {
			a.units = append(a.units[:i], a.units[i+1:]...)
			return true
		}
	}
	return false
}

func (a *arena) len() int { return len(a.units) }

func (a *arena) last() *Unit {
	if len(a.units) == 0 {
		return nil
	}
	return a.units[len(a.units)-1]
}

// clear empties the arena and returns what it held.
func (a *arena) clear() []*Unit {
	out := a.units
	a.units = nil
	return out
}

func (a *arena) highestZ() *Unit {
	var top *Unit
	for _, u := range a.units {
		if top == nil || u.z > top.z {
			top = u
		}
	}
	return top
}

// highestInDirection returns the topmost unit travelling in d.
func (a *arena) highestInDirection(d geometry.Direction) *Unit {
	var top *Unit
	for _, u := range a.units {
		if u.direction != d {
			continue
		}
		if top == nil || u.z > top.z {
			top = u
		}
	}
	return top
}

package flip

import "github.com/five82/foldview/internal/geometry"

// resolveConflict looks for the topmost flip travelling against u. When that
// flip is a real page turn, u is dropped and the other flip is sent back the
// way it came, so a gesture never commits two opposing page changes.
func (c *Controller) resolveConflict(u *Unit) bool {
	if c.units.len() <= 1 {
		return false
	}
	opp := c.units.highestInDirection(u.direction.Opposite())
	if opp == nil || opp == u || opp.edge {
		return false
	}

	c.evict(u)

	switch {
	case opp.status == StatusInterrupt:
	case opp.status == StatusCompleting && opp.pending.Valid():
		opp.setStatus(StatusInterrupt)
	default:
		opp.setStatus(StatusCompleting)
	}
	c.reverseDirection(opp)
	c.setUpForFlip(opp, 1, true)

	c.metrics.Conflict()
	c.log.V(logDebug).Info("conflict, reversing flip", "dropped", u.id, "reversed", opp.id,
		"direction", opp.direction, "page", c.current)
	return true
}

// reverseDirection turns u around mid-flight and undoes its page change.
func (c *Controller) reverseDirection(u *Unit) {
	if u.direction == geometry.DirectionStart {
		c.current--
	} else {
		c.current++
	}
	u.reverse()
}

// evict fails u and removes it from the render tree without committing. Its
// z-order is pushed above every other leaf so it never intercepts input on
// its way out.
func (c *Controller) evict(u *Unit) {
	u.setStatus(StatusFail)
	z := 0.0
	if top := c.units.highestZ(); top != nil {
		z = top.z + u.frame.H
	}
	c.units.remove(u.id)
	u.setZ(z)
	u.pending = Token{}
	u.release()
	if c.tracked == u.id {
		c.tracked = 0
	}
	c.settleIfEmpty()
}

// Complete handles a completion token reported by the renderer. Tokens for
// units that are gone, or that were replaced by a newer animation on a unit
// still completing, are ignored.
func (c *Controller) Complete(tok Token) {
	u := c.units.get(tok.Unit)
	if u == nil || !tok.Valid() {
		c.stale(tok)
		return
	}

	switch u.status {
	case StatusInterrupt:
		// the animation that was running when the flip got reversed
		u.setStatus(StatusCompleting)
		if tok == u.pending {
			c.commit(u)
		}
	case StatusCompleting:
		if tok != u.pending {
			c.stale(tok)
			return
		}
		c.commit(u)
	default:
		c.stale(tok)
	}
}

func (c *Controller) stale(tok Token) {
	c.metrics.StaleCompletion()
	c.log.V(logDebug).Info("stale completion", "unit", tok.Unit, "seq", tok.Seq)
}

// commit merges a settled leaf into the static surface and discards it.
func (c *Controller) commit(u *Unit) {
	u.setStatus(StatusComplete)
	u.pending = Token{}

	if !u.edge {
		if u.direction == geometry.DirectionStart {
			c.surface.setImage(geometry.SideStart, u.back)
		} else {
			c.surface.setImage(geometry.SideEnd, u.front)
		}
		c.metrics.FlipCommitted(u.direction)
	}

	c.units.remove(u.id)
	u.release()
	if c.tracked == u.id {
		c.tracked = 0
	}
	c.log.V(logDebug).Info("flip committed", "unit", u.id, "direction", u.direction,
		"edge", u.edge, "page", c.current, "remaining", c.units.len())
	c.settleIfEmpty()
}

// settleIfEmpty returns to rest once nothing is in the air: the live page
// comes back and the static surface leaves the render tree empty.
func (c *Controller) settleIfEmpty() {
	if c.units.len() > 0 {
		return
	}
	c.mode = ModeInactive
	c.updateActive()
	c.surface.Detach()
	c.surface.Clear()
}

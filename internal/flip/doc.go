// Package flip implements the page-turn state machine.
//
// A Controller owns the in-flight units, the current page index, a per-page
// snapshot cache and the static surface drawn beneath the leaves. Pan events
// from the gesture package and completion tokens reported by a Renderer are
// the only inputs, and both must arrive on the same goroutine.
//
// Each Unit moves through beginning, active or completing, and finally
// complete or fail. A flip started against another one that is still a real
// page turn is dropped, and the older flip is reversed (interrupt, then
// completing) so each gesture commits at most one page change. Completion
// tokens whose unit has gone or been superseded are ignored.
package flip

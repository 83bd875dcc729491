// Package downtime implements the resource up/going-down/down lifecycle
// agents: scheduled (cyclic, peer-coordinating) downtime and
// failure-driven downtime, both built on the hard take-down / soft
// going-down primitives exposed by package resource.
package downtime

import (
	"github.com/simgo/simgo/internal/clock"
	"github.com/simgo/simgo/internal/resource"
	"github.com/simgo/simgo/internal/simtime"
)

// Base is embedded by every downtime agent: it owns exactly one resource
// and exposes the three state transitions every downtime agent drives.
// Multiple downtime agents may share a resource (e.g. a scheduled break
// and a failure agent both targeting the same teller).
type Base struct {
	Resource *resource.Resource
	loop     *clock.Loop

	goingDownTimeout clock.Handle
}

// takeDown hard-takes the resource down: capacity drops to zero
// immediately, every process currently holding units is notified with
// simerr.ResourceDown and force-released. Protected: embedders (and their
// package-local tests) drive it through Start/StartResourceTakedown, not
// external callers.
func (b *Base) takeDown() {
	b.goingDownTimeout.Cancel()
	b.Resource.Agent().TakeDown(b.Resource.ID)
}

// setGoingDown transitions the resource to going-down: it stays valid for
// current holders but is excluded from new assignment. If timeout > 0, a
// hard takeDown is scheduled at now+timeout, falling back automatically
// if nothing brings the resource up first.
func (b *Base) setGoingDown(timeout simtime.T) {
	b.Resource.Agent().SetGoingDown(b.Resource.ID)
	if timeout.Value > 0 {
		h, err := b.loop.Schedule(timeout, "going-down-timeout", b.Resource.ID, func() {
			if b.Resource.GoingDown() {
				b.Resource.Agent().TakeDown(b.Resource.ID)
			}
		})
		if err == nil {
			b.goingDownTimeout = h
		}
	}
}

// bringUp restores the resource to up, publishing RSRC_UP and
// re-triggering its assignment agent's queue.
func (b *Base) bringUp() {
	b.goingDownTimeout.Cancel()
	b.Resource.Agent().BringUp(b.Resource.ID)
}

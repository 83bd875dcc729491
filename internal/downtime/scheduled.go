package downtime

import (
	"github.com/simgo/simgo/internal/clock"
	"github.com/simgo/simgo/internal/resource"
	"github.com/simgo/simgo/internal/simtime"
)

// Interval is one non-overlapping down period within a cycle: the
// resource goes down at offset and comes back up duration later.
type Interval struct {
	Offset   simtime.T
	Duration simtime.T
}

// Schedule is a DowntimeSchedule: intervals repeat every cycleLength,
// indefinitely.
type Schedule struct {
	CycleLength simtime.T
	Intervals   []Interval
}

// ScheduledAgent drives a resource through a repeating schedule of
// down periods. StartResourceTakedown is the customization seam: the
// default immediately hard-takes-down the resource, but it may be
// replaced (e.g. to check Peers before going down, so two resources
// never break at once).
type ScheduledAgent struct {
	Base
	Schedule Schedule
	Peers    []*ScheduledAgent

	// StartResourceTakedown is invoked when an interval's offset is
	// reached. The default, defaultStartTakedown, takes the resource down
	// immediately; override to delay or soften the transition.
	StartResourceTakedown func(iv Interval, cycle int)
}

// NewScheduledAgent constructs a scheduled downtime agent for r. Call
// Start to begin the first cycle.
func NewScheduledAgent(r *resource.Resource, loop *clock.Loop, schedule Schedule) *ScheduledAgent {
	a := &ScheduledAgent{
		Base:     Base{Resource: r, loop: loop},
		Schedule: schedule,
	}
	a.StartResourceTakedown = a.defaultStartTakedown
	return a
}

// Start schedules every interval's first occurrence (cycle 0).
func (a *ScheduledAgent) Start() {
	for _, iv := range a.Schedule.Intervals {
		a.scheduleInterval(iv, 0)
	}
}

func (a *ScheduledAgent) scheduleInterval(iv Interval, cycle int) {
	at := simtime.T{
		Value: float64(cycle)*a.Schedule.CycleLength.Value + iv.Offset.Value,
		Unit:  a.Schedule.CycleLength.Unit,
	}
	a.loop.ScheduleAt(at, "scheduled-takedown", iv, func() {
		a.StartResourceTakedown(iv, cycle)
	})
}

// defaultStartTakedown is the default: take the resource down
// immediately and bring it back up duration later.
func (a *ScheduledAgent) defaultStartTakedown(iv Interval, cycle int) {
	a.startNow(iv, cycle)
}

// startNow hard-takes-down the resource now and schedules its bring-up
// and the interval's next cycle.
func (a *ScheduledAgent) startNow(iv Interval, cycle int) {
	a.takeDown()
	a.loop.Schedule(iv.Duration, "scheduled-bringup", iv, func() {
		a.bringUp()
		a.scheduleInterval(iv, cycle+1)
	})
}

// CoordinateWithPeers is a ready-made StartResourceTakedown that
// implements "don't both be down at once": if any peer resource is
// currently down or going down, the takedown is deferred until that peer
// comes back up; otherwise it proceeds immediately.
func (a *ScheduledAgent) CoordinateWithPeers(iv Interval, cycle int) {
	for _, peer := range a.Peers {
		if peer.Resource.DownUnits() > 0 || peer.Resource.GoingDown() {
			peer.Resource.AwaitUp(func() { a.startNow(iv, cycle) })
			return
		}
	}
	a.startNow(iv, cycle)
}

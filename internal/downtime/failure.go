package downtime

import (
	"github.com/simgo/simgo/internal/clock"
	"github.com/simgo/simgo/internal/resource"
	"github.com/simgo/simgo/internal/simtime"
)

// Distribution draws the next delay for a failure/repair cycle. Normally
// backed by package rng; a constant or deterministic func is just as
// valid for tests.
type Distribution func() simtime.T

// FailureAgent alternates time_to_failure -> time_to_repair indefinitely:
// each failure is a hard TakeDown, each repair a BringUp.
type FailureAgent struct {
	Base
	TimeToFailure Distribution
	TimeToRepair  Distribution
}

// NewFailureAgent constructs a failure-driven downtime agent for r. Call
// Start to begin drawing failures.
func NewFailureAgent(r *resource.Resource, loop *clock.Loop, ttf, ttr Distribution) *FailureAgent {
	return &FailureAgent{
		Base:          Base{Resource: r, loop: loop},
		TimeToFailure: ttf,
		TimeToRepair:  ttr,
	}
}

// Start schedules the first failure.
func (a *FailureAgent) Start() {
	a.scheduleFailure()
}

func (a *FailureAgent) scheduleFailure() {
	a.loop.Schedule(a.TimeToFailure(), "failure", nil, func() {
		a.takeDown()
		a.loop.Schedule(a.TimeToRepair(), "repair", nil, func() {
			a.bringUp()
			a.scheduleFailure()
		})
	})
}

package model

import (
	"strconv"

	"github.com/simgo/simgo/internal/clock"
	"github.com/simgo/simgo/internal/elementid"
	"github.com/simgo/simgo/internal/process"
	"github.com/simgo/simgo/internal/simtime"
)

// Generator is an entity generator attached to a source: on each fire it
// draws the next interarrival delay, schedules its own next fire, then
// instantiates an entity and its process and schedules the process-start
// event at now. Multiple generators on one source run independent
// schedules.
type Generator struct {
	ID           string
	loop         *clock.Loop
	interarrival func() simtime.T
	newEntity    func(id string) *Entity
	newProcess   func(*Entity) *process.Process
	seq          int
}

// NewGenerator constructs a generator. newEntity and newProcess are the
// entity_class/process_class factories.
func NewGenerator(id string, loop *clock.Loop, interarrival func() simtime.T, newEntity func(string) *Entity, newProcess func(*Entity) *process.Process) *Generator {
	return &Generator{ID: id, loop: loop, interarrival: interarrival, newEntity: newEntity, newProcess: newProcess}
}

// Start draws the first interarrival sample immediately (equivalent to
// scheduling at now+0) and begins the generator's independent schedule.
func (g *Generator) Start() {
	g.scheduleNext()
}

func (g *Generator) scheduleNext() {
	delay := g.interarrival()
	g.loop.Schedule(delay, "entity-arrival", g.ID, func() {
		g.scheduleNext()
		g.seq++
		id := elementid.Join(g.ID, strconv.Itoa(g.seq))
		e := g.newEntity(id)
		p := g.newProcess(e)
		p.Start()
	})
}

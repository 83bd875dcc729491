// Package model implements the entity/location/source/sink layer:
// entities moving between tree-structured locations, with population,
// entry, and time-in-location data emitted to an injected recorder.
package model

import (
	"github.com/simgo/simgo/internal/dataset"
	"github.com/simgo/simgo/internal/simtime"
)

// Entity is a transient object with an immutable id, a mutable location,
// and (by convention) an owning process tracked by the model layer that
// constructs it.
type Entity struct {
	ID       string
	Location *Location
}

// Location is a tree-structured static object tracking current
// population plus three datasets: population (time-weighted), entries
// (unweighted count), and time-in-location (unweighted, per-entity exit
// delta).
type Location struct {
	ID       string
	Parent   *Location
	Children []*Location

	population map[string]*Entity
	enteredAt  map[string]simtime.T

	populationDS    *dataset.TimeWeightedCollector
	entriesDS       *dataset.UnweightedCollector
	timeInLocation  *dataset.UnweightedCollector
}

// NewLocation constructs a location and registers its three datasets
// against rec. If parent is non-nil, the new location is appended to its
// Children.
func NewLocation(rec *dataset.Recorder, id string, parent *Location, start simtime.T, timeUnit simtime.Unit) *Location {
	rec.OnElement(id, "Location", "location")
	l := &Location{
		ID:             id,
		Parent:         parent,
		population:     make(map[string]*Entity),
		enteredAt:      make(map[string]simtime.T),
		populationDS:   dataset.NewTimeWeightedCollector(rec, id, id+".population", "population", timeUnit, start),
		entriesDS:      dataset.NewUnweightedCollector(rec, id, id+".entries", "entries", dataset.Integer),
		timeInLocation: dataset.NewUnweightedCollector(rec, id, id+".time_in_location", "time_in_location", dataset.Float),
	}
	if parent != nil {
		parent.Children = append(parent.Children, l)
	}
	return l
}

// Population returns the current number of entities at this location.
func (l *Location) Population() int { return len(l.population) }

// MoveTo moves e from its current location (if any) to dest at time now:
// it decrements/increments population datasets, records an entry at
// dest, and — if e was previously somewhere — emits its time-in-location
// delta for the location it left.
func MoveTo(e *Entity, dest *Location, now simtime.T) {
	if old := e.Location; old != nil {
		delete(old.population, e.ID)
		old.populationDS.Set(now, float64(len(old.population)))
		if enter, ok := old.enteredAt[e.ID]; ok {
			if delta, err := simtime.Sub(now, enter); err == nil {
				old.timeInLocation.Add(now, delta.Value)
			}
			delete(old.enteredAt, e.ID)
		}
	}

	dest.population[e.ID] = e
	dest.enteredAt[e.ID] = now
	dest.populationDS.Set(now, float64(len(dest.population)))
	dest.entriesDS.Add(now, 1)
	e.Location = dest
}

// SimQueue is a Location specialization: Size is a population synonym.
// Order is not separately maintained — it simply reflects population, as
// the source spec specifies.
type SimQueue struct {
	*Location
}

// NewSimQueue constructs a queue-flavored location.
func NewSimQueue(rec *dataset.Recorder, id string, parent *Location, start simtime.T, timeUnit simtime.Unit) *SimQueue {
	return &SimQueue{Location: NewLocation(rec, id, parent, start, timeUnit)}
}

// Size is a population synonym for queue-flavored call sites.
func (q *SimQueue) Size() int { return q.Population() }

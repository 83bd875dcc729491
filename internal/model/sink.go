package model

import "github.com/simgo/simgo/internal/simtime"

// Sink is a location whose Destroy moves the entity in and destroys it: its process is
// expected to return immediately afterward, which drives the normal
// process.Process completion path (auto-release of anything still
// held, process-complete bookkeeping).
type Sink struct {
	*Location
}

// NewSink constructs a sink-flavored location.
func NewSink(loc *Location) *Sink {
	return &Sink{Location: loc}
}

// Destroy moves e into the sink (recording its exit from wherever it
// was) and severs its location reference, matching "receiving move_to(sink)
// destroys the entity."
func (s *Sink) Destroy(e *Entity, now simtime.T) {
	MoveTo(e, s.Location, now)
	e.Location = nil
}

// Package datasink names the external data-persistence contract:
// the engine only ever talks to dataset.Sink, but the reference
// implementation and its schema live here, outside the core's import
// graph, matching "the output database is an external collaborator."
package datasink

import "github.com/simgo/simgo/internal/dataset"

// Sink is the persistence contract the core emits through. It is
// dataset.Sink by another name, kept distinct so the reference
// implementation's package doesn't need to sit under internal/dataset.
type Sink = dataset.Sink

// Package sqlite is the reference datasink.Sink implementation: every
// point the engine emits lands as a row in a local SQLite file via the
// pure-Go modernc.org/sqlite driver. It is an external collaborator in
// the architectural sense — nothing under internal/dataset imports it —
// but is shipped here so cmd/simrun has a working default.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/simgo/simgo/internal/dataset"
	"github.com/simgo/simgo/internal/simtime"
)

var _ dataset.Sink = (*Sink)(nil)

//go:embed schema.sql
var schema string

// Sink implements dataset.Sink backed by a single SQLite connection.
type Sink struct {
	db *sql.DB
}

// Open creates (or reuses) a SQLite database at path and applies schema.sql.
func Open(path string) (*Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite sink: open: %w", err)
	}
	db.SetMaxOpenConns(1) // serialize writers through one connection
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite sink: apply schema: %w", err)
	}
	return &Sink{db: db}, nil
}

// Close releases the underlying connection.
func (s *Sink) Close() error { return s.db.Close() }

func (s *Sink) OnElement(elementID, className, typeName string) {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO elements (element_id, class_name, type_name) VALUES (?, ?, ?)`,
		elementID, className, typeName,
	)
	if err != nil {
		fmt.Printf("sqlite sink: on_element %s: %v\n", elementID, err)
	}
}

func (s *Sink) OnDataset(datasetID, elementID, name string, valueType dataset.ValueType, timeWeighted bool, timeUnit simtime.Unit) {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO datasets (dataset_id, element_id, name, value_type, time_weighted, time_unit) VALUES (?, ?, ?, ?, ?, ?)`,
		datasetID, elementID, name, int(valueType), boolToInt(timeWeighted), int(timeUnit),
	)
	if err != nil {
		fmt.Printf("sqlite sink: on_dataset %s: %v\n", datasetID, err)
	}
}

func (s *Sink) PutUnweighted(datasetID string, run, batch int, at simtime.T, value float64) {
	_, err := s.db.Exec(
		`INSERT INTO unweighted_points (dataset_id, run, batch, at_time, value) VALUES (?, ?, ?, ?, ?)`,
		datasetID, run, batch, at.Value, value,
	)
	if err != nil {
		fmt.Printf("sqlite sink: put_unweighted %s: %v\n", datasetID, err)
	}
}

func (s *Sink) PutTimeWeighted(datasetID string, run, batch int, from, to simtime.T, value float64) {
	_, err := s.db.Exec(
		`INSERT INTO timeweighted_points (dataset_id, run, batch, from_time, to_time, value) VALUES (?, ?, ?, ?, ?, ?)`,
		datasetID, run, batch, from.Value, to.Value, value,
	)
	if err != nil {
		fmt.Printf("sqlite sink: put_timeweighted %s: %v\n", datasetID, err)
	}
}

func (s *Sink) BeginRun(run int) {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO runs (run, started_at) VALUES (?, ?)`, run, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		fmt.Printf("sqlite sink: begin_run %d: %v\n", run, err)
	}
}

func (s *Sink) EndRun(run int) {
	_, err := s.db.Exec(`UPDATE runs SET ended_at = ? WHERE run = ?`, time.Now().UTC().Format(time.RFC3339), run)
	if err != nil {
		fmt.Printf("sqlite sink: end_run %d: %v\n", run, err)
	}
}

func (s *Sink) BeginBatch(run, batch int) {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO batches (run, batch, started_at) VALUES (?, ?, ?)`,
		run, batch, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		fmt.Printf("sqlite sink: begin_batch %d/%d: %v\n", run, batch, err)
	}
}

func (s *Sink) EndBatch(run, batch int) {
	_, err := s.db.Exec(
		`UPDATE batches SET ended_at = ? WHERE run = ? AND batch = ?`,
		time.Now().UTC().Format(time.RFC3339), run, batch,
	)
	if err != nil {
		fmt.Printf("sqlite sink: end_batch %d/%d: %v\n", run, batch, err)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

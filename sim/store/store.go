// Package store archives evacuation run summaries in SQLite. It records
// outcomes only; a stored run cannot be resumed.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/evac-sim/evac-sim/sim"
)

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one archived run.
type RunRecord struct {
	ID          string  `db:"id"`
	Scenario    string  `db:"scenario"`
	Seed        int64   `db:"seed"`
	Width       int     `db:"width"`
	Height      int     `db:"height"`
	Layout      string  `db:"layout"`
	Policy      string  `db:"policy"`
	Sensitivity float64 `db:"sensitivity"`
	Agents      int     `db:"agents"`
	Ticks       int     `db:"ticks"`
	Evacuated   int     `db:"evacuated"`
	Conflicts   int     `db:"conflicts"`
	Finished    bool    `db:"finished"`
	CreatedUnix int64   `db:"created_at"`

	// History is the remaining population after each tick. It is written
	// by SaveRun and loaded only by GetRun.
	History []int `db:"-"`
}

// CreatedAt returns the archive time.
func (r RunRecord) CreatedAt() time.Time {
	return time.Unix(r.CreatedUnix, 0)
}

// RecordFromSimulator summarizes a simulator's current state.
func RecordFromSimulator(scenario string, s *sim.Simulator) RunRecord {
	cfg := s.Config()
	m := s.Metrics()
	policy := cfg.Movement
	if policy == "" {
		policy = sim.PolicyDeterministic
	}
	return RunRecord{
		Scenario:    scenario,
		Seed:        cfg.Seed,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Layout:      cfg.Layout.String(),
		Policy:      policy,
		Sensitivity: cfg.Sensitivity,
		Agents:      m.InitialAgents,
		Ticks:       s.TickCount(),
		Evacuated:   m.Evacuated,
		Conflicts:   m.Conflicts,
		Finished:    s.Finished(),
		History:     append([]int(nil), m.AgentHistory...),
	}
}

// DB wraps a SQLite connection for the run archive.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		layout TEXT NOT NULL,
		policy TEXT NOT NULL,
		sensitivity REAL NOT NULL,
		agents INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		evacuated INTEGER NOT NULL,
		conflicts INTEGER NOT NULL,
		finished INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_history (
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		remaining INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun archives a run and its per-tick history. An empty ID is replaced
// by a fresh UUID and a zero timestamp by the current time; both are written
// back to rec.
func (db *DB) SaveRun(rec *RunRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedUnix == 0 {
		rec.CreatedUnix = time.Now().Unix()
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExec(`INSERT INTO runs
		(id, scenario, seed, width, height, layout, policy, sensitivity,
		 agents, ticks, evacuated, conflicts, finished, created_at)
		VALUES
		(:id, :scenario, :seed, :width, :height, :layout, :policy, :sensitivity,
		 :agents, :ticks, :evacuated, :conflicts, :finished, :created_at)`, rec); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex("INSERT INTO run_history (run_id, tick, remaining) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, remaining := range rec.History {
		if _, err := stmt.Exec(rec.ID, i+1, remaining); err != nil {
			return fmt.Errorf("insert history tick %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logrus.Debugf("archived run %s (%s, %d ticks)", rec.ID, rec.Scenario, rec.Ticks)
	return nil
}

const runColumns = `id, scenario, seed, width, height, layout, policy, sensitivity,
	agents, ticks, evacuated, conflicts, finished, created_at`

// ListRuns returns the most recent runs, newest first. limit <= 0 returns all.
func (db *DB) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	var runs []RunRecord
	err := db.conn.Select(&runs,
		"SELECT "+runColumns+" FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// GetRun loads one run including its history.
func (db *DB) GetRun(id string) (*RunRecord, error) {
	var rec RunRecord
	err := db.conn.Get(&rec, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if err := db.conn.Select(&rec.History,
		"SELECT remaining FROM run_history WHERE run_id = ? ORDER BY tick", id,
	); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return &rec, nil
}

// CountRuns returns the number of archived runs.
func (db *DB) CountRuns() (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM runs")
	return n, err
}

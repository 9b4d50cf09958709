package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/alexini-mv/kinetic-neurotransmission/solver"
)

// ErrNotFound indicates an unknown experiment ID.
var ErrNotFound = errors.New("store: experiment not found")

// timeLayout is a fixed-width RFC 3339 layout so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Snapshot kinds.
const (
	KindState      = "state"
	KindTransition = "transition"
)

// Experiment is the metadata of one stored simulation.
type Experiment struct {
	ID         string
	Model      string
	Vesicles   int
	Seed       int64
	Repeat     int
	TimeEnd    float64
	TimeSave   float64
	Parameters string
	CreatedAt  time.Time
}

// Point is one stored snapshot value.
type Point struct {
	Run   int
	Time  float64
	Value int
}

// Store is a SQLite-backed experiment store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and initializes the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewID returns a time-ordered experiment identifier.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// CreateExperiment inserts e and returns its ID. An empty ID is assigned with
// NewID and a zero CreatedAt with the current time.
func (s *Store) CreateExperiment(ctx context.Context, e Experiment) (string, error) {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO experiments (id, model, vesicles, seed, repeat, time_end, time_save, parameters, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Model, e.Vesicles, e.Seed, e.Repeat, e.TimeEnd, e.TimeSave, e.Parameters,
		e.CreatedAt.Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("failed to insert experiment: %w", err)
	}

	return e.ID, nil
}

// Experiment returns the experiment with the given ID.
func (s *Store) Experiment(ctx context.Context, id string) (Experiment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, model, vesicles, seed, repeat, time_end, time_save, parameters, created_at
		FROM experiments WHERE id = ?`, id)

	e, err := scanExperiment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Experiment{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return e, err
}

// Experiments lists all experiments, oldest first.
func (s *Store) Experiments(ctx context.Context) ([]Experiment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, vesicles, seed, repeat, time_end, time_save, parameters, created_at
		FROM experiments ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query experiments: %w", err)
	}
	defer rows.Close()

	var out []Experiment
	for rows.Next() {
		e, err := scanExperiment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExperiment(sc scanner) (Experiment, error) {
	var (
		e          Experiment
		parameters sql.NullString
		created    string
	)
	if err := sc.Scan(&e.ID, &e.Model, &e.Vesicles, &e.Seed, &e.Repeat, &e.TimeEnd, &e.TimeSave, &parameters, &created); err != nil {
		return Experiment{}, err
	}
	e.Parameters = parameters.String
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Experiment{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	e.CreatedAt = t

	return e, nil
}

// SaveRestingState stores the rest point of an experiment, replacing any previous one.
func (s *Store) SaveRestingState(ctx context.Context, experimentID string, state map[string]int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM resting_states WHERE experiment_id = ?`, experimentID); err != nil {
		return fmt.Errorf("failed to clear resting state: %w", err)
	}
	for name, n := range state {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO resting_states (experiment_id, state, vesicles) VALUES (?, ?, ?)`,
			experimentID, name, n); err != nil {
			return fmt.Errorf("failed to insert resting state %q: %w", name, err)
		}
	}

	return tx.Commit()
}

// RestingState returns the stored rest point of an experiment.
func (s *Store) RestingState(ctx context.Context, experimentID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT state, vesicles FROM resting_states WHERE experiment_id = ?`, experimentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query resting state: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		out[name] = n
	}

	return out, rows.Err()
}

// SaveTable stores every value of tab in long format within one transaction.
func (s *Store) SaveTable(ctx context.Context, experimentID string, tab *solver.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshots (experiment_id, run, time, kind, name, value) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range tab.Rows {
		for j, name := range tab.StateNames {
			if _, err := stmt.ExecContext(ctx, experimentID, row.Run, row.Time, KindState, name, row.States[j]); err != nil {
				return fmt.Errorf("failed to insert snapshot: %w", err)
			}
		}
		for j, name := range tab.TransitionNames {
			if _, err := stmt.ExecContext(ctx, experimentID, row.Run, row.Time, KindTransition, name, row.Transitions[j]); err != nil {
				return fmt.Errorf("failed to insert snapshot: %w", err)
			}
		}
	}

	return tx.Commit()
}

// Column returns the stored values of one state or transition, ordered by run then time.
func (s *Store) Column(ctx context.Context, experimentID, name string) ([]Point, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run, time, value FROM snapshots
		WHERE experiment_id = ? AND name = ?
		ORDER BY run, time`, experimentID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.Run, &p.Time, &p.Value); err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

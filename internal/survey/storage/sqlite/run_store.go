// Package sqlite persists completed survey runs: the run's configuration
// summary, its aggregate statistics and a compressed copy of the fold grid,
// so runs can be compared and re-plotted without recomputation.
package sqlite

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/geoplan-data/fold.report/internal/survey"
)

// Run is one persisted binning run.
type Run struct {
	RunID       string  `json:"run_id"`
	SurveyName  string  `json:"survey_name"`
	Method      string  `json:"method"`
	Status      string  `json:"status"`
	Shots       int     `json:"shots"`
	Nx          int     `json:"nx"`
	Ny          int     `json:"ny"`
	BinSizeX    float64 `json:"bin_size_x"`
	BinSizeY    float64 `json:"bin_size_y"`
	MinimumFold int32   `json:"minimum_fold"`
	MaximumFold int32   `json:"maximum_fold"`
	MeanFold    float64 `json:"mean_fold"`
	CreatedAtNs int64   `json:"created_at_ns"`
}

// RunStore provides persistence for survey runs.
type RunStore struct {
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS survey_runs (
		run_id        TEXT PRIMARY KEY,
		survey_name   TEXT NOT NULL,
		method        TEXT NOT NULL,
		status        TEXT NOT NULL,
		shots         INTEGER NOT NULL,
		nx            INTEGER NOT NULL,
		ny            INTEGER NOT NULL,
		bin_size_x    REAL NOT NULL,
		bin_size_y    REAL NOT NULL,
		minimum_fold  INTEGER NOT NULL,
		maximum_fold  INTEGER NOT NULL,
		mean_fold     REAL NOT NULL,
		fold_blob     BLOB,
		created_at_ns INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_survey_runs_name
		ON survey_runs(survey_name, created_at_ns);
`

// NewRunStore creates a RunStore and ensures its schema exists.
func NewRunStore(db *sql.DB) (*RunStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create run schema: %w", err)
	}
	return &RunStore{db: db}, nil
}

// InsertRun persists one completed run with its fold grid. If run.RunID is
// empty, a new UUID is generated.
func (s *RunStore) InsertRun(run *Run, grid *survey.BinGrid) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAtNs == 0 {
		run.CreatedAtNs = time.Now().UnixNano()
	}

	var blob []byte
	if grid != nil {
		var err error
		blob, err = encodeFold(grid.Fold)
		if err != nil {
			return fmt.Errorf("encode fold grid: %w", err)
		}
		run.Nx, run.Ny = grid.Nx, grid.Ny
		run.BinSizeX, run.BinSizeY = grid.BinSizeX, grid.BinSizeY
	}

	query := `
		INSERT INTO survey_runs (
			run_id, survey_name, method, status, shots,
			nx, ny, bin_size_x, bin_size_y,
			minimum_fold, maximum_fold, mean_fold,
			fold_blob, created_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		run.RunID,
		run.SurveyName,
		run.Method,
		run.Status,
		run.Shots,
		run.Nx,
		run.Ny,
		run.BinSizeX,
		run.BinSizeY,
		run.MinimumFold,
		run.MaximumFold,
		run.MeanFold,
		blob,
		run.CreatedAtNs,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID, without its fold grid.
func (s *RunStore) GetRun(runID string) (*Run, error) {
	query := `
		SELECT run_id, survey_name, method, status, shots,
		       nx, ny, bin_size_x, bin_size_y,
		       minimum_fold, maximum_fold, mean_fold, created_at_ns
		FROM survey_runs
		WHERE run_id = ?
	`
	var run Run
	err := s.db.QueryRow(query, runID).Scan(
		&run.RunID,
		&run.SurveyName,
		&run.Method,
		&run.Status,
		&run.Shots,
		&run.Nx,
		&run.Ny,
		&run.BinSizeX,
		&run.BinSizeY,
		&run.MinimumFold,
		&run.MaximumFold,
		&run.MeanFold,
		&run.CreatedAtNs,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &run, nil
}

// GetFold retrieves and decodes the fold grid of a run.
func (s *RunStore) GetFold(runID string) ([]int32, error) {
	var blob []byte
	err := s.db.QueryRow(`SELECT fold_blob FROM survey_runs WHERE run_id = ?`, runID).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get fold: %w", err)
	}
	if len(blob) == 0 {
		return nil, nil
	}
	return decodeFold(blob)
}

// ListRuns retrieves runs newest first, optionally filtered by survey name.
func (s *RunStore) ListRuns(surveyName string) ([]*Run, error) {
	query := `
		SELECT run_id, survey_name, method, status, shots,
		       nx, ny, bin_size_x, bin_size_y,
		       minimum_fold, maximum_fold, mean_fold, created_at_ns
		FROM survey_runs
	`
	var args []interface{}
	if surveyName != "" {
		query += ` WHERE survey_name = ?`
		args = append(args, surveyName)
	}
	query += ` ORDER BY created_at_ns DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		err := rows.Scan(
			&run.RunID,
			&run.SurveyName,
			&run.Method,
			&run.Status,
			&run.Shots,
			&run.Nx,
			&run.Ny,
			&run.BinSizeX,
			&run.BinSizeY,
			&run.MinimumFold,
			&run.MaximumFold,
			&run.MeanFold,
			&run.CreatedAtNs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and its fold grid.
func (s *RunStore) DeleteRun(runID string) error {
	result, err := s.db.Exec(`DELETE FROM survey_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

// encodeFold serializes a fold grid as gzipped little-endian int32s.
func encodeFold(fold []int32) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := binary.Write(zw, binary.LittleEndian, fold); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeFold(blob []byte) ([]int32, error) {
	zr, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var out []int32
	var v int32
	for {
		err := binary.Read(zr, binary.LittleEndian, &v)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/bryanfinkel/satellite-backend-go/internal/database"
	"github.com/bryanfinkel/satellite-backend-go/internal/models"
	"github.com/bryanfinkel/satellite-backend-go/internal/raster"
)

// StorageError wraps a durable-storage failure with its classification.
// Transient failures may be retried by the caller; terminal ones may not.
type StorageError struct {
	Op        string
	ID        string
	Transient bool
	Err       error
}

func (e *StorageError) Error() string {
	kind := "terminal"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("storage %s failed for analysis %s (%s): %v", e.Op, e.ID, kind, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// AnalysisRepository handles durable storage of NDVI analyses
type AnalysisRepository struct {
	db *sql.DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Insert persists one analysis record and its downsampled grid as a single
// transaction. Grid serialization stores invalid pixels as JSON null, see
// raster.Grid.MarshalJSON.
func (r *AnalysisRepository) Insert(ctx context.Context, rec *models.AnalysisRecord, grid raster.Grid) error {
	gridJSON, err := json.Marshal(grid)
	if err != nil {
		return &StorageError{Op: "insert", ID: rec.ID, Err: fmt.Errorf("failed to encode grid: %w", err)}
	}

	err = database.Transaction(r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ndvi_analyses
				(id, name, min_lon, min_lat, max_lon, max_lat, geometry,
				 stat_min, stat_max, stat_mean, grid_json, red_url, nir_url, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.Name,
			rec.BBox.MinLon(), rec.BBox.MinLat(), rec.BBox.MaxLon(), rec.BBox.MaxLat(),
			rec.Geometry,
			rec.Stats.Min, rec.Stats.Max, rec.Stats.Mean,
			string(gridJSON), rec.RedURL, rec.NIRURL,
			rec.CreatedAt.Unix())
		return err
	})
	if err != nil {
		return &StorageError{Op: "insert", ID: rec.ID, Transient: isTransient(err), Err: err}
	}

	return nil
}

// GetByID returns the stored record and its downsampled grid, or
// (nil, nil, nil) when no analysis exists under the identifier.
func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*models.AnalysisRecord, raster.Grid, error) {
	var (
		rec       models.AnalysisRecord
		gridJSON  string
		createdAt int64
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, min_lon, min_lat, max_lon, max_lat, geometry,
		       stat_min, stat_max, stat_mean, grid_json, red_url, nir_url, created_at
		FROM ndvi_analyses WHERE id = ?`, id).Scan(
		&rec.ID, &rec.Name,
		&rec.BBox[0], &rec.BBox[1], &rec.BBox[2], &rec.BBox[3],
		&rec.Geometry,
		&rec.Stats.Min, &rec.Stats.Max, &rec.Stats.Mean,
		&gridJSON, &rec.RedURL, &rec.NIRURL, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, &StorageError{Op: "get", ID: id, Transient: isTransient(err), Err: err}
	}

	var grid raster.Grid
	if err := json.Unmarshal([]byte(gridJSON), &grid); err != nil {
		return nil, nil, &StorageError{Op: "get", ID: id, Err: fmt.Errorf("failed to decode grid: %w", err)}
	}

	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &rec, grid, nil
}

// isTransient classifies sqlite failures worth retrying: lock contention
// and i/o hiccups, not constraint or schema violations.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "busy") ||
		strings.Contains(msg, "disk i/o error")
}

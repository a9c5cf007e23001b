package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bryanfinkel/satellite-backend-go/internal/cache"
	"github.com/bryanfinkel/satellite-backend-go/internal/imagery"
	"github.com/bryanfinkel/satellite-backend-go/internal/models"
	"github.com/bryanfinkel/satellite-backend-go/internal/raster"
	"github.com/bryanfinkel/satellite-backend-go/internal/repository"
	"github.com/bryanfinkel/satellite-backend-go/internal/spatial"
	"github.com/bryanfinkel/satellite-backend-go/internal/stac"
)

// ErrNoImagery is returned when an imagery search matches no scenes
var ErrNoImagery = errors.New("no imagery found for the requested area and date range")

// BandFetcher retrieves one raster band from an asset URL
type BandFetcher interface {
	FetchBand(ctx context.Context, url string) (*imagery.Band, error)
}

// ImagerySearcher finds candidate scenes for a bounding box and date range
type ImagerySearcher interface {
	Search(ctx context.Context, bbox models.BoundingBox, startDate, endDate string, limit int) ([]stac.Item, error)
}

// retryBackoff is the fixed delay between durable-write attempts
const retryBackoff = 500 * time.Millisecond

// AnalysisService orchestrates the NDVI pipeline: band fetch, index
// computation, statistics, and the dual-resolution store. It owns both
// storage tiers: the volatile full-resolution cache and the durable
// downsampled repository.
type AnalysisService struct {
	fetcher  BandFetcher
	searcher ImagerySearcher
	repo     *repository.AnalysisRepository
	cache    *cache.AnalysisCache

	downsampleFactor int
	storeRetries     int
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(fetcher BandFetcher, searcher ImagerySearcher, repo *repository.AnalysisRepository, c *cache.AnalysisCache, downsampleFactor, storeRetries int) *AnalysisService {
	if downsampleFactor < 1 {
		downsampleFactor = 1
	}
	if storeRetries < 1 {
		storeRetries = 1
	}
	return &AnalysisService{
		fetcher:          fetcher,
		searcher:         searcher,
		repo:             repo,
		cache:            c,
		downsampleFactor: downsampleFactor,
		storeRetries:     storeRetries,
	}
}

// ComputeNDVI fetches the red and NIR bands concurrently and computes the
// vegetation index. Fetch and decode errors pass through unchanged; a shape
// mismatch between the two bands is fatal.
func (s *AnalysisService) ComputeNDVI(ctx context.Context, redURL, nirURL string) (raster.Grid, error) {
	type bandResult struct {
		band *imagery.Band
		err  error
	}

	redCh := make(chan bandResult, 1)
	nirCh := make(chan bandResult, 1)

	go func() {
		b, err := s.fetcher.FetchBand(ctx, redURL)
		redCh <- bandResult{band: b, err: err}
	}()
	go func() {
		b, err := s.fetcher.FetchBand(ctx, nirURL)
		nirCh <- bandResult{band: b, err: err}
	}()

	red := <-redCh
	nir := <-nirCh
	if red.err != nil {
		return nil, red.err
	}
	if nir.err != nil {
		return nil, nir.err
	}

	return raster.ComputeNDVI(red.band.Grid, nir.band.Grid)
}

// Store persists one analysis: statistics from the full-resolution grid,
// the downsampled grid durably, and the full grid in the volatile cache.
// The cache entry is written only after the durable transaction commits, so
// a durable-write failure never leaves the two tiers inconsistent.
func (s *AnalysisService) Store(ctx context.Context, grid raster.Grid, meta models.AnalysisMetadata) (string, error) {
	stats, err := raster.Summarize(grid)
	if err != nil {
		return "", fmt.Errorf("failed to compute statistics: %w", err)
	}

	rec := models.AnalysisRecord{
		ID:        uuid.NewString(),
		Name:      meta.Name,
		BBox:      meta.BBox,
		Geometry:  spatial.BBoxToWKT(meta.BBox),
		Stats:     stats,
		RedURL:    meta.RedURL,
		NIRURL:    meta.NIRURL,
		CreatedAt: time.Now().UTC(),
	}

	downsampled := raster.Downsample(grid, s.downsampleFactor)

	if err := s.insertWithRetry(ctx, &rec, downsampled); err != nil {
		return "", err
	}

	s.cache.Put(rec.ID, cache.Entry{Grid: grid, Record: rec})
	return rec.ID, nil
}

// insertWithRetry runs the durable insert in a fresh transaction per attempt,
// retrying only transient failures with a fixed backoff. Each failed attempt
// is fully rolled back by the transaction helper before the next one starts.
func (s *AnalysisService) insertWithRetry(ctx context.Context, rec *models.AnalysisRecord, grid raster.Grid) error {
	var lastErr error
	for attempt := 1; attempt <= s.storeRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff):
			}
		}

		lastErr = s.repo.Insert(ctx, rec, grid)
		if lastErr == nil {
			return nil
		}

		var storErr *repository.StorageError
		if !errors.As(lastErr, &storErr) || !storErr.Transient {
			return lastErr
		}
	}
	return lastErr
}

// Retrieve returns the analysis under id, preferring the full-resolution
// volatile tier and falling back to the durable downsampled tier.
// A miss in both tiers returns (nil, nil): not-found is an expected result,
// not an error.
func (s *AnalysisService) Retrieve(ctx context.Context, id string) (*models.AnalysisResult, error) {
	if entry, ok := s.cache.Get(id); ok {
		return &models.AnalysisResult{
			AnalysisRecord: entry.Record,
			Grid:           entry.Grid,
			Resolution:     models.ResolutionFull,
		}, nil
	}

	rec, grid, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	return &models.AnalysisResult{
		AnalysisRecord: *rec,
		Grid:           grid,
		Resolution:     models.ResolutionDownsampled,
	}, nil
}

// AnalyzeArea runs the full pipeline for a bounding box and date range:
// imagery search, band fetch, NDVI computation, and store. Only the first
// matching scene's red/NIR assets are used.
func (s *AnalysisService) AnalyzeArea(ctx context.Context, name string, bbox models.BoundingBox, startDate, endDate string) (*models.AnalysisRecord, error) {
	if err := spatial.ValidateBBox(bbox); err != nil {
		return nil, fmt.Errorf("invalid bounding box: %w", err)
	}

	items, err := s.searcher.Search(ctx, bbox, startDate, endDate, 3)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoImagery
	}

	redURL, nirURL, err := stac.BandURLs(items[0])
	if err != nil {
		return nil, err
	}

	grid, err := s.ComputeNDVI(ctx, redURL, nirURL)
	if err != nil {
		return nil, err
	}

	id, err := s.Store(ctx, grid, models.AnalysisMetadata{
		Name:   name,
		BBox:   bbox,
		RedURL: redURL,
		NIRURL: nirURL,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.Retrieve(ctx, id)
	if err != nil {
		return nil, err
	}
	return &result.AnalysisRecord, nil
}

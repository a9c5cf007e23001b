package imagery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/airbusgeo/godal"

	"github.com/bryanfinkel/satellite-backend-go/internal/raster"
)

// FetchError reports an unreachable asset or a non-success response
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to fetch band %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("failed to fetch band %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports a payload that is not a readable raster
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode raster from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Band is one decoded spectral band plus its raster metadata
type Band struct {
	Grid         raster.Grid
	Width        int
	Height       int
	GeoTransform [6]float64
}

var registerOnce sync.Once

// Fetcher retrieves single raster bands from remote asset URLs.
// It performs no retries; retry policy belongs to the caller.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a band fetcher with a bounded request timeout
func NewFetcher() *Fetcher {
	registerOnce.Do(godal.RegisterAll)
	return &Fetcher{
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// FetchBand downloads the asset at url and decodes its first band into a
// float64 grid. Transport failures and non-2xx responses surface as
// *FetchError, unreadable payloads as *DecodeError.
func (f *Fetcher) FetchBand(ctx context.Context, url string) (*Band, error) {
	path, err := f.download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	return decodeBand(url, path)
}

// download writes the asset payload to a temp file and returns its path
func (f *Fetcher) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{URL: url, Status: resp.StatusCode}
	}

	tmp, err := os.CreateTemp("", "band-*.tif")
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("failed to create temp file: %w", err)}
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", &FetchError{URL: url, Err: fmt.Errorf("failed to read payload: %w", err)}
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", &FetchError{URL: url, Err: err}
	}

	return tmp.Name(), nil
}

// decodeBand opens the raster and reads band 1 row-wise into a grid
func decodeBand(url, path string) (*Band, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}
	defer ds.Close()

	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, &DecodeError{URL: url, Err: fmt.Errorf("raster has no bands")}
	}

	width := ds.Structure().SizeX
	height := ds.Structure().SizeY

	grid := make(raster.Grid, height)
	for y := 0; y < height; y++ {
		grid[y] = make([]float64, width)
		if err := bands[0].Read(0, y, grid[y], width, 1); err != nil {
			return nil, &DecodeError{URL: url, Err: fmt.Errorf("failed to read row %d: %w", y, err)}
		}
	}

	band := &Band{
		Grid:   grid,
		Width:  width,
		Height: height,
	}

	// Geotransform is optional metadata; not every asset carries one
	if gt, err := ds.GeoTransform(); err == nil {
		band.GeoTransform = gt
	}

	return band, nil
}

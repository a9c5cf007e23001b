package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/bryanfinkel/satellite-backend-go/internal/models"
	"github.com/bryanfinkel/satellite-backend-go/internal/raster"
)

func TestPutGet(t *testing.T) {
	c := NewAnalysisCache()

	entry := Entry{
		Grid:   raster.Grid{{0.5, 0.25}},
		Record: models.AnalysisRecord{ID: "a1", Name: "test"},
	}
	c.Put("a1", entry)

	got, ok := c.Get("a1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Record.Name != "test" {
		t.Errorf("Name = %q, want %q", got.Record.Name, "test")
	}
	if got.Grid[0][1] != 0.25 {
		t.Errorf("Grid[0][1] = %v, want 0.25", got.Grid[0][1])
	}
}

func TestGetReturnsIndependentGrid(t *testing.T) {
	c := NewAnalysisCache()
	c.Put("a1", Entry{Grid: raster.Grid{{0.5, 0.25}}})

	got, ok := c.Get("a1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	got.Grid[0][0] = -1

	again, _ := c.Get("a1")
	if again.Grid[0][0] != 0.5 {
		t.Errorf("cached Grid[0][0] = %v after caller mutation, want 0.5", again.Grid[0][0])
	}
}

func TestGetMiss(t *testing.T) {
	c := NewAnalysisCache()

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected cache miss")
	}
}

func TestLen(t *testing.T) {
	c := NewAnalysisCache()
	if c.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", c.Len())
	}

	c.Put("a", Entry{})
	c.Put("b", Entry{})
	c.Put("a", Entry{}) // replace, not add

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := NewAnalysisCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		id := fmt.Sprintf("analysis-%d", i)
		go func() {
			defer wg.Done()
			c.Put(id, Entry{Record: models.AnalysisRecord{ID: id}})
		}()
		go func() {
			defer wg.Done()
			c.Get(id)
		}()
	}
	wg.Wait()

	if c.Len() != 50 {
		t.Errorf("Len() = %d, want 50", c.Len())
	}
}

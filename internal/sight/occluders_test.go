package sight

import (
	"errors"
	"testing"

	"github.com/Garsondee/Sightline/internal/geom"
)

func TestNewGrid_RejectsBadCellSize(t *testing.T) {
	for _, cs := range []float64{0, -5} {
		if _, err := NewGrid(cs); !errors.Is(err, geom.ErrInvalidInput) {
			t.Fatalf("cell size %v: expected ErrInvalidInput, got %v", cs, err)
		}
	}
}

func TestGrid_InsertRejectsNegativeSize(t *testing.T) {
	g, _ := NewGrid(16)
	if err := g.Insert(geom.AABB{Width: 4, Height: -4}); !errors.Is(err, geom.ErrInvalidOccluder) {
		t.Fatalf("expected ErrInvalidOccluder, got %v", err)
	}
	if g.Len() != 0 {
		t.Fatalf("rejected box should not be stored, len=%d", g.Len())
	}
}

func TestGrid_CandidatesVisitsSpanningBoxOnce(t *testing.T) {
	g, _ := NewGrid(10)
	// Covers cells -2..2 on both axes.
	if err := g.Insert(wall(0, 0, 40, 40)); err != nil {
		t.Fatal(err)
	}
	visits := 0
	g.Candidates(wall(0, 0, 30, 30), func(geom.AABB) bool {
		visits++
		return true
	})
	if visits != 1 {
		t.Fatalf("expected a single visit, got %d", visits)
	}
}

func TestGrid_CandidatesSkipsFarCells(t *testing.T) {
	g, _ := NewGrid(10)
	for _, b := range []geom.AABB{wall(5, 5, 4, 4), wall(505, 505, 4, 4), wall(905, 5, 4, 4)} {
		if err := g.Insert(b); err != nil {
			t.Fatal(err)
		}
	}
	var got []geom.AABB
	g.Candidates(wall(5, 5, 2, 2), func(b geom.AABB) bool {
		got = append(got, b)
		return true
	})
	if len(got) != 1 || got[0].X != 5 {
		t.Fatalf("expected only the nearby box, got %v", got)
	}
}

func TestGrid_CandidatesStopsEarly(t *testing.T) {
	g, _ := NewGrid(10)
	for i := 0; i < 5; i++ {
		_ = g.Insert(wall(5, 5, 4, 4))
	}
	visits := 0
	g.Candidates(wall(5, 5, 2, 2), func(geom.AABB) bool {
		visits++
		return false
	})
	if visits != 1 {
		t.Fatalf("visit returning false should stop the scan, got %d visits", visits)
	}
}

func TestGrid_EdgeContactFoundAcrossCellBoundary(t *testing.T) {
	g, _ := NewGrid(10)
	// Right edge at x=20 sits exactly on a cell boundary.
	_ = g.Insert(wall(15, 5, 10, 10))
	found := false
	g.Candidates(wall(25, 5, 10, 2), func(geom.AABB) bool {
		found = true
		return true
	})
	if !found {
		t.Fatal("box touching the query bounds must be a candidate")
	}
}

func TestGrid_HugeBoxInsertsQuicklyAndStillBlocks(t *testing.T) {
	g, err := NewGrid(1)
	if err != nil {
		t.Fatal(err)
	}
	// Small boxes spread over many cells so short queries walk cells.
	for i := 0; i < 50; i++ {
		if err := g.Insert(wall(float64(i*10)+500, 500, 1, 1)); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Insert(wall(0, 0, 1e6, 1e6)); err != nil {
		t.Fatal(err)
	}
	if n := len(g.cells); n > 50*4 {
		t.Fatalf("huge box should not be written into cells, have %d cells", n)
	}
	if mustSee(t, geom.Pt(-10, 0.5), geom.Pt(10, 0.5), g) {
		t.Fatal("segment inside the huge box should be blocked")
	}
	if !mustSee(t, geom.Pt(6e5, 0), geom.Pt(6e5+10, 0), g) {
		t.Fatal("segment clear of every box should be visible")
	}
}

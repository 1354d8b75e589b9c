package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/verte-zerg/hitdash/internal/dataset"
	"github.com/verte-zerg/hitdash/internal/generator"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "hitdash.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return st
}

func buildDataset(t *testing.T, seed int64, years []int) *dataset.Dataset {
	t.Helper()
	p := generator.DefaultParams()
	p.Seed = seed
	p.Years = years
	p.Count = generator.CountPolicy{Fixed: 20}
	ds, err := dataset.Build(p)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return ds
}

func TestWriteAndListSongs(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	ds := buildDataset(t, 42, generator.YearRange(2010, 2012))

	if err := st.WriteDataset(ctx, ds); err != nil {
		t.Fatalf("WriteDataset failed: %v", err)
	}
	songs, err := st.ListSongs(ctx)
	if err != nil {
		t.Fatalf("ListSongs failed: %v", err)
	}
	if !reflect.DeepEqual(songs, ds.Songs()) {
		t.Fatalf("stored songs differ from dataset")
	}

	gen, err := st.Generation(ctx)
	if err != nil {
		t.Fatalf("Generation failed: %v", err)
	}
	if gen.Seed != 42 || gen.Songs != 60 || gen.ParamsKey != ds.Params().Key() {
		t.Fatalf("unexpected generation %+v", gen)
	}
	if gen.CreatedAt.IsZero() {
		t.Fatalf("expected creation time")
	}
}

func TestWriteDatasetReplacesSnapshot(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	if err := st.WriteDataset(ctx, buildDataset(t, 1, generator.YearRange(2010, 2014))); err != nil {
		t.Fatalf("first write: %v", err)
	}
	second := buildDataset(t, 2, []int{2018})
	if err := st.WriteDataset(ctx, second); err != nil {
		t.Fatalf("second write: %v", err)
	}
	songs, err := st.ListSongs(ctx)
	if err != nil {
		t.Fatalf("ListSongs failed: %v", err)
	}
	if len(songs) != 20 || songs[0].ID != "2018_1" {
		t.Fatalf("expected only the second snapshot, got %d songs", len(songs))
	}
	gen, err := st.Generation(ctx)
	if err != nil {
		t.Fatalf("Generation failed: %v", err)
	}
	if gen.Seed != 2 {
		t.Fatalf("expected seed 2, got %d", gen.Seed)
	}
}

func TestCountByYear(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	if err := st.WriteDataset(ctx, buildDataset(t, 3, []int{2016, 2011})); err != nil {
		t.Fatalf("WriteDataset failed: %v", err)
	}
	counts, err := st.CountByYear(ctx)
	if err != nil {
		t.Fatalf("CountByYear failed: %v", err)
	}
	want := []YearCount{{Year: 2011, Songs: 20}, {Year: 2016, Songs: 20}}
	if !reflect.DeepEqual(counts, want) {
		t.Fatalf("expected %+v, got %+v", want, counts)
	}
}

func TestGenerationEmpty(t *testing.T) {
	st := openTemp(t)
	if _, err := st.Generation(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

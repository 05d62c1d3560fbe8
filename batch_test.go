package tablesnap

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/tsawler/tablesnap/cells"
)

func TestProcessBatch(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "first.png"),
		filepath.Join(dir, "second.png"),
	}
	photo := tablePhoto()
	for _, path := range paths {
		if err := imaging.Save(photo, path); err != nil {
			t.Fatalf("save %s: %v", path, err)
		}
	}

	// Stateless on purpose: batch workers share the recognizer.
	recognizer := cells.RecognizerFunc(func(image.Image) (string, error) {
		return "mark", nil
	})

	results, err := ProcessBatch(context.Background(), paths,
		WithRecognizer(recognizer),
		WithParallelism(2))
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("results = %d, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("result %d path = %q, want %q", i, r.Path, paths[i])
		}
		if r.Err != nil {
			t.Errorf("result %d: %v", i, r.Err)
			continue
		}
		if got := len(r.Table.Rows); got != 2 {
			t.Errorf("result %d rows = %d, want 2", i, got)
		}
		if got := r.Table.Rows[0][0].Text; got != "mark" {
			t.Errorf("result %d cell (0,0) text = %q, want %q", i, got, "mark")
		}
	}
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	if err := imaging.Save(tablePhoto(), good); err != nil {
		t.Fatalf("save %s: %v", good, err)
	}
	missing := filepath.Join(dir, "missing.png")

	results, err := ProcessBatch(context.Background(), []string{missing, good},
		WithParallelism(1))
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}

	var stageErr *StageError
	if !errors.As(results[0].Err, &stageErr) || stageErr.Stage != StageDecode {
		t.Errorf("first result err = %v, want a decode stage error", results[0].Err)
	}
	if results[0].Table != nil {
		t.Error("failed result carries a table")
	}

	if results[1].Err != nil {
		t.Errorf("second result: %v", results[1].Err)
	}
	if results[1].Table == nil {
		t.Error("second result has no table")
	} else if got := len(results[1].Table.Rows); got != 2 {
		t.Errorf("second result rows = %d, want 2", got)
	}
}

func TestProcessBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths := []string{"a.png", "b.png", "c.png"}
	results, err := ProcessBatch(ctx, paths)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("results = %d, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d err = %v, want context.Canceled", i, r.Err)
		}
	}
}

func TestProcessBatchEmpty(t *testing.T) {
	results, err := ProcessBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want none", len(results))
	}
}

package corpus

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/CTAG07/wordchain/pkg/markov"
)

func TestPutAndGet(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	doc, err := s.Put(ctx, "standup.txt", "How can I\nbe this tired")
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if doc.Name != "standup.txt" || doc.Size != 23 {
		t.Errorf("got unexpected document: %+v", doc)
	}

	got, err := s.Get(ctx, "standup.txt")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Content != "How can I\nbe this tired" || got.Id != doc.Id {
		t.Errorf("got unexpected document: %+v", got)
	}

	// Test failure case (nonexistent)
	if _, err = s.Get(ctx, "missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Test failure case (empty name)
	if _, err = s.Put(ctx, "  ", "text"); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("expected ErrInvalidSource for an empty name, got %v", err)
	}
}

func TestPutReplacesContentInPlace(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	first, _ := s.Put(ctx, "a", "first version")
	_, _ = s.Put(ctx, "b", "other")
	second, err := s.Put(ctx, "a", "second version")
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if first.Id != second.Id {
		t.Errorf("expected the document id to be kept, got %d then %d", first.Id, second.Id)
	}

	docs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(docs) != 2 || docs[0].Name != "a" || docs[1].Name != "b" {
		t.Fatalf("expected [a b], got %+v", docs)
	}
	if docs[0].Size != len("second version") {
		t.Errorf("expected updated size, got %d", docs[0].Size)
	}
	if docs[0].Content != "" {
		t.Error("List() should not return content")
	}
}

func TestRemove(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	_, _ = s.Put(ctx, "to_delete", "delete this data")
	_, _ = s.Put(ctx, "to_keep", "keep this data")

	if err := s.Remove(ctx, "to_delete"); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if err := s.Remove(ctx, "to_delete"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second removal, got %v", err)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 document, got %d", count)
	}
}

func TestReaders(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	readers, err := s.Readers(ctx)
	if err != nil {
		t.Fatalf("Readers() failed: %v", err)
	}
	if len(readers) != 0 {
		t.Errorf("expected no readers for an empty store, got %d", len(readers))
	}

	_, _ = s.Put(ctx, "one", "the cat sat on the mat\n")
	_, _ = s.Put(ctx, "two", "the cat ran")

	readers, err = s.Readers(ctx)
	if err != nil {
		t.Fatalf("Readers() failed: %v", err)
	}
	data, err := io.ReadAll(io.MultiReader(readers...))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "the cat sat on the mat\nthe cat ran" {
		t.Errorf("unexpected corpus %q", data)
	}
}

func TestTrainFromStore(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()
	_, _ = s.Put(ctx, "one", "the cat sat on the mat\n")
	_, _ = s.Put(ctx, "two", "the cat ran")

	readers, err := s.Readers(ctx)
	if err != nil {
		t.Fatalf("Readers() failed: %v", err)
	}
	m := markov.NewModel(nil, rand.NewPCG(1, 2))
	if err = m.TrainReaders(ctx, readers...); err != nil {
		t.Fatalf("TrainReaders() failed: %v", err)
	}

	table, err := m.Table()
	if err != nil {
		t.Fatalf("Table() failed: %v", err)
	}
	got := table.Continuations(markov.Key{First: "the", Second: "cat"})
	if !reflect.DeepEqual(got, []string{"sat", "ran"}) {
		t.Errorf("expected [sat ran], got %q", got)
	}
}

func TestImportFiles(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	standup := filepath.Join(dir, "standup.txt")
	lyrics := filepath.Join(dir, "lyrics.txt")
	if err := os.WriteFile(standup, []byte("How can I\nbe so tired\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(lyrics, []byte("la la la\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("Imports in order", func(t *testing.T) {
		if err := s.ImportFiles(ctx, standup, lyrics); err != nil {
			t.Fatalf("ImportFiles() failed: %v", err)
		}
		docs, _ := s.List(ctx)
		if len(docs) != 2 || docs[0].Name != standup || docs[1].Name != lyrics {
			t.Fatalf("unexpected documents: %+v", docs)
		}
		doc, _ := s.Get(ctx, standup)
		if doc.Content != "How can I\nbe so tired\n" {
			t.Errorf("line breaks were not preserved: %q", doc.Content)
		}
	})

	t.Run("Invalid paths", func(t *testing.T) {
		if err := s.ImportFiles(ctx); !errors.Is(err, ErrInvalidSource) {
			t.Errorf("expected ErrInvalidSource for no paths, got %v", err)
		}
		if err := s.ImportFiles(ctx, standup, ""); !errors.Is(err, ErrInvalidSource) {
			t.Errorf("expected ErrInvalidSource for an empty path, got %v", err)
		}
	})

	t.Run("Missing file leaves the store unchanged", func(t *testing.T) {
		extra := filepath.Join(dir, "extra.txt")
		_ = os.WriteFile(extra, []byte("extra"), 0644)
		err := s.ImportFiles(ctx, extra, filepath.Join(dir, "missing.txt"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected os.ErrNotExist, got %v", err)
		}
		if _, err = s.Get(ctx, extra); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected nothing to be imported, got %v", err)
		}
	})
}

func TestSetupSchemaIsIdempotent(t *testing.T) {
	db, s := setupTestStore(t)
	_, _ = s.Put(context.Background(), "kept", "still here")

	if err := SetupSchema(db); err != nil {
		t.Fatalf("second SetupSchema() failed: %v", err)
	}
	doc, err := s.Get(context.Background(), "kept")
	if err != nil || !strings.Contains(doc.Content, "still") {
		t.Errorf("expected document to survive, got %+v, %v", doc, err)
	}
}

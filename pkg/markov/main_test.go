package markov

import (
	"context"
	"go/build"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const catCorpus = "the cat sat on the mat\nthe cat ran"

// setupTestModel creates an untrained Model with a fixed random source so
// sampling is reproducible.
func setupTestModel(t testing.TB) *Model {
	t.Helper()
	return NewModel(NewDefaultTokenizer(), rand.NewPCG(1, 2))
}

// setupTestModelWithTraining is a convenience helper that also trains the
// model on corpus.
func setupTestModelWithTraining(t testing.TB, corpus string) (context.Context, *Model) {
	t.Helper()
	m := setupTestModel(t)
	ctx := context.Background()
	if err := m.Train(ctx, corpus); err != nil {
		t.Fatalf("setup: Train() failed: %v", err)
	}
	return ctx, m
}

// continuationSet returns every token that can be produced by sampling any
// key of the table.
func continuationSet(t *testing.T, m *Model) map[string]struct{} {
	t.Helper()
	table, err := m.Table()
	if err != nil {
		t.Fatalf("Table() failed: %v", err)
	}
	set := make(map[string]struct{})
	for _, key := range table.Keys() {
		for _, token := range table.Continuations(key) {
			set[token] = struct{}{}
		}
	}
	return set
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}

package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ImportFiles reads every file in paths and stores it as a document named
// after its cleaned path. All files are read before anything is written, and
// the documents are written in a single transaction, so a failure leaves the
// store unchanged. Files keep their line breaks exactly.
func (s *Store) ImportFiles(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: no files given", ErrInvalidSource)
	}
	for i, path := range paths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("%w: file path %d is empty", ErrInvalidSource, i)
		}
	}

	contents := make([]string, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("could not read corpus file: %w", err)
		}
		contents[i] = string(data)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction for import: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	stmtPut := tx.StmtContext(ctx, s.stmtPut)
	addedAt := time.Now().UTC().Unix()
	var totalSize int
	for i, path := range paths {
		name := filepath.Clean(path)
		var id int
		if err = stmtPut.QueryRowContext(ctx, name, contents[i], addedAt).Scan(&id); err != nil {
			return fmt.Errorf("could not store file '%s': %w", name, err)
		}
		totalSize += len(contents[i])
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit import: %w", err)
	}

	s.logger.InfoContext(ctx, "Corpus files imported",
		slog.Int("files", len(paths)),
		slog.Int("total_size", totalSize),
	)
	return nil
}

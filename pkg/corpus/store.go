package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a named document does not exist.
	ErrNotFound = errors.New("corpus: document not found")
	// ErrInvalidSource is returned for unusable document names or file paths.
	ErrInvalidSource = errors.New("corpus: invalid source")
)

// Document is a stored corpus source.
type Document struct {
	Id      int       `json:"id"`
	Name    string    `json:"name"`
	Size    int       `json:"size"` // content length in bytes
	AddedAt time.Time `json:"added_at"`
	Content string    `json:"content,omitempty"`
}

// SetupSchema initializes the necessary tables in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schemaDocuments = `
CREATE TABLE IF NOT EXISTS corpus_documents (
    document_id INTEGER PRIMARY KEY,
    document_name TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL,
    added_at INTEGER NOT NULL
);
`
	if _, err := db.Exec(schemaDocuments); err != nil {
		return fmt.Errorf("could not create corpus schema: %w", err)
	}
	return nil
}

// Store holds the database connection and prepared statements for the
// corpus_documents table.
type Store struct {
	db          *sql.DB
	stmtPut     *sql.Stmt
	stmtGet     *sql.Stmt
	stmtList    *sql.Stmt
	stmtRemove  *sql.Stmt
	stmtContent *sql.Stmt
	stmtCount   *sql.Stmt
	logger      *slog.Logger
}

// NewStore creates a Store on a database prepared with SetupSchema. It
// pre-compiles all SQL statements, returning an error if any preparation
// fails.
func NewStore(db *sql.DB) (*Store, error) {
	// Re-adding a name replaces its content but keeps its position.
	stmtPut, err := db.Prepare(`INSERT INTO corpus_documents (document_name, content, added_at) VALUES (?, ?, ?)
ON CONFLICT(document_name) DO UPDATE SET content = excluded.content, added_at = excluded.added_at
RETURNING document_id;`)
	if err != nil {
		return nil, err
	}

	stmtGet, err := db.Prepare(`SELECT document_id, content, added_at FROM corpus_documents WHERE document_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtList, err := db.Prepare(`SELECT document_id, document_name, length(CAST(content AS BLOB)), added_at FROM corpus_documents ORDER BY document_id;`)
	if err != nil {
		return nil, err
	}

	stmtRemove, err := db.Prepare(`DELETE FROM corpus_documents WHERE document_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtContent, err := db.Prepare(`SELECT content FROM corpus_documents ORDER BY document_id;`)
	if err != nil {
		return nil, err
	}

	stmtCount, err := db.Prepare(`SELECT COUNT(*) FROM corpus_documents;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:          db,
		stmtPut:     stmtPut,
		stmtGet:     stmtGet,
		stmtList:    stmtList,
		stmtRemove:  stmtRemove,
		stmtContent: stmtContent,
		stmtCount:   stmtCount,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared SQL statements held by the Store.
func (s *Store) Close() {
	_ = s.stmtPut.Close()
	_ = s.stmtGet.Close()
	_ = s.stmtList.Close()
	_ = s.stmtRemove.Close()
	_ = s.stmtContent.Close()
	_ = s.stmtCount.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Put adds a document, replacing the content of an existing document with the
// same name.
func (s *Store) Put(ctx context.Context, name, content string) (Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Document{}, fmt.Errorf("%w: document name is empty", ErrInvalidSource)
	}

	addedAt := time.Now().UTC().Truncate(time.Second)
	var id int
	if err := s.stmtPut.QueryRowContext(ctx, name, content, addedAt.Unix()).Scan(&id); err != nil {
		return Document{}, fmt.Errorf("could not store document '%s': %w", name, err)
	}

	s.logger.InfoContext(ctx, "Document stored",
		slog.String("document_name", name),
		slog.Int("document_id", id),
		slog.Int("size", len(content)),
	)

	return Document{Id: id, Name: name, Size: len(content), AddedAt: addedAt}, nil
}

// Get returns a document including its content.
func (s *Store) Get(ctx context.Context, name string) (Document, error) {
	var doc Document
	var addedAt int64
	err := s.stmtGet.QueryRowContext(ctx, name).Scan(&doc.Id, &doc.Content, &addedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, fmt.Errorf("%w: '%s'", ErrNotFound, name)
		}
		return Document{}, fmt.Errorf("could not get document '%s': %w", name, err)
	}
	doc.Name = name
	doc.Size = len(doc.Content)
	doc.AddedAt = time.Unix(addedAt, 0).UTC()
	return doc, nil
}

// List returns the metadata of every document in insertion order. Content is
// left empty.
func (s *Store) List(ctx context.Context) ([]Document, error) {
	rows, err := s.stmtList.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	docs := make([]Document, 0)
	for rows.Next() {
		var doc Document
		var addedAt int64
		if err = rows.Scan(&doc.Id, &doc.Name, &doc.Size, &addedAt); err != nil {
			return nil, err
		}
		doc.AddedAt = time.Unix(addedAt, 0).UTC()
		docs = append(docs, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Remove deletes a document. It returns ErrNotFound if no document has that
// name.
func (s *Store) Remove(ctx context.Context, name string) error {
	res, err := s.stmtRemove.ExecContext(ctx, name)
	if err != nil {
		return fmt.Errorf("could not remove document '%s': %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: '%s'", ErrNotFound, name)
	}

	s.logger.InfoContext(ctx, "Document removed", slog.String("document_name", name))
	return nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.stmtCount.QueryRowContext(ctx).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Readers returns one reader per document, in insertion order. Reading them
// one after the other yields the full corpus. An empty store yields no
// readers.
func (s *Store) Readers(ctx context.Context) ([]io.Reader, error) {
	rows, err := s.stmtContent.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not query corpus: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var readers []io.Reader
	for rows.Next() {
		var content string
		if err = rows.Scan(&content); err != nil {
			return nil, err
		}
		readers = append(readers, strings.NewReader(content))
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return readers, nil
}

package markov

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Train tokenizes corpus, builds a new transition table from the tokens and
// replaces the previous table with it. A corpus of fewer than three tokens
// leaves the model untrained.
func (m *Model) Train(ctx context.Context, corpus string) error {
	return m.TrainReaders(ctx, strings.NewReader(corpus))
}

// TrainReaders trains the model on the concatenation of readers, in order, as
// if they were a single corpus. It returns ErrInvalidTrainingInput without
// touching the current table if no readers are given or any of them is nil.
// A read error also leaves the current table in place.
func (m *Model) TrainReaders(ctx context.Context, readers ...io.Reader) error {
	if len(readers) == 0 {
		return fmt.Errorf("%w: no corpus sources given", ErrInvalidTrainingInput)
	}
	for i, r := range readers {
		if r == nil {
			return fmt.Errorf("%w: corpus source %d is nil", ErrInvalidTrainingInput, i)
		}
	}

	start := time.Now()
	stream := m.tokenizer.NewStream(io.MultiReader(readers...))
	tokens, err := drainStream(stream, nil)
	if err != nil {
		return fmt.Errorf("tokenizer error: %w", err)
	}

	table := BuildTable(tokens)
	m.current.Store(&snapshot{tokens: tokens, table: table})

	m.logger.InfoContext(ctx, "Training completed",
		slog.Int("sources", len(readers)),
		slog.Int("tokens", len(tokens)),
		slog.Int("keys", table.Len()),
		slog.Int("transitions", table.Transitions()),
		slog.Duration("duration", time.Since(start)),
	)
	if table.Len() == 0 {
		m.logger.WarnContext(ctx, "Corpus too short to train, model is untrained",
			slog.Int("tokens", len(tokens)),
		)
	}

	return nil
}

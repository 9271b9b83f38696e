package markov

import (
	"context"
	"log/slog"
)

// GenerateStream runs the same walk as Generate and returns a read-only channel
// of tokens. This allows for processing the generated text token-by-token,
// which is useful for real-time applications or when generating very long
// sequences. The seed tokens are sent first. The channel will be closed once
// generation is complete or the context is cancelled.
//
// ErrUntrainedModel is returned immediately if there is nothing to generate
// from.
func (m *Model) GenerateStream(ctx context.Context, startPhrase string, length int) (<-chan string, error) {
	s, err := m.ready()
	if err != nil {
		return nil, err
	}

	text := m.seed(s.table, startPhrase)
	tokenChan := make(chan string)

	go func() {
		defer close(tokenChan)

		for _, token := range text {
			select {
			case <-ctx.Done():
				return
			case tokenChan <- token:
			}
		}

		// Only the last two tokens are needed to continue the walk.
		prev, last := text[len(text)-2], text[len(text)-1]
		for generated := len(text); generated < length; generated++ {
			next := m.nextAfter(s.table, prev, last)
			select {
			case <-ctx.Done():
				m.logger.DebugContext(ctx, "Generation stream cancelled by context",
					slog.Int("generated_length", generated),
				)
				return
			case tokenChan <- next:
			}
			prev, last = last, next
		}
	}()

	return tokenChan, nil
}

package markov

import (
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
)

var (
	// ErrUntrainedModel is returned by every query made before a training call
	// that produced at least one transition.
	ErrUntrainedModel = errors.New("markov: model is untrained")
	// ErrInvalidTrainingInput is returned when the training input is not a
	// usable corpus or collection of corpus sources.
	ErrInvalidTrainingInput = errors.New("markov: invalid training input")
)

// snapshot is the state produced by one training call. It is never modified
// once published.
type snapshot struct {
	tokens []string
	table  *Table
}

// Model is the main entry point for interacting with the Markov chain library.
// It holds a tokenizer, the random source used for sampling and the most
// recently trained table.
//
// Queries are safe for concurrent use. Training publishes a new table
// atomically; queries already running finish against the table they started
// with.
type Model struct {
	tokenizer Tokenizer
	current   atomic.Pointer[snapshot]
	mu        sync.Mutex // guards rng
	rng       *rand.Rand
	logger    *slog.Logger
}

// NewModel creates and returns a new, untrained Model. A nil tokenizer selects
// NewDefaultTokenizer and a nil source selects a randomly seeded PCG. Pass a
// fixed source, such as rand.NewPCG(1, 2), for reproducible output.
func NewModel(tokenizer Tokenizer, src rand.Source) *Model {
	if tokenizer == nil {
		tokenizer = NewDefaultTokenizer()
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Model{
		tokenizer: tokenizer,
		rng:       rand.New(src),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the Model. By default, all logs are discarded.
// Providing a `log/slog.Logger` will enable logging for training and
// generation.
func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Table returns the current transition table, or ErrUntrainedModel if there is
// none or it is empty.
func (m *Model) Table() (*Table, error) {
	s, err := m.ready()
	if err != nil {
		return nil, err
	}
	return s.table, nil
}

// Tokens returns a copy of the token sequence of the last training call.
func (m *Model) Tokens() []string {
	s := m.current.Load()
	if s == nil {
		return nil
	}
	tokens := make([]string, len(s.tokens))
	copy(tokens, s.tokens)
	return tokens
}

// ready returns the current snapshot if it can answer queries.
func (m *Model) ready() (*snapshot, error) {
	s := m.current.Load()
	if s == nil || s.table.Len() == 0 {
		return nil, ErrUntrainedModel
	}
	return s, nil
}

// intN returns a uniform random int in [0, n) from the model's source.
func (m *Model) intN(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.IntN(n)
}

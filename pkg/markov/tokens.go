package markov

import (
	"errors"
	"io"
)

// LineBreak is the token emitted for every line break in the corpus. Line
// breaks are words like any other, so generated text keeps the line
// structure of its source.
const LineBreak = "\n"

// Tokenizer is an interface that defines the contract for splitting input text
// into tokens. This allows the model to be independent of the specific
// tokenization strategy.
type Tokenizer interface {
	// Tokenize returns every token of text in order.
	Tokenize(text string) []string
	// NewStream returns a stateful StreamTokenizer for processing an io.Reader.
	NewStream(io.Reader) StreamTokenizer
}

// StreamTokenizer is an interface for a stateful tokenizer that processes a
// stream of data, returning one token at a time.
type StreamTokenizer interface {
	// Next returns the next token from the stream. It returns io.EOF as the
	// error when the stream is fully consumed.
	Next() (string, error)
}

// drainStream collects every token of s and appends them to tokens.
func drainStream(s StreamTokenizer, tokens []string) ([]string, error) {
	for {
		token, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return tokens, nil
			}
			return tokens, err
		}
		tokens = append(tokens, token)
	}
}

package markov

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"
)

// DefaultTokenizer is a default implementation of the Tokenizer interface.
// It strips everything except ASCII letters, digits, spaces, periods and
// line breaks, then keeps runs of letters and spaces plus standalone line
// breaks. Runs are split on the separator and lower-cased.
// Its behavior can be customized with functional options.
type DefaultTokenizer struct {
	separator    string
	filterRegex  *regexp.Regexp
	segmentRegex *regexp.Regexp
}

// Option Is a function that configures a DefaultTokenizer.
type Option func(*DefaultTokenizer)

// WithSeparator Sets the string used to split a segment into words.
// Default: " "
func WithSeparator(sep string) Option {
	return func(t *DefaultTokenizer) {
		t.separator = sep
	}
}

// WithFilterRegex sets the regex matching characters that are removed before
// segmentation.
// Default: `[^.a-zA-Z0-9 \n]`
func WithFilterRegex(filterRegex string) Option {
	return func(t *DefaultTokenizer) {
		t.filterRegex = regexp.MustCompile(filterRegex)
	}
}

// WithSegmentRegex sets the regex used to extract segments from filtered
// text. The regex is applied one line at a time, so it cannot match across a
// line break.
// Default: `(?i)[a-z ]+|\n`
func WithSegmentRegex(segmentRegex string) Option {
	return func(t *DefaultTokenizer) {
		t.segmentRegex = regexp.MustCompile(segmentRegex)
	}
}

// NewDefaultTokenizer creates a new tokenizer with default settings, which can be
// overridden by providing one or more Option functions.
func NewDefaultTokenizer(opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{
		separator: " ",
		// Periods and digits survive filtering but never form a segment on
		// their own.
		filterRegex:  regexp.MustCompile(`[^.a-zA-Z0-9 \n]`),
		segmentRegex: regexp.MustCompile(`(?i)[a-z ]+|\n`),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Tokenize returns the tokens of text in order. Empty tokens produced by
// consecutive separators are kept.
func (t *DefaultTokenizer) Tokenize(text string) []string {
	// Reading from a strings.Reader never fails.
	tokens, _ := drainStream(t.NewStream(strings.NewReader(text)), nil)
	return tokens
}

// NewStream Returns the stream processor.
func (t *DefaultTokenizer) NewStream(r io.Reader) StreamTokenizer {
	return &DefaultStreamTokenizer{
		reader:       bufio.NewReader(r),
		buffer:       []string{},
		separator:    t.separator,
		filterRegex:  t.filterRegex,
		segmentRegex: t.segmentRegex,
	}
}

// DefaultStreamTokenizer is the default implementation of the StreamTokenizer interface.
// It reads one line at a time from a bufio.Reader and tokenizes it with the
// tokenizer's regular expressions.
type DefaultStreamTokenizer struct {
	reader       *bufio.Reader
	buffer       []string
	done         bool
	separator    string
	filterRegex  *regexp.Regexp
	segmentRegex *regexp.Regexp
}

// Next returns the next token from the stream. When the stream is exhausted,
// it returns an empty string and io.EOF. Any other error indicates a problem
// reading from the underlying stream.
func (s *DefaultStreamTokenizer) Next() (string, error) {
	for len(s.buffer) == 0 { // Loop until we have tokens
		if s.done {
			return "", io.EOF
		}
		// The line keeps its trailing '\n', so line breaks reach the segment regex.
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", err
			}
			s.done = true
		}
		s.buffer = s.splitLine(line)
	}

	token := s.buffer[0]
	s.buffer = s.buffer[1:]
	return token, nil
}

// splitLine runs the filter, segment and split steps over a single line.
func (s *DefaultStreamTokenizer) splitLine(line string) []string {
	filtered := s.filterRegex.ReplaceAllString(line, "")
	var tokens []string
	for _, segment := range s.segmentRegex.FindAllString(filtered, -1) {
		if segment == LineBreak {
			tokens = append(tokens, LineBreak)
			continue
		}
		for _, word := range strings.Split(segment, s.separator) {
			tokens = append(tokens, strings.ToLower(word))
		}
	}
	return tokens
}

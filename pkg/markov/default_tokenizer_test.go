package markov

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func TestDefaultTokenizer(t *testing.T) {
	tokenizer := NewDefaultTokenizer()

	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Line breaks are tokens",
			input:    "a b\nc d",
			expected: []string{"a", "b", "\n", "c", "d"},
		},
		{
			name:     "Lower-cases words",
			input:    "Hello World",
			expected: []string{"hello", "world"},
		},
		{
			name:     "Strips punctuation",
			input:    "Hello, World!",
			expected: []string{"hello", "world"},
		},
		{
			name:     "Keeps empty tokens from double spaces",
			input:    "a  b",
			expected: []string{"a", "", "b"},
		},
		{
			name:     "Digits and periods break runs",
			input:    "it costs 42 dollars.",
			expected: []string{"it", "costs", "", "", "dollars"},
		},
		{
			name:     "Consecutive line breaks",
			input:    "one\n\ntwo",
			expected: []string{"one", "\n", "\n", "two"},
		},
		{
			name:     "Carriage returns are dropped",
			input:    "a\r\nb",
			expected: []string{"a", "\n", "b"},
		},
		{
			name:     "Trailing line break",
			input:    "end\n",
			expected: []string{"end", "\n"},
		},
		{
			name:     "Non-ASCII letters are removed",
			input:    "café au lait",
			expected: []string{"caf", "au", "lait"},
		},
		{
			name:     "Empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tokenizer.Tokenize(tc.input)
			if len(got) == 0 && len(tc.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Tokenize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestTokenizeIsCaseInsensitive(t *testing.T) {
	tokenizer := NewDefaultTokenizer()
	upper := tokenizer.Tokenize("Hello World\nHOW are YOU")
	lower := tokenizer.Tokenize("hello world\nhow are you")
	if !reflect.DeepEqual(upper, lower) {
		t.Errorf("expected identical tokens, got %q and %q", upper, lower)
	}
}

func TestTokenizerOptions(t *testing.T) {
	tokenizer := NewDefaultTokenizer(
		WithFilterRegex(`[^a-zA-Z_\n]`),
		WithSegmentRegex(`(?i)[a-z_]+|\n`),
		WithSeparator("_"),
	)
	got := tokenizer.Tokenize("Snake_Case words\nNEXT_line")
	expected := []string{"snake", "casewords", "\n", "next", "line"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("got %q, want %q", got, expected)
	}
}

func TestDefaultStreamTokenizer(t *testing.T) {
	stream := NewDefaultTokenizer().NewStream(strings.NewReader("One two\nthree"))

	var tokens []string
	for {
		token, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() failed: %v", err)
		}
		tokens = append(tokens, token)
	}

	expected := []string{"one", "two", "\n", "three"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("got %q, want %q", tokens, expected)
	}

	// An exhausted stream keeps returning io.EOF.
	if _, err := stream.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after exhaustion, got %v", err)
	}
}

func TestDefaultStreamTokenizerReadError(t *testing.T) {
	readErr := errors.New("disk on fire")
	stream := NewDefaultTokenizer().NewStream(iotest.ErrReader(readErr))
	if _, err := stream.Next(); !errors.Is(err, readErr) {
		t.Errorf("expected read error, got %v", err)
	}
}

func BenchmarkTokenize(b *testing.B) {
	corpus := createBenchmarkCorpus()
	tokenizer := NewDefaultTokenizer()

	b.SetBytes(int64(len(corpus)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tokenizer.Tokenize(corpus)
	}
}

package markov

// ModelStats holds aggregated statistics for a trained model.
type ModelStats struct {
	Tokens      int `json:"tokens"`      // The length of the training token sequence
	LineBreaks  int `json:"line_breaks"` // The number of line break tokens in the sequence
	Keys        int `json:"keys"`        // The number of distinct token pairs
	Transitions int `json:"transitions"` // The total number of recorded pair -> token transitions
	Vocabulary  int `json:"vocabulary"`  // The number of distinct tokens used by the table
}

// Stats returns a snapshot of statistics for the current table. It returns
// ErrUntrainedModel if the model cannot answer queries yet.
func (m *Model) Stats() (ModelStats, error) {
	s, err := m.ready()
	if err != nil {
		return ModelStats{}, err
	}

	var lineBreaks int
	for _, token := range s.tokens {
		if token == LineBreak {
			lineBreaks++
		}
	}

	return ModelStats{
		Tokens:      len(s.tokens),
		LineBreaks:  lineBreaks,
		Keys:        s.table.Len(),
		Transitions: s.table.Transitions(),
		Vocabulary:  s.table.Vocabulary(),
	}, nil
}

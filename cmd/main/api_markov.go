package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/CTAG07/wordchain/pkg/markov"
)

// MarkovAPI holds the dependencies for the Markov model API handlers.
type MarkovAPI struct {
	model   *markov.Model
	trainer *Trainer
	cm      *ConfigManager
	logger  *slog.Logger
}

// NewMarkovAPI creates a new instance of the MarkovAPI.
func NewMarkovAPI(model *markov.Model, trainer *Trainer, cm *ConfigManager, logger *slog.Logger) *MarkovAPI {
	return &MarkovAPI{
		model:   model,
		trainer: trainer,
		cm:      cm,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routing for all /api/markov endpoints.
func (m *MarkovAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/markov/generate", requireScope(scopeMarkovRead, m.handleGenerate))
	mux.HandleFunc("/api/markov/stream", requireScope(scopeMarkovRead, m.handleStream))
	mux.HandleFunc("/api/markov/next", requireScope(scopeMarkovRead, m.handleNextWord))
	mux.HandleFunc("/api/markov/pair", requireScope(scopeMarkovRead, m.handleRandomPair))
	mux.HandleFunc("/api/markov/stats", requireScope(scopeMarkovRead, m.handleStats))
	mux.HandleFunc("/api/markov/train", requireScope(scopeMarkovWrite, m.handleTrain))
}

type GenerateResponse struct {
	Text   string `json:"text"`
	Tokens int    `json:"tokens"`
}

type NextWordResponse struct {
	Word string `json:"word"`
}

type PairResponse struct {
	Pair []string `json:"pair"`
}

// handleGenerate generates text from an optional start phrase.
func (m *MarkovAPI) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	length, err := m.parseLength(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	text, err := m.model.Generate(r.Context(), r.URL.Query().Get("start"), length)
	if err != nil {
		RecordGenerationError("generate")
		m.respondWithModelError(w, err)
		return
	}

	tokens := len(strings.Split(text, " "))
	RecordGeneration("generate", tokens)
	respondWithJSON(w, http.StatusOK, GenerateResponse{Text: text, Tokens: tokens})
}

// handleStream writes generated tokens as plain text while they are produced.
func (m *MarkovAPI) handleStream(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	length, err := m.parseLength(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	stream, err := m.model.GenerateStream(r.Context(), r.URL.Query().Get("start"), length)
	if err != nil {
		RecordGenerationError("stream")
		m.respondWithModelError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	var tokens int
	for token := range stream {
		if tokens > 0 {
			_, _ = w.Write([]byte(" "))
		}
		if _, err = w.Write([]byte(token)); err != nil {
			// The client went away; the stream stops with the request context.
			m.logger.Debug("Stream write failed", "error", err)
			break
		}
		tokens++
		if flusher != nil {
			flusher.Flush()
		}
	}
	RecordGeneration("stream", tokens)
}

// handleNextWord returns one continuation of the given phrase.
func (m *MarkovAPI) handleNextWord(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	word, err := m.model.NextWord(r.URL.Query().Get("phrase"))
	if err != nil {
		RecordGenerationError("next")
		m.respondWithModelError(w, err)
		return
	}
	RecordGeneration("next", 1)
	respondWithJSON(w, http.StatusOK, NextWordResponse{Word: word})
}

// handleRandomPair returns a uniformly chosen token pair.
func (m *MarkovAPI) handleRandomPair(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	pair, err := m.model.RandomPair()
	if err != nil {
		RecordGenerationError("pair")
		m.respondWithModelError(w, err)
		return
	}
	RecordGeneration("pair", len(pair))
	respondWithJSON(w, http.StatusOK, PairResponse{Pair: pair})
}

// handleStats returns statistics about the current table.
func (m *MarkovAPI) handleStats(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	stats, err := m.model.Stats()
	if err != nil {
		m.respondWithModelError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// handleTrain rebuilds the model from the corpus store.
func (m *MarkovAPI) handleTrain(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if err := m.trainer.Train(r.Context()); err != nil {
		if errors.Is(err, markov.ErrInvalidTrainingInput) {
			respondWithError(w, http.StatusBadRequest, "The corpus is empty, add documents before training")
			return
		}
		m.logger.Error("Failed to train model", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Training failed: %v", err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// parseLength reads the length query parameter, falling back to the
// configured default.
func (m *MarkovAPI) parseLength(r *http.Request) (int, error) {
	cfg := m.cm.Get().Generator
	raw := r.URL.Query().Get("length")
	if raw == "" {
		return cfg.DefaultLength, nil
	}
	length, err := strconv.Atoi(raw)
	if err != nil || length < 0 {
		return 0, fmt.Errorf("length must be a non-negative integer")
	}
	if length > cfg.MaxLength {
		return 0, fmt.Errorf("length must not exceed %d", cfg.MaxLength)
	}
	return length, nil
}

func (m *MarkovAPI) respondWithModelError(w http.ResponseWriter, err error) {
	if errors.Is(err, markov.ErrUntrainedModel) {
		respondWithError(w, http.StatusConflict, "The model is untrained")
		return
	}
	m.logger.Error("Model query failed", "error", err)
	respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Model query failed: %v", err))
}

// allowMethod writes a 405 response and returns false unless r uses method.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

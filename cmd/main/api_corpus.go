package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/CTAG07/wordchain/pkg/corpus"
)

// CorpusAPI holds the dependencies for the corpus document handlers.
type CorpusAPI struct {
	store   *corpus.Store
	trainer *Trainer
	cm      *ConfigManager
	logger  *slog.Logger
}

// NewCorpusAPI creates a new instance of the CorpusAPI.
func NewCorpusAPI(store *corpus.Store, trainer *Trainer, cm *ConfigManager, logger *slog.Logger) *CorpusAPI {
	return &CorpusAPI{
		store:   store,
		trainer: trainer,
		cm:      cm,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routing for all /api/corpus endpoints.
func (c *CorpusAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/corpus/documents", c.handleDocuments)
	mux.HandleFunc("/api/corpus/documents/", c.handleDocumentByName)
}

// AddDocumentRequest is the expected JSON body for adding a document.
type AddDocumentRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (c *CorpusAPI) handleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		requireScope(scopeCorpusRead, c.listDocuments)(w, r)
	case http.MethodPost:
		requireScope(scopeCorpusWrite, c.addDocument)(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (c *CorpusAPI) handleDocumentByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/corpus/documents/")
	if name == "" {
		respondWithError(w, http.StatusBadRequest, "Missing document name in URL")
		return
	}
	switch r.Method {
	case http.MethodGet:
		requireScope(scopeCorpusRead, func(w http.ResponseWriter, r *http.Request) {
			c.getDocument(w, r, name)
		})(w, r)
	case http.MethodDelete:
		requireScope(scopeCorpusWrite, func(w http.ResponseWriter, r *http.Request) {
			c.removeDocument(w, r, name)
		})(w, r)
	default:
		w.Header().Set("Allow", "GET, DELETE")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (c *CorpusAPI) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := c.store.List(r.Context())
	if err != nil {
		c.logger.Error("Failed to list corpus documents", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}
	respondWithJSON(w, http.StatusOK, docs)
}

func (c *CorpusAPI) addDocument(w http.ResponseWriter, r *http.Request) {
	var req AddDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}

	doc, err := c.store.Put(r.Context(), req.Name, req.Content)
	if err != nil {
		if errors.Is(err, corpus.ErrInvalidSource) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.logger.Error("Failed to store corpus document", "name", req.Name, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to store document")
		return
	}

	c.retrain(r)
	doc.Content = ""
	respondWithJSON(w, http.StatusCreated, doc)
}

func (c *CorpusAPI) getDocument(w http.ResponseWriter, r *http.Request, name string) {
	doc, err := c.store.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, corpus.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Document not found")
			return
		}
		c.logger.Error("Failed to read corpus document", "name", name, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to read document")
		return
	}
	respondWithJSON(w, http.StatusOK, doc)
}

func (c *CorpusAPI) removeDocument(w http.ResponseWriter, r *http.Request, name string) {
	if err := c.store.Remove(r.Context(), name); err != nil {
		if errors.Is(err, corpus.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Document not found")
			return
		}
		c.logger.Error("Failed to remove corpus document", "name", name, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to remove document")
		return
	}
	c.retrain(r)
	w.WriteHeader(http.StatusNoContent)
}

// retrain rebuilds the model after a corpus change when train_on_change is
// set. A failed run keeps the previous table and is only logged.
func (c *CorpusAPI) retrain(r *http.Request) {
	if !c.cm.Get().Generator.TrainOnChange {
		return
	}
	if err := c.trainer.Train(r.Context()); err != nil {
		c.logger.Warn("Retraining after corpus change failed", "error", err)
	}
}

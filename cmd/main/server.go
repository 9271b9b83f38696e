package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CTAG07/wordchain/pkg/corpus"
	"github.com/CTAG07/wordchain/pkg/markov"
)

type Server struct {
	cm        *ConfigManager
	db        *sql.DB
	logger    *slog.Logger
	model     *markov.Model
	store     *corpus.Store
	trainer   *Trainer
	authAPI   *AuthAPI
	markovAPI *MarkovAPI
	corpusAPI *CorpusAPI
	serverAPI *ServerAPI
	apiMux    *http.ServeMux
}

func NewServer(cm *ConfigManager, logger *slog.Logger, db *sql.DB, actionChan chan string) (*Server, error) {
	cfg := cm.Get()

	store, err := corpus.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("error creating corpus store: %w", err)
	}
	store.SetLogger(logger)

	var src rand.Source
	if cfg.Generator.RandomSeed != 0 {
		src = rand.NewPCG(cfg.Generator.RandomSeed, cfg.Generator.RandomSeed)
	}
	model := markov.NewModel(markov.NewDefaultTokenizer(), src)
	model.SetLogger(logger)

	trainer := NewTrainer(model, store, logger)

	// api initialization
	authAPI := NewAuthAPI(db, logger)
	markovAPI := NewMarkovAPI(model, trainer, cm, logger)
	corpusAPI := NewCorpusAPI(store, trainer, cm, logger)
	serverAPI := NewServerAPI(cm, actionChan, logger)

	server := &Server{
		cm:        cm,
		db:        db,
		logger:    logger,
		model:     model,
		store:     store,
		trainer:   trainer,
		authAPI:   authAPI,
		markovAPI: markovAPI,
		corpusAPI: corpusAPI,
		serverAPI: serverAPI,
		apiMux:    http.NewServeMux(),
	}

	apiMux := http.NewServeMux()
	server.authAPI.RegisterRoutes(apiMux)
	server.markovAPI.RegisterRoutes(apiMux)
	server.corpusAPI.RegisterRoutes(apiMux)
	server.serverAPI.RegisterRoutes(apiMux)

	// Make sure api functions must pass through authentication first
	server.apiMux.Handle("/api/", server.authAPI.Authenticate(apiMux))
	server.apiMux.Handle("/metrics", promhttp.Handler())

	return server, nil
}

// Start imports the configured seed files and trains the model on whatever
// the corpus holds. An empty corpus is not an error; the model stays
// untrained until documents are added.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.cm.Get()
	if len(cfg.Server.SeedFiles) > 0 {
		if err := s.store.ImportFiles(ctx, cfg.Server.SeedFiles...); err != nil {
			return fmt.Errorf("failed to import seed files: %w", err)
		}
	}
	documents, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count corpus documents: %w", err)
	}
	s.logger.Info("Corpus loaded", "documents", documents)

	if err = s.trainer.Train(ctx); err != nil {
		s.logger.Warn("Model not trained on startup", "error", err)
	}
	return nil
}

// Close releases the resources held by the server. The database is owned by
// the caller.
func (s *Server) Close() {
	s.store.Close()
}

// Trainer retrains the model from the corpus store. Training runs are
// serialized so concurrent corpus changes cannot publish tables out of order.
type Trainer struct {
	mu     sync.Mutex
	model  *markov.Model
	store  *corpus.Store
	logger *slog.Logger
}

func NewTrainer(model *markov.Model, store *corpus.Store, logger *slog.Logger) *Trainer {
	return &Trainer{model: model, store: store, logger: logger}
}

// Train rebuilds the model from every stored document. It returns an error
// wrapping markov.ErrInvalidTrainingInput if the store is empty, in which case
// the current table is kept.
func (t *Trainer) Train(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := time.Now()
	readers, err := t.store.Readers(ctx)
	if err != nil {
		RecordTrainingFailure()
		return fmt.Errorf("failed to read corpus: %w", err)
	}
	RecordCorpusSize(len(readers))

	if err = t.model.TrainReaders(ctx, readers...); err != nil {
		RecordTrainingFailure()
		return fmt.Errorf("failed to train model: %w", err)
	}

	stats, err := t.model.Stats()
	if err != nil {
		// The corpus was too short; the model is untrained but the run succeeded.
		stats = markov.ModelStats{}
	}
	RecordTraining(time.Since(start), stats)
	return nil
}

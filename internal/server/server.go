package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"traffic/pulse/internal/analysis"
	"traffic/pulse/internal/auth"
	"traffic/pulse/internal/config"
	"traffic/pulse/internal/generator"
	"traffic/pulse/internal/incident"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Server wires configuration, dependencies and HTTP routing together.
type Server struct {
	cfg       config.Config
	log       zerolog.Logger
	store     *incident.Store
	gen       *generator.Generator
	engine    *analysis.Engine
	remote    *analysis.Client
	auth      *auth.Service
	validate  *validator.Validate
	startedAt time.Time

	// rng backs the upload-location fallback; guarded because analyze
	// requests run concurrently.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// New instantiates the HTTP server and prepares shared dependencies.
func New(cfg config.Config, log zerolog.Logger) (*Server, error) {
	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	store := incident.NewStore()

	engineSeed := cfg.Analysis.Seed
	if engineSeed == 0 {
		engineSeed = time.Now().UnixNano()
	}
	engine := analysis.NewEngine(rand.New(rand.NewSource(engineSeed)))

	var remote *analysis.Client
	if cfg.Analysis.RemoteURL != "" {
		remote = analysis.NewClient(
			cfg.Analysis.RemoteURL,
			cfg.Analysis.Timeout,
			analysis.ParsePolicy(cfg.Analysis.Policy),
			engine,
			log,
		)
	}

	genSeed := cfg.Gen.Seed
	if genSeed == 0 {
		genSeed = time.Now().UnixNano()
	}

	srv := &Server{
		cfg:    cfg,
		log:    log,
		store:  store,
		engine: engine,
		remote: remote,
		auth: auth.NewService(
			auth.DefaultUsers(),
			cfg.Auth.Secret,
			cfg.Auth.TokenTTL,
		),
		validate:  newValidator(),
		rng:       rand.New(rand.NewSource(genSeed)),
		startedAt: time.Now().UTC(),
	}

	srv.gen = generator.New(
		generator.Config{
			MinInterval:     cfg.Gen.MinInterval,
			MaxInterval:     cfg.Gen.MaxInterval,
			FireProbability: cfg.Gen.FireProbability,
		},
		&countingSink{store: store},
		rand.New(rand.NewSource(genSeed+1)),
		log,
	)

	return srv, nil
}

// Run starts the background feed and the HTTP server, blocking until the
// context is cancelled or an unrecoverable error occurs.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		if err := s.store.Load(ctx, s.cfg.Store.SeedDelay); err != nil {
			s.log.Warn().Err(err).Msg("store seed cancelled")
			return
		}
		s.log.Info().Int("count", s.store.Len()).Msg("incident store seeded")
	}()

	if s.cfg.Gen.Enabled {
		go s.gen.Run(ctx)
	}

	StartStoreMetricsSync(ctx, s.store, s.log, 30*time.Second)

	httpServer := &http.Server{
		Addr:         s.cfg.HTTP.Address,
		Handler:      s.routes(),
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
		IdleTimeout:  s.cfg.HTTP.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	s.log.Info().Str("addr", s.cfg.HTTP.Address).Msg("http server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// countingSink records generator output in Prometheus before delegating to
// the store.
type countingSink struct {
	store *incident.Store
}

func (c *countingSink) Insert(draft incident.Draft) *incident.Incident {
	inc := c.store.Insert(draft)
	incidentsCreatedTotal.WithLabelValues(
		string(inc.Type), string(inc.Severity), string(inc.DetectedBy),
	).Inc()
	return inc
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("latitude", func(fl validator.FieldLevel) bool {
		val, ok := fl.Field().Interface().(float64)
		if !ok {
			return false
		}
		return val >= -90 && val <= 90
	})
	_ = v.RegisterValidation("longitude", func(fl validator.FieldLevel) bool {
		val, ok := fl.Field().Interface().(float64)
		if !ok {
			return false
		}
		return val >= -180 && val <= 180
	})
	return v
}

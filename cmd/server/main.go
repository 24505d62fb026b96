package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"verifier/internal/jose"
	"verifier/internal/platform/config"
	"verifier/internal/platform/health"
	"verifier/internal/platform/kafka/producer"
	"verifier/internal/platform/logger"
	"verifier/internal/platform/middleware"
	"verifier/internal/platform/tracer"
	"verifier/internal/presentation/events"
	"verifier/internal/presentation/handler"
	"verifier/internal/presentation/metrics"
	"verifier/internal/presentation/models"
	"verifier/internal/presentation/service"
	"verifier/internal/presentation/store"
	"verifier/internal/presentation/store/kv"
	"verifier/internal/presentation/workers/cleanup"
	"verifier/pkg/platform/circuit"
	"verifier/pkg/platform/httputil"
)

const (
	requestTimeout    = 30 * time.Second
	shutdownTimeout   = 10 * time.Second
	poolStatsInterval = 15 * time.Second
)

// main wires the presentation service, its store and the HTTP router, and
// runs them until SIGINT or SIGTERM.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("verifier stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing verifier",
		"addr", cfg.Addr,
		"public_url", cfg.Verifier.PublicURL,
		"kv_backend", cfg.Store.Backend,
		"environment", cfg.Environment,
	)

	if err := cfg.Verifier.Validate(); err != nil {
		return err
	}

	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error("failed to close presentation backend", "error", err)
		}
	}()

	guarded := kv.NewGuarded(backend, circuit.New("presentation-store"), log)
	m := metrics.New()
	otel := tracer.NewOTel()

	transactions := store.New(guarded,
		store.WithTTL(cfg.Store.TTL),
		store.WithTracer(otel),
		store.WithMetrics(m),
		store.WithLogger(log),
	)

	signer, err := newSigner(cfg.Verifier, log)
	if err != nil {
		return err
	}

	publisher, kafkaProducer, err := newPublisher(cfg.Kafka, log)
	if err != nil {
		return err
	}
	if kafkaProducer != nil {
		defer func() {
			if err := kafkaProducer.Close(); err != nil {
				log.Error("failed to close kafka producer", "error", err)
			}
		}()
	}

	svc := service.New(transactions, signer, service.Config{
		PublicURL:                  cfg.Verifier.PublicURL,
		ClientID:                   cfg.Verifier.ClientID,
		ClientIDScheme:             cfg.Verifier.ClientIDScheme,
		ResponseMode:               models.ResponseMode(cfg.Verifier.ResponseMode),
		JARMode:                    models.EmbedMode(cfg.Verifier.JARMode),
		PresentationDefinitionMode: models.EmbedMode(cfg.Verifier.PresentationDefinitionMode),
		RequestObjectMaxAge:        cfg.Verifier.RequestObjectMaxAge,
	},
		service.WithEventPublisher(publisher),
		service.WithMetrics(m),
		service.WithLogger(log),
	)

	healthHandler := health.New(cfg.Environment, log)
	healthHandler.RegisterCheck("presentation_store", guarded.Check)
	for name, check := range backend.checks {
		healthHandler.RegisterCheck(name, check)
	}
	if kafkaProducer != nil {
		healthHandler.RegisterCheck(kafkaProducer.Name(), kafkaProducer.Check)
	}

	router := newRouter(cfg, log, handler.New(svc, log, otel), healthHandler)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if _, ok := backend.Backend.(kv.Expirer); ok {
		worker, err := cleanup.New(guarded,
			cleanup.WithCleanupInterval(cfg.CleanupInterval),
			cleanup.WithCleanupLogger(log),
			cleanup.WithCleanupMetrics(m),
		)
		if err != nil {
			return err
		}
		g.Go(func() error { return ignoreCanceled(worker.Start(gctx)) })
	}

	if backend.redis != nil {
		g.Go(func() error { return ignoreCanceled(backend.redis.RunPoolStats(gctx, poolStatsInterval)) })
	}

	return g.Wait()
}

func newRouter(cfg config.Server, log *slog.Logger, h *handler.Handler, healthHandler *health.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(requestTimeout))

	r.Use(uiCORS(cfg.CORSOrigins))
	r.Use(landingPage)

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	h.RegisterUI(r)
	h.RegisterWallet(r)

	return r
}

// uiCORS applies CORS to the verifier UI API only. It runs before routing so
// preflight requests are answered even though no OPTIONS route exists.
func uiCORS(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Request-ID"},
	})
	return func(next http.Handler) http.Handler {
		withCORS := c.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/ui/") {
				withCORS.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var landingPageBody = []byte("<h1>Verifier backend</h1>")

// landingPage answers browsers hitting the root with a static page. API
// clients that do not ask for HTML fall through to the router.
func landingPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/" && strings.Contains(r.Header.Get("Accept"), "text/html") {
			httputil.WriteBody(w, http.StatusOK, "text/html; charset=utf-8", landingPageBody)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newSigner(cfg config.Verifier, log *slog.Logger) (*jose.RequestObjectSigner, error) {
	if cfg.SigningKeyJWK == "" {
		log.Warn("no JAR signing key configured; generated an ephemeral one")
		key, err := jose.GenerateSigningKey()
		if err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
		return jose.NewRequestObjectSigner(key)
	}
	key, err := jose.ParsePrivateKey(cfg.SigningKeyJWK)
	if err != nil {
		return nil, fmt.Errorf("parse JAR signing key: %w", err)
	}
	signer, err := jose.NewRequestObjectSigner(key)
	if err != nil {
		return nil, err
	}
	if cfg.RequiresCertificateChain() && !signer.HasCertificateChain() {
		return nil, fmt.Errorf("CLIENT_ID_SCHEME %s requires an x5c certificate chain on the JAR signing key", cfg.ClientIDScheme)
	}
	return signer, nil
}

// newPublisher always logs events and additionally sends them to Kafka when
// brokers are configured.
func newPublisher(cfg config.KafkaConfig, log *slog.Logger) (events.Publisher, *producer.Producer, error) {
	logPublisher := events.NewLogPublisher(log)
	if len(cfg.Brokers) == 0 {
		return logPublisher, nil, nil
	}
	p, err := producer.New(producer.DefaultConfig(strings.Join(cfg.Brokers, ",")), log)
	if err != nil {
		return nil, nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return events.Multi{logPublisher, events.NewKafkaPublisher(p, cfg.Topic, log)}, p, nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

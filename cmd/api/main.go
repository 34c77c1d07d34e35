package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Banco
	db, err := database.NewDBConnection(cfg.Database.URL, database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := database.RunMigrations(db); err != nil {
			log.Fatal("migrations failed", zap.Error(err))
		}
		log.Info("migrations applied")
	}

	rawLeadRepo := database.NewRawLeadRepository(db)
	leadRepo := database.NewLeadRepository(db)

	// 2. RabbitMQ (opcional)
	var (
		events      usecase.LeadEventPublisher = queue.NoopPublisher{}
		brokerState handlers.BrokerState
	)
	if cfg.RabbitMQ.Enabled() {
		amqpURL := queue.ResolveURL(cfg.RabbitMQ.URL, cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
		rabbitMQ, err := queue.NewRabbitMQ(amqpURL)
		if err != nil {
			log.Warn("rabbitmq unavailable, lead events disabled", zap.Error(err))
		} else {
			defer rabbitMQ.Close()
			brokerState = rabbitMQ
			events = queue.NewProducer(rabbitMQ.Ch, middleware.RecordLeadEvent)

			var notifier queue.LeadNotifier = mail.LogNotifier{Logger: log}
			if cfg.SMTP.Enabled() {
				notifier = mail.NewEmailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, cfg.SMTP.NotifyTo)
			}

			// O worker usa um canal próprio para não disputar com o producer.
			consumerCh, err := rabbitMQ.Conn.Channel()
			if err != nil {
				log.Warn("could not open consumer channel", zap.Error(err))
			} else {
				defer consumerCh.Close()
				w := queue.NewWorker(consumerCh, notifier, log)
				go func() {
					if err := w.Start(ctx, queue.QueueName); err != nil {
						log.Error("lead event worker exited", zap.Error(err))
					}
				}()
			}
		}
	}

	// 3. UseCases
	metrics := middleware.LeadMetrics{}
	convertUC := usecase.NewConvertRawLeadUseCase(
		leadRepo,
		rawLeadRepo,
		usecase.NewInquiryNumberGenerator(),
		events,
		metrics,
		usecase.ConvertRawLeadConfig{
			FallbackAssignee: cfg.Leads.FallbackAssignee,
			DefaultOrigin:    cfg.Leads.DefaultOrigin,
		},
		log,
	)
	ingestUC := usecase.NewIngestRawLeadUseCase(rawLeadRepo, convertUC, metrics, log)

	// 4. Workers
	if cfg.Reconcile.Enabled {
		rw := worker.NewReconcileWorker(rawLeadRepo, cfg.Reconcile.OlderThan, cfg.Reconcile.Interval, cfg.Reconcile.BatchSize, middleware.SetUnconvertedRawLeads, log)
		go rw.Start(ctx)
	}

	// 5. Handlers
	webhookHandler := handlers.NewLeadWebhookHandler(ingestUC, cfg.Webhook.Secret, cfg.Webhook.MaxBodyBytes, log)
	leadHandler := handlers.NewLeadHandler(leadRepo, rawLeadRepo)
	healthHandler := handlers.NewHealthHandler(db, brokerState, version)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.WebhookSecretHeader},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/webhooks/leads", webhookHandler.Handle)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSecret(cfg.Webhook.Secret))
		r.Get("/leads/{id}", leadHandler.GetLead)
		r.Get("/raw-leads/unconverted", leadHandler.ListUnconverted)
		r.Get("/raw-leads/{id}", leadHandler.GetRawLead)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}

// Package server wires mealbot together: storage, collaborators, the
// conversation engine and the webhook, and runs them until a signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/mealbot/internal/logging"
	"github.com/dmitrijs2005/mealbot/internal/server/config"
	"github.com/dmitrijs2005/mealbot/internal/server/conversation"
	"github.com/dmitrijs2005/mealbot/internal/server/metrics"
	"github.com/dmitrijs2005/mealbot/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mealbot/internal/server/services"
	"github.com/dmitrijs2005/mealbot/internal/server/webhook"
	"github.com/dmitrijs2005/mealbot/internal/timex"
)

var (
	openDB = repomanager.OpenPostgres

	newExtractor = services.NewGeminiExtractor

	newRepoManager = func() repomanager.RepositoryManager {
		return repomanager.NewPostgresRepositoryManager()
	}
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	transcriber *services.SpeechTranscriber
	engine      *conversation.Engine
	server      *webhook.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	location, err := timex.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	m := metrics.New()

	if c.GeminiAPIKey == "" {
		logger.Warn(ctx, "GEMINI_API_KEY is not set, meal extraction will fail")
	}
	extractor := newExtractor(c.GeminiBaseURL, c.GeminiModel, c.GeminiAPIKey, c.GeminiTimeout, logger)

	transcriber := services.NewSpeechTranscriber(services.TranscriberConfig{
		AccountSID:      c.TwilioAccountSID,
		AuthToken:       c.TwilioAuthToken,
		LanguageCode:    c.SpeechLanguage,
		SampleRate:      c.SpeechSampleRate,
		CredentialsFile: c.SpeechCredentialsFile,
	}, nil, logger)

	store := services.NewMealService(db, rm, location)

	opts := []conversation.Option{
		conversation.WithLogger(logger),
		conversation.WithMetrics(m),
		conversation.WithPendingTTL(c.PendingTTL),
	}

	srvOpts := webhook.Options{
		Address:         c.EndpointAddrHTTP,
		RequestTimeout:  c.RequestTimeout,
		VerifySignature: c.VerifySignature,
		AuthToken:       c.TwilioAuthToken,
		PublicBaseURL:   c.PublicBaseURL,
	}

	switch c.ChartStorage {
	case config.ChartStorageS3:
		opts = append(opts, conversation.WithChartRenderer(
			services.NewChartService(services.NewS3ChartStore(c), logger)))
	case config.ChartStorageLocal:
		ls, err := services.NewLocalChartStore(c.ChartDir, c.PublicBaseURL, []byte(c.ChartSecretKey), c.ChartLinkValidity)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("chart dir: %w", err)
		}
		opts = append(opts, conversation.WithChartRenderer(services.NewChartService(ls, logger)))
		srvOpts.ChartDir = ls.Dir()
		srvOpts.ChartSecret = []byte(c.ChartSecretKey)
	default:
		logger.Info(ctx, "summary charts disabled")
	}

	engine := conversation.NewEngine(transcriber, extractor, store, opts...)
	server := webhook.NewServer(srvOpts, engine, m, logger)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		transcriber: transcriber,
		engine:      engine,
		server:      server,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) close(ctx context.Context) {
	if err := app.transcriber.Close(); err != nil {
		app.logger.Error(ctx, "speech client close", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "time_zone", app.config.TimeZone, "charts", app.config.ChartStorage)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	app.close(closeCtx)

	app.logger.Info(closeCtx, "App stopped")
}

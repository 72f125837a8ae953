package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"notes-web/config"
	"notes-web/handlers"
	"notes-web/middleware"
	"notes-web/notes"
	"notes-web/store"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := config.LoadDotEnv(""); err != nil {
		logger.WithError(err).Warn("could not read .env")
	}

	cfg := config.Default()
	app := &cli.App{
		Name:  "notes-web",
		Usage: "turn uploaded PDFs into study notes and translations",
		Flags: config.Flags(&cfg),
		Action: func(c *cli.Context) error {
			logger.SetLevel(config.ParseLogLevel(cfg.LogLevel))
			return serve(c.Context, cfg, logger)
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func serve(parent context.Context, cfg config.Config, logger *logrus.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	gen, err := notes.NewProvider(cfg.ProviderConfig())
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := middleware.NewSessionManager(middleware.SessionTimeout)
	results := store.New(cfg.ResultTTL, logger)
	go sessions.CleanupExpired(ctx, time.Hour)
	go results.Run(ctx, 10*time.Minute)

	svc := notes.NewService(gen, cfg.GenerateTimeout, cfg.GenerateRPS, logger)
	if cfg.CacheResults {
		cache, err := notes.NewCache(cfg.CacheDir(), cfg.CacheScope())
		if err != nil {
			return fmt.Errorf("create generation cache: %w", err)
		}
		svc.Cache = cache
	}

	fonts := notes.NewFontResolver(cfg.FontDir, logger)
	if cfg.SystemFonts {
		fonts.SystemDirs = notes.SystemFontDirs()
	}

	h := &handlers.Handler{
		Extractor: notes.NewPDFExtractor(logger),
		Notes:     svc,
		Fonts:     fonts,
		Renderer:  notes.NewRenderer(logger),
		Store:     results,
		UploadDir: cfg.UploadDir(),
		OutputDir: cfg.OutputDir(),
		Log:       logger,
	}

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.LoggerWithWriter(logger.WriterLevel(logrus.DebugLevel)), gin.Recovery())
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20
	h.Register(r, sessions)

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":     cfg.Addr,
			"provider": gen.Name(),
			"model":    cfg.Model,
		}).Info("notes server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"social_media_agent/config"
	"social_media_agent/generator"
	"social_media_agent/history"
	"social_media_agent/server"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config file (.json, .yaml or .yml)")
	addr := flag.String("addr", "", "http listen address (overrides config.server_addr)")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	if err := run(*configPath, *addr, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, addr string, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel, verbose)
	if err != nil {
		return err
	}

	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	if cfg.LLM.Provider != config.ProviderMock && cfg.APIKey == "" {
		logger.Warnf("%s is not set; completion calls will fail", config.APIKeyEnv)
	}
	agent, err := generator.NewAgent(llm,
		generator.WithModels(cfg.Models()...),
		generator.WithMaxTokens(cfg.LLM.MaxTokens),
		generator.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx := context.Background()
	ttl, err := cfg.SessionTTL()
	if err != nil {
		return err
	}
	store, closeStore, err := buildHistory(ctx, cfg, ttl)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := server.Options{
		CORSOrigins: cfg.CORSOrigins,
		SessionTTL:  ttl,
		Shown:       cfg.History.Shown,
		Logger:      logger,
	}
	if cfg.LLM.Provider == config.ProviderGroq {
		opts.Footer = "Built with Groq (free models)."
	}
	srv, err := server.New(agent, store, opts)
	if err != nil {
		return err
	}

	listen := cfg.ServerAddr
	if addr != "" {
		listen = addr
	}
	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":     listen,
			"provider": cfg.LLM.Provider,
			"history":  cfg.History.Backend,
		}).Info("starting web server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutCtx)
}

func newLogger(level string, verbose bool) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	if verbose {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger, nil
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	settings := &generator.LLMSettings{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	}
	switch cfg.LLM.Provider {
	case config.ProviderGroq:
		if settings.BaseURL == "" {
			settings.BaseURL = generator.GroqBaseURL
		}
		return generator.NewOpenAILLMFromConfig(settings)
	case config.ProviderOpenAI, config.ProviderCustom:
		return generator.NewOpenAILLMFromConfig(settings)
	case config.ProviderMock:
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

func buildHistory(ctx context.Context, cfg config.Config, ttl time.Duration) (history.Store, func(), error) {
	if cfg.History.Backend != config.BackendRedis {
		return history.NewMemoryStore(ttl), func() {}, nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rdb, err := history.NewRedisClient(pingCtx, cfg.History.RedisAddr, cfg.History.RedisPassword, cfg.History.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return history.NewRedisStore(rdb, ttl), func() { _ = rdb.Close() }, nil
}

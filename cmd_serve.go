package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"loan-engine/config"
	httpLayer "loan-engine/http"
	"loan-engine/service"
	"loan-engine/store"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the calculator HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if addr != "" {
				cfg.Server.Addr = addr
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func newLimiter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (httpLayer.Limiter, func(), error) {
	window := cfg.RateLimit.WindowDuration()

	switch cfg.RateLimit.Backend {
	case "redis":
		counter := store.NewRedisCounter(cfg.Redis)
		if err := counter.Ping(ctx); err != nil {
			counter.Close()
			return nil, nil, err
		}
		logger.Info("rate limiting through redis", zap.String("addr", cfg.Redis.Addr))
		limiter := httpLayer.NewWindowLimiter(counter, cfg.RateLimit.Capacity, window, logger)
		return limiter, func() { counter.Close() }, nil

	case "window":
		counter := store.NewMemoryCounter()
		pruneCtx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			counter.RunPruner(pruneCtx, window)
		}()
		limiter := httpLayer.NewWindowLimiter(counter, cfg.RateLimit.Capacity, window, logger)
		return limiter, func() {
			cancel()
			<-done
		}, nil
	}

	limiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, window)
	return limiter, limiter.Stop, nil
}

func newHandlers(cfg *config.Config, logger *zap.Logger) httpLayer.Handlers {
	advisor := service.NewAdvisor(cfg.Advisor, logger)
	loans := service.NewLoanService(cfg.Limits, logger)

	return httpLayer.Handlers{
		Loan:       httpLayer.NewLoanHandler(loans, logger),
		Mortgage:   httpLayer.NewMortgageHandler(service.NewMortgageService(loans, advisor, cfg.Mortgage, logger), logger),
		Comparison: httpLayer.NewComparisonHandler(service.NewComparisonService(loans, logger), logger),
		CreditCard: httpLayer.NewCreditCardHandler(service.NewCreditCardService(cfg.Limits, logger), logger),
		Term:       httpLayer.NewTermRecommendationHandler(service.NewTermRecommendationService(loans, advisor, logger), logger),
		DebtExit:   httpLayer.NewDebtExitHandler(service.NewDebtExitService(cfg.Limits, advisor, logger), logger),
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	limiter, closeLimiter, err := newLimiter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpLayer.NewRouter(newHandlers(cfg, logger), limiter, logger),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("API listening",
			zap.String("addr", cfg.Server.Addr),
			zap.Bool("advisor", cfg.Advisor.Enabled),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}

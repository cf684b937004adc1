// Package main содержит точку входа сервера дашборда прокси-шлюза.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации из файла ./configs/dashboard.yaml (или DASHBOARD_CONFIG);
//   - создание Signer утверждений (ключ загружается один раз при старте);
//   - создание клиента внутреннего API, middleware и HTTP-обработчиков;
//   - настройку и запуск HTTP-сервера с заданными таймаутами;
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/assertion"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/config"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/gateway"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/server/api"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/server/middleware"
	h "github.com/IvanChernomyrdin/go-gateway-dashboard/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/logger"
)

const defaultConfigPath = "./configs/dashboard.yaml"

func main() {
	// до чтения конфига пишем в stderr
	boot, _ := logger.New(logger.Config{Console: true})
	sugar := boot.Sugar()

	if err := godotenv.Load(); err != nil {
		sugar.Warnf("no .env file loaded, error: %v", err)
	}

	path := defaultConfigPath
	if v := os.Getenv("DASHBOARD_CONFIG"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		sugar.Fatal(err)
	}
	if err := cfg.ValidateServer(); err != nil {
		sugar.Fatal(err)
	}

	httpLogger, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		sugar.Fatal(err)
	}
	defer httpLogger.Sync()
	sugar = httpLogger.Sugar()

	// ключ читается один раз; битый ключ — отказ на старте, а не на первом запросе
	keyProvider, err := cfg.KeyProvider()
	if err != nil {
		sugar.Fatal(err)
	}
	signer, err := assertion.NewSigner(keyProvider, cfg.SignerConfig())
	if err != nil {
		sugar.Fatal(err)
	}

	client, err := gateway.NewClient(cfg.ClientConfig(), signer, httpLogger.Logger.Named("gateway"))
	if err != nil {
		sugar.Fatal(err)
	}

	verifier := middleware.NewSessionVerifier(
		cfg.Session.SigningKey,
		cfg.Session.Issuer,
		cfg.Session.Audience,
		cfg.Session.CookieName,
	)
	handler := api.NewHandler(client, httpLogger, verifier, cfg.Server.MaxBodyBytes)
	router := h.NewRouter(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		httpLogger.Info("server started",
			zap.String("addr", addr),
			zap.String("backend", cfg.Backend.BaseURL),
			zap.Duration("assertion_ttl", signer.TTL()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
	sugar.Info("server gracefully stopped")
}

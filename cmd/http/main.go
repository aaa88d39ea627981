package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/mberla/duet/internal/infrastructure/configs"
	"github.com/mberla/duet/internal/infrastructure/ratelimiter"
	"github.com/mberla/duet/internal/infrastructure/tracing"
	"github.com/mberla/duet/internal/infrastructure/ws"
	"github.com/mberla/duet/internal/presentation/api"
	"github.com/mberla/duet/internal/presentation/handler/health"
	"github.com/mberla/duet/internal/presentation/handler/rooms"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	configPath := configs.DeterminePath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	shutdownTracer, err := tracing.InitTracer(tracing.NewDefaultConfig("duet"))
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	manager := ws.NewManager(logger, cfg.History.Limit)
	roomHandler := rooms.NewHandler(manager, cfg.HTTP.AllowedOrigins, cfg.WS.SendQueueSize, logger)
	healthHandler := health.NewHandler()

	rateLimiter := ratelimiter.NewFixedWindowRateLimiter(cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame)
	defer rateLimiter.Close()

	app := api.NewApplication(*cfg, roomHandler, healthHandler, logger, rateLimiter)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	logger.Fatal(app.Run(otelhttp.NewHandler(mux, "duet-http")))
}

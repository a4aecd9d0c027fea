package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ffmuc/social-registration/modules/api"
	"github.com/ffmuc/social-registration/pkg/clientip"
	"github.com/ffmuc/social-registration/pkg/config"
	"github.com/ffmuc/social-registration/pkg/httpserver"
	"github.com/ffmuc/social-registration/pkg/logger"
	"github.com/ffmuc/social-registration/pkg/metrics"
	"github.com/ffmuc/social-registration/pkg/paypal"
	"github.com/ffmuc/social-registration/pkg/ratelimit"
	"github.com/ffmuc/social-registration/pkg/redis"
	"github.com/ffmuc/social-registration/pkg/requestid"
	"github.com/ffmuc/social-registration/svc/publicconfig"
	"github.com/ffmuc/social-registration/svc/registration"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg    appConfig
		httpCfg   httpserver.Config
		regCfg    registration.Config
		pubCfg    publicconfig.Config
		rlCfg     ratelimit.Config
		redisCfg  redis.Config
		paypalCfg paypal.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&appCfg) },
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&regCfg) },
		func() error { return config.Load(&pubCfg) },
		func() error { return config.Load(&rlCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&paypalCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	logOpts := []logger.Option{}
	if appCfg.LogLevel != "" {
		logOpts = append(logOpts, logger.WithLevelName(appCfg.LogLevel))
	}
	logOpts = append(logOpts,
		logger.WithEnvironment(appCfg.Env, appCfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	if regCfg.APIToken == "" {
		log.WarnContext(ctx, "API_TOKEN is not set, registrations will be refused")
	}
	if !pubCfg.Complete() {
		log.WarnContext(ctx, "PayPal client id or plan id is not set, public config will fail")
	}

	var (
		redisClient *goredis.Client
		readiness   = map[string]httpserver.CheckFunc{
			"paypal_config": func(context.Context) error {
				if !pubCfg.Complete() {
					return publicconfig.ErrMissingConfig
				}
				return nil
			},
		}
	)
	if rlCfg.Store == ratelimit.StoreRedis {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		redisClient = client
		readiness["redis"] = redis.Healthcheck(client)
	}

	store, err := ratelimit.NewStore(rlCfg, redisClient)
	if err != nil {
		return err
	}
	limiter, err := ratelimit.NewFromConfig(rlCfg, store)
	if err != nil {
		return err
	}

	regOpts := []registration.Option{registration.WithLogger(log)}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		requestid.Middleware,
		clientip.Middleware,
		logger.Middleware(log),
	)

	if appCfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder := metrics.New(reg)
		r.Use(recorder.Middleware)
		r.Handle("/metrics", metrics.Handler(reg))
		regOpts = append(regOpts, registration.WithObserver(recorder))
	}

	if paypalCfg.ClientID == "" {
		paypalCfg.ClientID = pubCfg.PaymentClientID()
	}
	if paypalCfg.VerificationEnabled() {
		pp, err := paypal.New(paypalCfg)
		if err != nil {
			return err
		}
		regOpts = append(regOpts, registration.WithSubscriptionVerifier(pp, pubCfg.EffectivePlanID()))
		log.InfoContext(ctx, "PayPal subscription verification enabled")
	}

	regSvc, err := registration.NewFromConfig(regCfg, limiter, regOpts...)
	if err != nil {
		return err
	}

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, readiness))

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: appCfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", requestid.Header},
			ExposedHeaders: []string{
				requestid.Header,
				"Retry-After",
				"X-RateLimit-Limit",
				"X-RateLimit-Remaining",
				"X-RateLimit-Reset",
			},
			MaxAge: 300,
		}))
		r.Mount("/api", api.Router(api.RouterOptions{
			Register:     regSvc,
			PublicConfig: publicconfig.New(pubCfg, log),
		}))
	})

	stopHooks := []httpserver.Option{
		httpserver.WithStopHook(func(context.Context) error {
			if c, ok := store.(interface{ Close() error }); ok {
				return c.Close()
			}
			return nil
		}),
	}
	if redisClient != nil {
		stopHooks = append(stopHooks, httpserver.WithStopHook(func(context.Context) error {
			return redisClient.Close()
		}))
	}

	srv := httpserver.NewFromConfig(httpCfg, append([]httpserver.Option{
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(ctx context.Context, addr net.Addr) {
			log.InfoContext(ctx, "registration service started",
				slog.String("addr", addr.String()),
				slog.String("mastodon_url", regCfg.MastodonURL),
				slog.String("rate_limit_store", rlCfg.Store),
			)
		}),
	}, stopHooks...)...)

	return srv.Run(ctx, r)
}

package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"

	"github.com/rentkart/backend-rentkart/internal/app"
	"github.com/rentkart/backend-rentkart/internal/auth"
	"github.com/rentkart/backend-rentkart/internal/cart"
	"github.com/rentkart/backend-rentkart/internal/catalog"
	"github.com/rentkart/backend-rentkart/internal/checkout"
	"github.com/rentkart/backend-rentkart/internal/common"
	"github.com/rentkart/backend-rentkart/internal/config"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/events"
	"github.com/rentkart/backend-rentkart/internal/health"
	"github.com/rentkart/backend-rentkart/internal/inventory"
	"github.com/rentkart/backend-rentkart/internal/jobs"
	"github.com/rentkart/backend-rentkart/internal/notify"
	"github.com/rentkart/backend-rentkart/internal/obs"
	"github.com/rentkart/backend-rentkart/internal/payment"
	"github.com/rentkart/backend-rentkart/internal/promo"
	"github.com/rentkart/backend-rentkart/internal/ratelimit"
	"github.com/rentkart/backend-rentkart/internal/rental"
	"github.com/rentkart/backend-rentkart/internal/reporting"
	"github.com/rentkart/backend-rentkart/internal/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "rentkart")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "rentkart-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				ctx := context.Background()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := app.NewPGXPool(ctx, cfg.DatabaseURL, "rentkart-api")
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise database")
	}
	defer pool.Close()
	queries := dbgen.New(pool)

	redisClient, err := app.NewRedisClient(ctx, cfg.RedisURL, metricsEnabled)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise redis")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	globalLimiter, err := app.NewRateLimiter(redisClient, cfg.APIRateLimit)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise rate limiter")
	}
	validate := app.NewValidator()

	taskClient := asynq.NewClient(asynqRedisOpt(cfg.RedisURL))
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close task client")
		}
	}()

	catalogService, err := catalog.NewService(catalog.ServiceConfig{
		Queries:      queries,
		Cache:        catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
		DefaultLimit: cfg.CatalogDefaultLimit,
		MaxLimit:     cfg.CatalogMaxLimit,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}
	catalogHandler := catalog.NewHandler(catalogService)
	catalogAdmin := &catalog.AdminHandler{Service: catalogService, Validate: validate}

	authMiddleware := auth.Middleware{Verifier: auth.Verifier{Secret: []byte(cfg.JWTSecret)}}
	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	promoSvc := &promo.Service{Q: queries}
	promoHandler := &promo.Handler{Q: queries, Admin: queries, Svc: promoSvc, Validate: validate}

	cartSvc := &cart.Service{
		Q:           queries,
		Promo:       promoSvc,
		TTL:         cfg.CartTTL,
		TaxBps:      cfg.PricingTaxBps,
		DeliveryFee: cfg.DeliveryFee,
	}
	cartHandler := &cart.Handler{Svc: cartSvc}

	notifyStore := notify.NewStore(queries)
	dispatcher := &notify.Dispatcher{
		Store:              notifyStore,
		Enqueuer:           &jobs.Enqueuer{Client: taskClient},
		Client:             notify.HttpClient(int(cfg.WebhookTimeout/time.Millisecond), false),
		DefaultMaxAttempts: cfg.WebhookMaxAttempts,
		Enabled:            cfg.WebhookDeliveryEnabled,
		Replay:             notify.RedisReplayProtector{Client: redisClient},
		ReplayTTL:          cfg.WebhookReplayTTL,
	}
	bus := &events.Bus{
		Store:     queries,
		Scheduler: dispatcher,
		Notifiers: []events.Notifier{notify.EmailNotifier{Mail: common.NopEmailSender{}, Enabled: true}},
	}
	notifyAdmin := &notify.AdminHandler{Store: notifyStore, Disp: dispatcher}

	razorpay := payment.Razorpay{
		KeyID:         cfg.RazorpayKeyID,
		KeySecret:     cfg.RazorpayKeySecret,
		WebhookSecret: cfg.RazorpayWebhookSecret,
	}
	paymentSvc := &payment.Service{Q: queries, Provider: razorpay, IntentTTL: cfg.PaymentIntentTTL}
	paymentHandler := &payment.Handler{Svc: paymentSvc, Q: queries}
	paymentWebhook := payment.Webhook{
		Q:         queries,
		Pool:      pool,
		Providers: map[string]payment.Provider{"razorpay": razorpay},
		Replay:    redisClient,
		ReplayTTL: cfg.WebhookReplayTTL,
		Promo:     promoSvc,
		Events:    bus,
	}

	checkoutSvc := &checkout.Service{
		Q:           queries,
		Pool:        pool,
		Promo:       promoSvc,
		Intents:     paymentSvc,
		TaxBps:      cfg.PricingTaxBps,
		DeliveryFee: cfg.DeliveryFee,
		Currency:    cfg.Currency,
		Events:      bus,
	}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc}

	rentalSvc := &rental.Service{Q: queries, Pool: pool, Events: bus}
	rentalHandler := &rental.Handler{Q: queries, Svc: rentalSvc}
	rentalAdmin := &rental.AdminHandler{Q: queries, Svc: rentalSvc}

	inventoryHandler := &inventory.Handler{Svc: &inventory.Service{Q: queries}}

	reportingHandler := &reporting.Handler{Svc: &reporting.Service{
		Q:            queries,
		R:            redisClient,
		TTL:          cfg.ReportingCacheTTL,
		DefaultRange: 30,
	}}

	slidingLimiter := ratelimit.Limiter{Client: redisClient, Prefix: "rl:"}
	onLimiterError := func(err error) {
		logger.Warn().Err(err).Msg("rate limiter degraded, letting request through")
	}
	promoLimit := ratelimit.Handler{
		Limiter: slidingLimiter,
		Config:  ratelimit.Config{Key: keyByIP("promo-apply"), Window: cfg.PromoApplyRateWindow, Max: cfg.PromoApplyRateMax},
		OnError: onLimiterError,
	}
	checkoutLimit := ratelimit.Handler{
		Limiter: slidingLimiter,
		Config:  ratelimit.Config{Key: keyByUser("checkout"), Window: cfg.CheckoutRateWindow, Max: cfg.CheckoutRateMax},
		OnError: onLimiterError,
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: true}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)
	r.Use(stdlibmw.NewMiddleware(globalLimiter).Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link", "X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if envBool("OBS_ENABLE_PPROF", true) {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{
		Checker:      readinessChecker{db: pool, redis: redisClient},
		DBTimeout:    envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/categories", catalogHandler.Categories)
		v.Get("/products", catalogHandler.Products)
		v.Get("/products/{slug}", catalogHandler.ProductDetail)

		v.With(promoLimit.Middleware).Post("/promotions/apply", promoHandler.Apply)

		v.Route("/carts", func(c chi.Router) {
			c.Use(authMiddleware.Authenticate)
			c.Get("/active", cartHandler.GetActive)
			c.Get("/{id}", cartHandler.Get)
			c.Group(func(g chi.Router) {
				g.Use(idem.Middleware)
				g.Post("/", cartHandler.Create)
				g.Post("/{id}/items", cartHandler.AddItem)
				g.Patch("/{id}/items/{itemId}", cartHandler.UpdateItem)
				g.Patch("/{id}/items/{itemId}/dates", cartHandler.UpdateItemDates)
				g.Delete("/{id}/items/{itemId}", cartHandler.RemoveItem)
				g.Put("/{id}/price-list", cartHandler.SetPriceList)
				g.Post("/{id}/promo", cartHandler.ApplyPromo)
				g.Delete("/{id}/promo", cartHandler.RemovePromo)
				g.With(authMiddleware.RequireAuth).Post("/merge", cartHandler.Merge)
			})
		})

		v.With(authMiddleware.RequireAuth, checkoutLimit.Middleware, idem.Middleware).
			Post("/checkout", checkoutHandler.Checkout)

		v.Group(func(authR chi.Router) {
			authR.Use(authMiddleware.RequireAuth)
			authR.Get("/rentals", rentalHandler.List)
			authR.Get("/rentals/{rentalId}", rentalHandler.Get)
			authR.Post("/rentals/{rentalId}/cancel", rentalHandler.Cancel)
		})

		v.Route("/payments", func(p chi.Router) {
			p.Use(authMiddleware.RequireAuth)
			p.With(idem.Middleware).Post("/intent", paymentHandler.Intent)
			p.Get("/{rentalId}/status", paymentHandler.Status)
		})

		v.Post("/webhooks/payment/{provider}", paymentWebhook.Handle)

		v.Route("/admin", func(admin chi.Router) {
			admin.Use(authMiddleware.RequireRole("admin"))
			admin.Post("/categories", catalogAdmin.CreateCategory)
			admin.Post("/products", catalogAdmin.CreateProduct)
			admin.Put("/products/{id}", catalogAdmin.UpdateProduct)
			admin.Patch("/products/{id}/active", catalogAdmin.SetProductActive)
			admin.Post("/products/import", catalogAdmin.ImportProducts)
			admin.Post("/promotions", promoHandler.Create)
			admin.Put("/promotions/{code}", promoHandler.Update)
			admin.Get("/promotions", promoHandler.List)
			admin.Get("/rentals", rentalAdmin.List)
			admin.Get("/reports/summary", reportingHandler.Summary)
			admin.Patch("/rentals/{id}/status", rentalAdmin.PatchStatus)
			admin.Post("/inventory/{productId}/adjust", inventoryHandler.Adjust)
			admin.Get("/inventory/{productId}/adjustments", inventoryHandler.Adjustments)
			admin.Get("/inventory/low-stock", inventoryHandler.LowStock)
			admin.Post("/webhooks", notifyAdmin.CreateEndpoint)
			admin.Put("/webhooks/{id}", notifyAdmin.UpdateEndpoint)
			admin.Get("/webhooks", notifyAdmin.ListEndpoints)
			admin.Delete("/webhooks/{id}", notifyAdmin.DeleteEndpoint)
			admin.Get("/webhook-deliveries", notifyAdmin.ListDeliveries)
			admin.Post("/webhook-deliveries/{id}/replay", notifyAdmin.ReplayDelivery)
		})
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	case <-runCtx.Done():
		health.SetReady(false)
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
		logger.Info().Msg("server stopped")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func asynqRedisOpt(redisURL string) asynq.RedisClientOpt {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	}
	return asynq.RedisClientOpt{Addr: opts.Addr, Password: opts.Password, DB: opts.DB}
}

func keyByIP(scope string) func(*http.Request) string {
	return func(r *http.Request) string {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		return scope + ":" + host
	}
}

// keyByUser falls back to the client IP for unauthenticated requests.
func keyByUser(scope string) func(*http.Request) string {
	byIP := keyByIP(scope)
	return func(r *http.Request) string {
		if userID, ok := common.UserID(r.Context()); ok {
			return scope + ":" + userID
		}
		return byIP(r)
	}
}

type readinessChecker struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func (c readinessChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	if c.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.Ping(ctx)
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/block", pprof.Handler("block"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/mutex", pprof.Handler("mutex"))
	mux.Handle("/threadcreate", pprof.Handler("threadcreate"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

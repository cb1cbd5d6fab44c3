package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"engagement-service/configs"
	"engagement-service/internal/engagement"
	"engagement-service/internal/friendship"
	"engagement-service/internal/kafka"
	"engagement-service/internal/migrate"
	"engagement-service/internal/notification"
	"engagement-service/internal/poll"
	"engagement-service/internal/post"
	"engagement-service/internal/ratelimit"
	"engagement-service/internal/shared/db"
	"engagement-service/internal/shared/httpx"
	"engagement-service/internal/shared/jwt"
	"engagement-service/internal/story"
	"engagement-service/internal/user"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

func initOTEL(ctx context.Context) func(context.Context) error {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "otel-collector:4318"
	}
	exp, err := otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		log.Fatalf("otel exporter: %v", err)
	}

	svcName := os.Getenv("OTEL_SERVICE_NAME")
	if svcName == "" {
		svcName = "engagement-service"
	}
	env := os.Getenv("ENV")
	if env == "" {
		env = "local"
	}

	res, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(svcName),
			attribute.String("deployment.environment", env),
		),
	)

	ratio := 1.0
	if s := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); s != "" {
		if f, e := strconv.ParseFloat(s, 64); e == nil && f >= 0 && f <= 1 {
			ratio = f
		}
	}

	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(ratio))),
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	)
	return tp.Shutdown
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := configs.LoadConfig()

	shutdown := initOTEL(ctx)
	defer func() {
		c, cc := context.WithTimeout(context.Background(), 5*time.Second)
		defer cc()
		_ = shutdown(c)
	}()

	store := db.Open(cfg.DSN())
	if err := migrate.AutoMigrateAll(store); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
	events := kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() { _ = events.Close() }()

	signer := jwt.New(cfg.JWTSecret)

	userRepo := user.NewRepository(store.DB)
	userSvc := user.NewService(userRepo, signer)

	notifRepo := notification.NewRepository(store.DB, rdb)
	notifSvc := notification.NewService(notifRepo)
	dispatcher := notification.NewDispatcher(notifRepo, userRepo, events)

	pollRepo := poll.NewRepository(store.DB)
	pollSvc := poll.NewService(pollRepo, userRepo, cfg.PollDurationHours)

	engRepo := engagement.NewRepository(store.DB, rdb)

	postRepo := post.NewRepository(store.DB)
	postSvc := post.NewService(postRepo, pollSvc, userRepo, engRepo, dispatcher)

	engSvc := engagement.NewService(engRepo, postRepo, postSvc, userRepo, dispatcher)

	friendRepo := friendship.NewRepository(store.DB)
	friendSvc := friendship.NewService(friendRepo, userRepo, dispatcher)

	storyRepo := story.NewRepository(store.DB)
	storySvc := story.NewService(storyRepo, userRepo, cfg.StoryTTLHours)

	userH := user.NewHandler(userSvc)
	friendH := friendship.NewHandler(friendSvc)
	postH := post.NewHandler(postSvc)
	engH := engagement.NewHandler(engSvc)
	pollH := poll.NewHandler(pollSvc)
	notifH := notification.NewHandler(notifSvc)
	storyH := story.NewHandler(storySvc)

	limiter := ratelimit.New(rdb)
	authed := func(fn httpx.HandlerFunc) http.Handler {
		return httpx.AuthMiddleware(signer,
			limiter.LimitHTTP(cfg.RateLimitPerMin, time.Minute, httpx.Wrap(fn)))
	}
	public := func(fn httpx.HandlerFunc) http.Handler { return httpx.Wrap(fn) }

	mux := http.NewServeMux()
	mux.Handle("POST /auth/register", public(userH.Register))
	mux.Handle("POST /auth/login", public(userH.Login))
	mux.Handle("GET /users/{id}", public(userH.Get))
	mux.Handle("GET /users", public(userH.Search))

	mux.Handle("POST /friends/requests", authed(friendH.SendRequest))
	mux.Handle("POST /friends/requests/{id}/accept", authed(friendH.Accept))
	mux.Handle("POST /friends/requests/{id}/reject", authed(friendH.Reject))
	mux.Handle("POST /friends/requests/{id}/cancel", authed(friendH.Cancel))
	mux.Handle("GET /friends/requests/sent", authed(friendH.Sent))
	mux.Handle("GET /friends/requests/received", authed(friendH.Received))
	mux.Handle("GET /friends", authed(friendH.Friends))
	mux.Handle("GET /users/{id}/friends", public(friendH.Friends))
	mux.Handle("DELETE /friends/{id}", authed(friendH.Unfriend))

	mux.Handle("POST /posts", authed(postH.Create))
	mux.Handle("GET /posts", public(postH.List))
	mux.Handle("GET /posts/{id}", public(postH.Get))
	mux.Handle("DELETE /posts/{id}", authed(postH.Delete))
	mux.Handle("POST /posts/{id}/comments", authed(postH.CreateComment))
	mux.Handle("GET /posts/{id}/comments", public(postH.Comments))
	mux.Handle("DELETE /comments/{id}", authed(postH.DeleteComment))

	mux.Handle("POST /posts/{id}/like", authed(engH.LikePost))
	mux.Handle("GET /posts/{id}/likes", public(engH.PostLikers))
	mux.Handle("POST /comments/{id}/like", authed(engH.LikeComment))
	mux.Handle("POST /posts/{id}/save", authed(engH.SavePost))
	mux.Handle("GET /saved", authed(engH.SavedPosts))

	mux.Handle("POST /posts/{id}/poll/vote", authed(pollH.Vote))
	mux.Handle("GET /posts/{id}/poll/results", public(pollH.Results))

	mux.Handle("GET /notifications", authed(notifH.List))
	mux.Handle("GET /notifications/unread", authed(notifH.UnreadCount))
	mux.Handle("POST /notifications/read-all", authed(notifH.MarkAllRead))
	mux.Handle("POST /notifications/{id}/read", authed(notifH.MarkRead))
	mux.Handle("DELETE /notifications/{id}", authed(notifH.Delete))

	mux.Handle("POST /stories", authed(storyH.Create))
	mux.Handle("GET /stories", public(storyH.List))
	mux.Handle("DELETE /stories/{id}", authed(storyH.Delete))
	mux.Handle("POST /stories/sweep", public(storyH.Sweep))

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           otelhttp.NewHandler(mux, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		log.Printf("engagement-service listening on %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Print("shutting down...")

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	_ = srv.Shutdown(shCtx)
	cancel()
}

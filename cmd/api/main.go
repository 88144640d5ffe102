package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	server "hostelhub/internal/adapters/http_server"
	"hostelhub/internal/adapters/notify"
	"hostelhub/internal/adapters/observability"
	redisad "hostelhub/internal/adapters/redis"
	"hostelhub/internal/adapters/token"
	"hostelhub/internal/app"
	"hostelhub/internal/shared"
	mongorepo "hostelhub/internal/storage/mongo"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("mongo ping failed")
	}
	repo := mongorepo.New(client.Database(cfg.MongoDB), cfg.StoreTimeout)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	log.Info().Msg("store connection ok")

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	var queue app.NotificationQueue
	if cfg.SMSBase != "" {
		sender, err := notify.NewClient(cfg.SMSBase, cfg.SMSKey, cfg.SMSRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("sms client init failed")
		}
		dispatcher := notify.NewDispatcher(sender, 256, 10*time.Second)
		defer dispatcher.Close()
		queue = dispatcher
	} else {
		log.Warn().Msg("SMS_BASE_URL not set, booking notifications disabled")
	}

	rooms := app.NewRoomService(repo, repo, cache, cfg.CacheTTL)
	bookings := app.NewBookingService(repo, repo, queue, cache)
	reports := app.NewReportService(repo, repo)
	identity := app.NewIdentityService(repo, tokens)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Rooms:    rooms,
		Bookings: bookings,
		Reports:  reports,
		Identity: identity,
		Tokens:   tokens,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

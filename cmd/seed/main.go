// Seeds the room inventory from a JSON file, e.g.:
//
//	go run ./cmd/seed -file rooms.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/semaphore"

	"hostelhub/internal/adapters/observability"
	redisad "hostelhub/internal/adapters/redis"
	"hostelhub/internal/app"
	"hostelhub/internal/domain"
	"hostelhub/internal/shared"
	mongorepo "hostelhub/internal/storage/mongo"
)

type seedRoom struct {
	Number        string   `json:"number"`
	Beds          int      `json:"beds"`
	Type          string   `json:"type"`
	Floor         int      `json:"floor"`
	SelfContained bool     `json:"selfContained"`
	Balcony       bool     `json:"balcony"`
	BasePrice     float64  `json:"basePrice"`
	SeasonalPrice *float64 `json:"seasonalPrice"`
	Amenities     []string `json:"amenities"`
}

func main() {
	file := flag.String("file", "rooms.json", "path to the room inventory file")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	rows, err := readRooms(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("reading inventory failed")
	}
	log.Info().
		Int("rooms", len(rows)).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("mongo ping failed")
	}
	repo := mongorepo.New(client.Database(cfg.MongoDB), cfg.StoreTimeout)
	if err := repo.EnsureIndexes(connectCtx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	rooms := app.NewRoomService(repo, repo, cache, cfg.CacheTTL)

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, row := range rows {
		row := row

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(r seedRoom) {
			defer wg.Done()
			defer sem.Release(int64(1))

			_, err := rooms.Create(ctx, domain.Room{
				Number:        r.Number,
				Beds:          r.Beds,
				Type:          domain.RoomType(r.Type),
				Floor:         r.Floor,
				SelfContained: r.SelfContained,
				Balcony:       r.Balcony,
				Available:     true,
				BasePrice:     r.BasePrice,
				SeasonalPrice: r.SeasonalPrice,
				Amenities:     r.Amenities,
			})
			if err != nil {
				log.Warn().Str("number", r.Number).Err(err).Msg("seed failed")
				return
			}
			log.Info().Str("number", r.Number).Msg("seed ok")
		}(row)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}

func readRooms(path string) ([]seedRoom, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []seedRoom
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

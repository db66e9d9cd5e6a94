// Command capacity prints the remaining milk capacity for a day from the Postgres store.
//
//	capacity [dd-mm-yyyy]
//
// Without an argument it reports today in CAPACITY_TIMEZONE.
package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/name-hansel/kore-ai-api/internal/app/api"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/adapters/http/mapper"
	orderspostgres "github.com/name-hansel/kore-ai-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/name-hansel/kore-ai-api/internal/domains/orders/application"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/validation"
	platformpostgres "github.com/name-hansel/kore-ai-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot compute capacity")
	}

	calculator := ordersapp.NewCapacityCalculator(orderspostgres.NewRepository(db), cfg.MaxDailyCapacity, cfg.CapacityLocation)
	day := domain.DayOf(time.Now(), calculator.Location())
	if len(os.Args) > 1 {
		day, err = validation.ParseDate(os.Args[1])
		if err != nil {
			log.Fatalf("%s: %v", os.Args[1], err)
		}
	}
	capacity, err := calculator.Remaining(ctx, day)
	if err != nil {
		log.Fatalf("failed to compute capacity: %v", err)
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(mapper.FromCapacity(capacity)); err != nil {
		log.Fatalf("failed to write capacity: %v", err)
	}
}

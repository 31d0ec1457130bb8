package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/geocoder89/adminpanel/internal/config"
	"github.com/geocoder89/adminpanel/internal/db"
	"github.com/geocoder89/adminpanel/internal/repo"
)

func main() {
	n := flag.Int("n", 50, "number of fake users to insert")
	seed := flag.Uint64("seed", 0, "faker seed, 0 picks a random one")
	flag.Parse()

	// the seeder never signs tokens
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrMissingJWTSecret) {
		log.Fatalf("config: %v", err)
	}

	if cfg.DBDriver == config.DriverMemory {
		log.Fatalf("seeding the memory driver has no effect; set DB_DRIVER to postgres or sqlite")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	store, err := repo.Open(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	defer store.Close()

	removed, err := db.SeedUsers(ctx, store, *n, gofakeit.New(*seed))
	if err != nil {
		log.Printf("seed stopped with error: %v", err)
		return
	}

	log.Printf("removed %d users, inserted %d", removed, *n)
}

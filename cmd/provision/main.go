// Command provision creates the seat grid for a center. One-shot
// administrative tool, run once per study room.
package main

import (
	"context"
	"flag"

	"studycafe/internal/config"
	"studycafe/internal/database"
	"studycafe/internal/logger"
	"studycafe/internal/repository"

	"github.com/joho/godotenv"
)

func main() {
	centerID := flag.Int64("center", 0, "center ID to provision seats for")
	rows := flag.Int("rows", 5, "number of seat rows")
	cols := flag.Int("cols", 10, "number of seat columns")
	flag.Parse()

	godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, "text")

	if *centerID <= 0 {
		logger.Fatal("A positive -center is required")
	}
	if *rows <= 0 || *cols <= 0 {
		logger.Fatal("-rows and -cols must be positive")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	seats := repository.NewSeatRepository(db)
	if err := seats.CreateGrid(context.Background(), *centerID, *rows, *cols); err != nil {
		logger.Fatal("Failed to create seat grid", "error", err)
	}

	logger.Get().Info("Seat grid created",
		"center_id", *centerID, "rows", *rows, "cols", *cols, "seats", (*rows)*(*cols))
}

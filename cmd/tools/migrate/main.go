package main

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"github.com/rentkart/backend-rentkart/internal/app"
)

// Applies database migrations. Usage:
//
//	migrate [up|down]
//
// MIGRATIONS_PATH overrides the default db/migrations source directory.
func main() {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	source := os.Getenv("MIGRATIONS_PATH")
	if source == "" {
		source = "file://db/migrations"
	}
	if !strings.Contains(source, "://") {
		source = "file://" + source
	}

	m, err := migrate.New(source, dbURL)
	if err != nil {
		log.Fatalf("initialise migrator: %v", err)
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		if sourceErr != nil {
			log.Printf("close migration source: %v", sourceErr)
		}
		if dbErr != nil {
			log.Printf("close migration database: %v", dbErr)
		}
	}()

	direction := "up"
	if len(os.Args) > 1 {
		direction = strings.ToLower(strings.TrimSpace(os.Args[1]))
	}

	switch direction {
	case "up":
		if err := app.RunMigrations(m); err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		log.Println("migrations applied")
	case "down":
		if err := m.Steps(-1); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				log.Println("nothing to roll back")
				return
			}
			log.Fatalf("migrate down: %v", err)
		}
		log.Println("rolled back one migration")
	default:
		log.Fatalf("unknown direction %q (want up or down)", direction)
	}
}

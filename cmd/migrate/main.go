package main

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2/log"

	"github.com/xydatalabs/orderpay/internal/pkg/database"
	"github.com/xydatalabs/orderpay/internal/pkg/env"
)

func main() {
	env.SetupEnvFile()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	log.Infof("[Migrate] connecting to %s@%s:%s/%s",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	db, err := database.Open(database.DSN())
	if err != nil {
		log.Fatalf("[Migrate] could not connect to database: %v", err)
	}

	switch command {
	case "up":
		if err := database.Migrate(db); err != nil {
			log.Fatalf("[Migrate] schema migration failed: %v", err)
		}
		log.Info("[Migrate] schema is up to date")

	case "seed":
		n, err := database.SeedProviders(db)
		if err != nil {
			log.Fatalf("[Migrate] seeding failed: %v", err)
		}
		if n == 0 {
			log.Info("[Migrate] payment providers already present, nothing seeded")
		} else {
			log.Infof("[Migrate] seeded %d payment provider(s)", n)
		}

	case "status":
		tables, err := database.Status(db)
		if err != nil {
			log.Fatalf("[Migrate] could not read status: %v", err)
		}
		for _, t := range tables {
			if !t.Exists {
				fmt.Printf("%-32s missing\n", t.Table)
				continue
			}
			fmt.Printf("%-32s %d row(s)\n", t.Table, t.Rows)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: go run cmd/migrate/main.go [command]")
	fmt.Println("Commands:")
	fmt.Println("  up     - create or update the payment tables")
	fmt.Println("  seed   - insert the default payment providers into an empty table")
	fmt.Println("  status - show every payment table and its row count")
}

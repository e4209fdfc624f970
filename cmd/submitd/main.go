package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/navkeep/submitd/internal/app"
)

func main() {
	// Local development convenience; the real deployment injects env vars.
	_ = godotenv.Load()

	if err := app.New().Run(); err != nil {
		log.Fatalf("submitd failed to start: %v", err)
	}
}

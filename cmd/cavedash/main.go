// Package main is the entry point for CaveDash.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/samdwyer/cavedash/internal/game"
	"github.com/samdwyer/cavedash/internal/gamedata"
	"github.com/samdwyer/cavedash/internal/telemetry"
)

func main() {
	schema := flag.Bool("schema", false, "print the level file JSON schema and exit")
	levels := flag.String("levels", "", "JSON level pack replacing the built-in levels")
	random := flag.Int("random", -1, "number of generated caves appended to the levels")
	flag.Parse()

	if *schema {
		out, err := gamedata.LevelSchemaJSON()
		if err != nil {
			log.Fatalf("Failed to build schema: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	// Load .env file for local development
	// This makes HONEYCOMB_CAVEDASH_API_KEY and the CAVEDASH_* settings available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := game.ConfigFromEnv(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *levels != "" {
		cfg.LevelPack = *levels
	}
	if *random >= 0 {
		cfg.RandomLevels = *random
	}

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Game will run without observability")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	// Create and run game
	g, err := game.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize game: %v", err)
	}
	defer g.Close()

	if err := g.Run(ctx); err != nil {
		log.Printf("Game error: %v", err)
	}
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	// Always set endpoint to Honeycomb
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	// Always set headers from our API key - the .env file may have an unexpanded
	// variable reference that doesn't work, so we construct it properly here
	apiKey := os.Getenv("HONEYCOMB_CAVEDASH_API_KEY")
	dataset := os.Getenv("HONEYCOMB_CAVEDASH_DATASET")
	if dataset == "" {
		dataset = "cavedash" // default dataset name
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}

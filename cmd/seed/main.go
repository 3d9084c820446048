// Command seed creates sample bookings through a running server and checks that both
// booking identifiers resolve.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joy095/bayelite/config"
	"github.com/joy095/bayelite/logger"
)

func main() {
	config.LoadEnv()

	apiURL := flag.String("api", config.GetEnv("SEED_API_URL", "http://localhost:"+config.GetEnv("PORT", "3001")), "booking server base URL")
	frontendURL := flag.String("frontend", config.GetEnv("FRONTEND_URL", "http://localhost:5080"), "frontend base URL for printed edit links")
	probeOnly := flag.Bool("probe", false, "only list bookings and probe id lookups")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s := &seeder{
		baseURL: strings.TrimRight(*apiURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}

	if !*probeOnly {
		logger.InfoLogger.Info("--- Seeding Bookings ---")
		created, err := s.create(ctx, sampleBookings(time.Now()))
		if err != nil {
			logger.ErrorLogger.Errorf("Seeding stopped: %v", err)
			os.Exit(1)
		}
		for _, id := range created {
			logger.InfoLogger.Infof("Edit URL: %s/edit-ride/%s", strings.TrimRight(*frontendURL, "/"), id)
		}
	}

	logger.InfoLogger.Info("--- Testing Fetch by ID ---")
	if _, _, err := s.probe(ctx); err != nil {
		logger.ErrorLogger.Errorf("Probe failed: %v", err)
		os.Exit(1)
	}
}

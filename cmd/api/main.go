package main

import (
	"context"
	"log"
	"os"

	"dishlog/internal/db"
	"dishlog/internal/llm"
	"dishlog/internal/photo"
	"dishlog/internal/receipt"
	"dishlog/internal/restaurant"
	"dishlog/internal/router"
	"dishlog/internal/social"
	"dishlog/internal/stats"

	"github.com/joho/godotenv"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"DATABASE_URL",
		"GEMINI_API_KEY",
		"GEMINI_MODEL",
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("❌ Missing env var: %s", k)
		}
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	// ───────────────────────── REPOS ─────────────────────────
	restaurantRepo := restaurant.NewPostgresRepository(pgDB)
	receiptRepo := receipt.NewPostgresRepository(pgDB)
	photoRepo := photo.NewPostgresRepository(pgDB)
	socialRepo := social.NewPostgresRepository(pgDB)

	// ───────────────────────── SERVICES ─────────────────────────
	restaurantService := restaurant.NewService(restaurantRepo)
	photoService := photo.NewService(photoRepo, receiptRepo)
	receiptService := receipt.NewService(receiptRepo, restaurantService, photoService)
	socialService := social.NewService(socialRepo, photoRepo)
	statsService := stats.NewService(receiptRepo, restaurantRepo, photoRepo)

	if err := socialService.EnsureTestUser(context.Background()); err != nil {
		log.Fatal("❌ Test user seed failed:", err)
	}

	extractor := llm.NewExtractor(llm.NewGeminiClient())

	// ───────────────────────── ROUTER ─────────────────────────
	r := router.NewRouter(router.Deps{
		Restaurants: restaurant.NewHandler(restaurantService),
		Receipts:    receipt.NewHandler(receiptService, extractor),
		Photos:      photo.NewHandler(photoService),
		Social:      social.NewHandler(socialService),
		Stats:       stats.NewHandler(statsService),
	})

	// ───────────────────────── START ─────────────────────────
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Println("🚀 API running at http://localhost:" + port)
	r.Run(":" + port)
}

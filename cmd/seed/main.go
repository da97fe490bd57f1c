package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"sevaportal/internal/auth"
	"sevaportal/internal/catalog"
	"sevaportal/internal/config"
	"sevaportal/internal/db"
	"sevaportal/internal/model"
	"sevaportal/internal/repository"
	"sevaportal/internal/service"
)

// SeedServiceData is one catalog entry as served by a remote catalog feed.
type SeedServiceData struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Price          string   `json:"price"`
	ProcessingTime string   `json:"processing_time"`
	Requirements   []string `json:"requirements"`
	Icon           string   `json:"icon"`
	Badge          string   `json:"badge"`
	BadgeColor     string   `json:"badge_color"`
}

func main() {
	catalogURL := flag.String("catalog-url", "", "fetch catalog entries from this JSON feed instead of the built-in catalog")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	services := catalog.Services()
	if *catalogURL != "" {
		log.Printf("Fetching catalog from: %s", *catalogURL)
		items, err := fetchCatalogFromAPI(*catalogURL)
		if err != nil {
			log.Fatalf("Failed to fetch catalog: %v", err)
		}
		services = toModels(items)
		log.Printf("Fetched %d catalog entries", len(services))
	}

	ctx := context.Background()
	serviceRepo := repository.NewServiceRepository(gormDB)

	log.Println("Seeding services into database...")
	created, skipped, err := seedServices(ctx, serviceRepo, services)
	if err != nil {
		log.Fatalf("Failed to seed services: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New services created: %d", created)
	log.Printf("  - Existing services kept: %d", skipped)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		users := repository.NewUserRepository(gormDB)
		authService := service.NewAuthService(users, auth.NewJWTService(cfg.JWTSecret), auth.NewMemoryTokenStore(), nil, cfg.ReferralReward)
		if _, err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatalf("Failed to ensure admin: %v", err)
		}
		log.Printf("  - Admin account: %s", cfg.AdminUsername)
	}
}

// fetchCatalogFromAPI fetches catalog entries from an external feed.
func fetchCatalogFromAPI(url string) ([]SeedServiceData, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var items []SeedServiceData
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return items, nil
}

// toModels converts feed entries, skipping ones without a name, category or
// parseable price.
func toModels(items []SeedServiceData) []model.Service {
	out := make([]model.Service, 0, len(items))
	skipped := 0
	for _, item := range items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil || strings.TrimSpace(item.Name) == "" || item.Category == "" {
			log.Printf("Skipping catalog entry %q", item.Name)
			skipped++
			continue
		}
		out = append(out, model.Service{
			Name:           item.Name,
			Description:    item.Description,
			Category:       item.Category,
			Price:          price,
			ProcessingTime: item.ProcessingTime,
			Requirements:   item.Requirements,
			Icon:           item.Icon,
			Badge:          item.Badge,
			BadgeColor:     item.BadgeColor,
		})
	}
	if skipped > 0 {
		log.Printf("Skipped %d invalid catalog entries", skipped)
	}
	return out
}

// seedServices inserts services whose name is not already present.
func seedServices(ctx context.Context, repo repository.ServiceRepository, services []model.Service) (created int, skipped int, err error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("error listing services: %w", err)
	}
	names := make(map[string]bool, len(existing))
	for _, svc := range existing {
		names[strings.ToLower(svc.Name)] = true
	}

	for i := range services {
		svc := services[i]
		if names[strings.ToLower(svc.Name)] {
			skipped++
			continue
		}
		if err := repo.Create(ctx, &svc); err != nil {
			return created, skipped, fmt.Errorf("error creating service %q: %w", svc.Name, err)
		}
		names[strings.ToLower(svc.Name)] = true
		created++
	}
	return created, skipped, nil
}

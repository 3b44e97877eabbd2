package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedCategories(ctx, pool)
	seedProducts(ctx, pool)
	seedPromotions(ctx, pool)

	log.Println("Seeding completed successfully!")
}

func seedCategories(ctx context.Context, pool *pgxpool.Pool) {
	categories := []struct {
		Name string
		Slug string
	}{
		{"Cameras & Lenses", "cameras"},
		{"Power Tools", "power-tools"},
		{"Camping & Outdoor", "camping"},
		{"Party & Events", "party-events"},
		{"Musical Instruments", "instruments"},
		{"Appliances", "appliances"},
		{"Sports Gear", "sports"},
	}

	log.Println("Seeding categories...")
	for _, c := range categories {
		if _, err := pool.Exec(ctx, `
			INSERT INTO categories (name, slug)
			VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		`, c.Name, c.Slug); err != nil {
			log.Printf("Failed to upsert category %s: %v", c.Name, err)
		}
	}
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool) {
	// unit prices are in paise
	products := []struct {
		Title    string
		Slug     string
		Category string
		Price    int64
		Unit     string
		Stock    int32
	}{
		{"Sony A7 IV Mirrorless Camera", "sony-a7-iv", "cameras", 250000, "day", 6},
		{"Canon RF 24-70mm f/2.8 Lens", "canon-rf-24-70", "cameras", 90000, "day", 10},
		{"DJI Mavic 3 Drone", "dji-mavic-3", "cameras", 350000, "day", 4},
		{"Godox SL-60W Studio Light", "godox-sl60w", "cameras", 40000, "day", 12},
		{"Bosch GSB 18V Impact Drill", "bosch-gsb-18v", "power-tools", 30000, "day", 15},
		{"Makita Circular Saw", "makita-circular-saw", "power-tools", 45000, "day", 8},
		{"Karcher K4 Pressure Washer", "karcher-k4", "power-tools", 60000, "day", 5},
		{"Quechua 4-Person Tent", "quechua-tent-4p", "camping", 50000, "day", 20},
		{"Coleman Camping Stove", "coleman-stove", "camping", 25000, "day", 14},
		{"Trekking Backpack 60L", "trekking-backpack-60l", "camping", 20000, "day", 25},
		{"JBL PartyBox 310 Speaker", "jbl-partybox-310", "party-events", 120000, "day", 7},
		{"Projector Full HD", "projector-fullhd", "party-events", 80000, "day", 9},
		{"Folding Chair Set (10 pcs)", "folding-chairs-10", "party-events", 35000, "day", 30},
		{"Yamaha P-125 Digital Piano", "yamaha-p125", "instruments", 100000, "week", 3},
		{"Fender Stratocaster Guitar", "fender-strat", "instruments", 70000, "week", 5},
		{"Portable AC 1.5 Ton", "portable-ac-15t", "appliances", 150000, "month", 10},
		{"Double-Door Refrigerator", "fridge-double-door", "appliances", 120000, "month", 6},
		{"Treadmill Motorised", "treadmill-motorised", "sports", 90000, "month", 8},
		{"Mountain Bike 29er", "mtb-29er", "sports", 40000, "day", 12},
	}

	log.Println("Seeding products...")
	for _, p := range products {
		if _, err := pool.Exec(ctx, `
			INSERT INTO products (title, slug, category_id, unit_price, pricing_unit, stock, active)
			VALUES ($1, $2, (SELECT id FROM categories WHERE slug = $3), $4, $5, $6, true)
			ON CONFLICT (slug) DO UPDATE SET
				unit_price = EXCLUDED.unit_price,
				pricing_unit = EXCLUDED.pricing_unit,
				stock = EXCLUDED.stock,
				category_id = EXCLUDED.category_id
		`, p.Title, p.Slug, p.Category, p.Price, p.Unit, p.Stock); err != nil {
			log.Printf("Failed to seed product %s: %v", p.Title, err)
		}
	}
}

func seedPromotions(ctx context.Context, pool *pgxpool.Pool) {
	log.Println("Seeding promotions...")

	fixed := []struct {
		Code     string
		Value    int64
		MinSpend int64
	}{
		{"RENT50", 5000, 50000},
		{"WELCOME100", 10000, 100000},
	}
	for _, p := range fixed {
		if _, err := pool.Exec(ctx, `
			INSERT INTO promotions (code, kind, value, min_spend, valid_from, valid_to, active)
			VALUES ($1, 'fixed', $2, $3, now(), now() + interval '1 year', true)
			ON CONFLICT (code) DO NOTHING
		`, p.Code, p.Value, p.MinSpend); err != nil {
			log.Printf("Failed to seed promotion %s: %v", p.Code, err)
		}
	}

	if _, err := pool.Exec(ctx, `
		INSERT INTO promotions (code, kind, percent_bps, min_spend, usage_limit, per_user_limit, valid_from, valid_to, active)
		VALUES ('FESTIVE10', 'percentage', 1000, 0, 500, 2, now(), now() + interval '90 days', true)
		ON CONFLICT (code) DO NOTHING
	`); err != nil {
		log.Printf("Failed to seed promotion FESTIVE10: %v", err)
	}
}

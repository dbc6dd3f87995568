package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/penzolll/umi-kelontong-digital-siap/cache"
	kafkax "github.com/penzolll/umi-kelontong-digital-siap/kafka"
	"github.com/penzolll/umi-kelontong-digital-siap/model"
	"github.com/penzolll/umi-kelontong-digital-siap/routes"
	"github.com/penzolll/umi-kelontong-digital-siap/service"
)

// INIT DATABASE
func initDB() *gorm.DB {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	pass := getEnv("DB_PASS", "postgres")
	name := getEnv("DB_NAME", "umistore")

	dsn := "host=" + host + " user=" + user + " password=" + pass +
		" dbname=" + name + " port=" + port +
		" sslmode=disable TimeZone=UTC"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect db:", err)
	}

	// AutoMigrate models
	err = db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryTransaction{},
	)
	if err != nil {
		log.Fatal(err)
	}

	return db
}

func main() {
	db := initDB()
	store := cache.Connect()
	producer := kafkax.NewProducer()

	ledger := &service.OrderLedger{DB: db, Cache: store, Producer: producer}
	inventory := &service.Inventory{DB: db, Cache: store, Producer: producer}
	catalog := &service.Catalog{DB: db, Cache: store}

	app := fiber.New()
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.RegisterAuthRoutes(app, db)
	routes.RegisterProductRoutes(app, catalog)
	routes.RegisterCategoryRoutes(app, catalog)
	routes.RegisterOrderRoutes(app, ledger)
	routes.RegisterInventoryRoutes(app, inventory)

	port := getEnv("PORT", "3000")
	log.Println("HTTP server running on port " + port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("fiber error:", err)
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

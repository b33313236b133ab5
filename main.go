package main

import (
	"log"
	"os"

	"orderdesk/analysis"
	"orderdesk/db"
	"orderdesk/history"
	"orderdesk/routes"
	"orderdesk/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// insightGenerator is the external model collaborator. The embedding
// application wires a real client here; until then the analysis endpoint
// reports itself unavailable.
var insightGenerator analysis.Generator

func main() {
	dbPath := envOr("ORDERDESK_DB", "database.db")
	addr := envOr("ORDERDESK_ADDR", ":3000")

	database, err := db.Open(dbPath)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatal("failed to initialize schema: ", err)
	}
	log.Println("database ready at", dbPath)

	actionLog, err := history.Open("logs")
	if err != nil {
		log.Fatal("failed to open action log: ", err)
	}
	defer actionLog.Close()

	g := database.Gorm()
	orders := store.NewOrderStore(g)

	deps := routes.Deps{
		Customers: store.NewCustomerStore(g),
		Products:  store.NewProductStore(g),
		Orders:    orders,
		Reports:   store.NewReportStore(g),
		History:   actionLog,
	}
	if insightGenerator != nil {
		deps.Analysis = analysis.NewService(orders, insightGenerator)
	}

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	routes.Setup(app, deps)

	log.Fatal(app.Listen(addr))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

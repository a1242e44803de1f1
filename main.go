package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/nosij-playz/Tantra-backend/db"
	hDashboard "github.com/nosij-playz/Tantra-backend/handlers/dashboard"
	hDepartments "github.com/nosij-playz/Tantra-backend/handlers/departments"
	hEvents "github.com/nosij-playz/Tantra-backend/handlers/events"
	hExports "github.com/nosij-playz/Tantra-backend/handlers/exports"
	"github.com/nosij-playz/Tantra-backend/handlers/health"
	hParticipants "github.com/nosij-playz/Tantra-backend/handlers/participants"
	mw "github.com/nosij-playz/Tantra-backend/middleware"
	"github.com/nosij-playz/Tantra-backend/store"
	"github.com/nosij-playz/Tantra-backend/uploads"
)

func main() {
	_ = godotenv.Load()

	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = ":8000"
	}
	// Base link used when constructing absolute URLs for saved uploads.
	// Point this at the deployment base URL in production.
	baseURL := os.Getenv("CURR_LINK")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8000"
	}
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "static"
	}

	ctx := context.Background()
	client := db.MustClient(ctx)
	defer client.Close()
	st := store.NewFirestore(client)

	up, err := uploads.NewService(baseURL, staticDir)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to prepare upload folders")
	}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(mw.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))

	app.Static("/static", staticDir)
	app.Get("/healthz", health.Health())

	// --- Dashboard ---
	app.Get("/", hDashboard.Index(st))

	// --- Departments ---
	app.Get("/add_department", hDepartments.List(st))
	app.Post("/add_department", hDepartments.Create(st, up))

	// --- Events ---
	app.Get("/dept_events/:dept_id", hEvents.ByDepartment(st))
	app.Get("/event/:event_id", hEvents.Get(st))
	app.Get("/add_event", hDepartments.List(st))
	app.Post("/add_event", hEvents.Create(st, up))
	app.Post("/toggle_event_status", hEvents.ToggleStatus(st))

	// --- Participants & exports ---
	app.Get("/view_participants", hParticipants.View(st))
	app.Get("/view_registrations", hParticipants.ViewRegistrations(st))
	app.Get("/export_participants", hExports.Export(st))

	// --- Maintenance ---
	app.Get("/db_content", hEvents.DBContent(st))
	app.Get("/fix_events", hEvents.Orphans(st))
	app.Post("/fix_events", hEvents.Reassign(st))

	log.Info().Str("addr", addr).Msg("listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server stopped")
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/database"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/http/handlers"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/http/middleware"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/integration/crm"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/integration/leadapi"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/mail"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/queue"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/session"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/worker"
	"github.com/prakashdas-pd/apexbridge-leads/internal/usecase"
	"github.com/prakashdas-pd/apexbridge-leads/internal/wizard"
)

func main() {
	godotenv.Load()

	ctx := context.Background()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "guest"),
		envOr("RABBITMQ_PASS", "guest"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	redisClient, err := session.NewRedisClient(
		envOr("REDIS_ADDR", "localhost:6379"),
		os.Getenv("REDIS_PASSWORD"),
		0,
	)
	if err != nil {
		log.Fatal(err)
	}
	defer redisClient.Close()

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	applicationRepo := database.NewApplicationRepository(db)
	adminRepo := database.NewAdminRepository(db)

	if err := adminRepo.SeedDefaults(ctx, map[string]string{
		"admin":   envOr("ADMIN_PASSWORD", "admin123"),
		"manager": envOr("MANAGER_PASSWORD", "manager123"),
		"support": envOr("SUPPORT_PASSWORD", "support123"),
	}); err != nil {
		log.Fatal(err)
	}

	// 2. Gateways and adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		envOr("SALES_EMAIL", "sales@apexbridge.io"),
	)
	crmClient := crm.NewClient()
	sessionStore := session.NewRedisStore(redisClient)
	tokens := session.NewTokenManager(envOr("JWT_SECRET", "dev-secret-change-me"))

	// 3. Workers
	notifWorker := queue.NewWorker(rabbitMQ.Ch, crmClient, mailSender)
	go notifWorker.Start(queue.QueueName)

	expiryWorker := worker.NewBookingExpiryWorker(db)
	go expiryWorker.Start(ctx)

	// 4. UseCases
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, producer)
	createBookingUC := usecase.NewCreateBookingUseCase(bookingRepo, leadRepo, producer)
	submitApplicationUC := usecase.NewSubmitApplicationUseCase(applicationRepo, producer)
	loginUC := usecase.NewLoginUseCase(adminRepo, sessionStore, tokens)

	// 5. Wizard sessions and the submission pipeline
	wizardStore := wizard.NewStore(30 * time.Minute)
	submitter := leadapi.NewClient(envOr("LEAD_API_URL", "http://localhost:"+envOr("PORT", "8080")))

	// 6. Handlers
	uploadDir := envOr("UPLOAD_DIR", "uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatal(err)
	}

	leadHandler := handlers.NewLeadHandler(createLeadUC)
	bookingHandler := handlers.NewBookingHandler(createBookingUC)
	applicationHandler := handlers.NewApplicationHandler(submitApplicationUC, uploadDir)
	wizardHandler := handlers.NewWizardHandler(wizardStore, submitter)
	authHandler := handlers.NewAuthHandler(loginUC)
	adminHandler := handlers.NewAdminHandler(leadRepo, bookingRepo, applicationRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, redisClient, wizardStore)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{envOr("FRONTEND_ORIGIN", "http://localhost:5173"), "*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/leads/contact", leadHandler.HandleCreateContact)
		r.Post("/leads/service-inquiry", leadHandler.HandleCreateServiceInquiry)
		r.Post("/leads/booking", bookingHandler.HandleCreate)
		r.Post("/careers/applications", applicationHandler.HandleSubmit)

		r.Route("/wizard", func(r chi.Router) {
			r.Post("/{kind}", wizardHandler.HandleCreate)
			r.Get("/{id}", wizardHandler.HandleGet)
			r.Put("/{id}/fields", wizardHandler.HandleSetFields)
			r.Put("/{id}/resume", wizardHandler.HandleAttachResume)
			r.Post("/{id}/next", wizardHandler.HandleNext)
			r.Post("/{id}/previous", wizardHandler.HandlePrevious)
			r.Post("/{id}/submit", wizardHandler.HandleSubmit)
			r.Delete("/{id}", wizardHandler.HandleDiscard)
		})

		r.Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokens, sessionStore))

			r.Post("/auth/logout", authHandler.HandleLogout)
			r.Get("/auth/me", authHandler.HandleMe)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/leads", adminHandler.HandleListLeads)
				r.Get("/leads/{id}", adminHandler.HandleGetLead)
				r.Patch("/leads/{id}/status", adminHandler.HandleUpdateLeadStatus)
				r.Delete("/leads/{id}", adminHandler.HandleDeleteLead)

				r.Get("/bookings", adminHandler.HandleListBookings)
				r.Get("/bookings/{id}", adminHandler.HandleGetBooking)
				r.Patch("/bookings/{id}/status", adminHandler.HandleUpdateBookingStatus)

				r.Get("/applications", adminHandler.HandleListApplications)
				r.Get("/applications/{id}", adminHandler.HandleGetApplication)
				r.Patch("/applications/{id}/status", adminHandler.HandleUpdateApplicationStatus)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(entity.RoleSuperAdmin))
					r.Delete("/leads", adminHandler.HandleClearLeads)
				})
			})
		})
	})

	port := ":" + envOr("PORT", "8080")
	log.Printf("🔥 ApexBridge leads API listening on %s", port)
	if err := http.ListenAndServe(port, r); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bloodlink-dev/bloodlink/backend/internal/setup"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/middleware/metrics"
	rl "github.com/bloodlink-dev/bloodlink/shared/middleware/ratelimiter"
)

// New creates and configures a chi router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit request for all endpoints combined in that group
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(metrics.Middleware)

	// JSON API only, no scripts/styles needed
	backendCSP := "default-src 'none'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.SecureCookies, backendCSP))

	h := deps.Handler
	authMw := deps.AuthMiddleware
	adminOnly := mw.RequireRoles(domain.RoleAdmin)

	// Shared between groups so the limit is per user across the whole API
	perUser := rl.Rps100()
	needAuth := func(r chi.Router) {
		r.Use(authMw.NeedAuth())
		r.Use(mw.RateLimit(perUser, mw.GetUserIDFromContext)) // 100 RPS per user
	}

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			// Registration: 1 per 10 sec by email and by IP
			auth.Group(func(reg chi.Router) {
				reg.Use(mw.RateLimit(rl.New(1.0/10, 1, 1*time.Hour), mw.GetEmailFromBody))
				reg.Use(mw.RateLimit(rl.New(1.0/10, 1, 1*time.Hour), mw.GetIP))
				reg.Use(mw.GlobalRateLimit(rl.Rps100()))
				reg.Post("/register", h.Register)
			})

			auth.Group(func(login chi.Router) {
				login.Use(mw.RateLimit(rl.OnceInSecond(), mw.GetIP))
				login.Use(mw.GlobalRateLimit(rl.Rps1000()))
				login.Post("/login", h.Login)
			})

			// Logout (no rate limits)
			auth.Post("/logout", h.Logout)

			auth.Group(func(me chi.Router) {
				me.Use(authMw.NeedAuth())
				me.Use(mw.RateLimit(rl.Rps10(), mw.GetUserIDFromContext))
				me.Get("/me", h.Me)
				me.Put("/password", h.ChangePassword)
			})
		})

		api.Route("/users", func(users chi.Router) {
			users.Get("/{id}/avatar", h.Avatar)

			users.Group(func(r chi.Router) {
				needAuth(r)
				r.Put("/me", h.UpdateProfile)
				r.With(mw.RateLimit(rl.OnceInSecond(), mw.GetUserIDFromContext)).Post("/me/avatar", h.UploadAvatar)

				r.With(mw.RequireRoles(domain.RoleAdmin, domain.RoleStaff)).Get("/", h.ListUsers)
				r.With(mw.RequireRoles(domain.RoleAdmin, domain.RoleStaff)).Get("/{id}", h.GetUser)
				r.With(adminOnly).Post("/{id}/block", h.BlockUser)
				r.With(adminOnly).Delete("/{id}/block", h.UnblockUser)
				r.With(adminOnly).Post("/{id}/suspend", h.SuspendUser)
				r.With(adminOnly).Delete("/{id}/suspend", h.UnsuspendUser)
			})
		})

		// Logged-in user routes
		api.Group(func(loggedIn chi.Router) {
			needAuth(loggedIn)

			loggedIn.Route("/donors", func(r chi.Router) {
				donorOnly := mw.RequireRoles(domain.RoleDonor)
				r.With(donorOnly).Post("/", h.RegisterDonor)
				r.Get("/", h.ListDonors)
				r.With(donorOnly).Get("/me", h.MyDonorProfile)
				r.With(donorOnly).Patch("/me/availability", h.SetAvailability)
				r.Get("/{id}", h.GetDonor)
				r.With(mw.RequireRoles(domain.RoleDonor, domain.RoleAdmin)).Put("/{id}", h.UpdateDonor)
				r.With(mw.RequireRoles(domain.RoleBloodBank, domain.RoleAdmin)).Post("/{id}/donations", h.RecordDonation)
				r.With(adminOnly).Delete("/{id}", h.DeleteDonor)
			})

			loggedIn.Route("/bloodbanks", func(r chi.Router) {
				bankOnly := mw.RequireRoles(domain.RoleBloodBank)
				r.With(bankOnly).Post("/", h.RegisterBloodBank)
				r.Get("/", h.ListBloodBanks)
				r.With(bankOnly).Get("/me", h.MyBloodBank)
				r.Get("/{id}", h.GetBloodBank)
				r.With(mw.RequireRoles(domain.RoleBloodBank, domain.RoleAdmin)).Put("/{id}", h.UpdateBloodBank)
				r.With(adminOnly).Patch("/{id}/status", h.SetBloodBankStatus)
				r.With(adminOnly).Patch("/{id}/block", h.BlockBloodBank)
				r.With(adminOnly).Patch("/{id}/suspend", h.SuspendBloodBank)
			})

			loggedIn.Route("/patients", func(r chi.Router) {
				r.Use(mw.RequireRoles(domain.RoleBloodBank))
				r.Post("/", h.CreatePatient)
				r.Get("/", h.ListPatients)
				r.Get("/{id}", h.GetPatient)
				r.Put("/{id}", h.UpdatePatient)
				r.Delete("/{id}", h.DeletePatient)
			})

			loggedIn.Route("/donation-requests", func(r chi.Router) {
				r.With(mw.RequireRoles(domain.RoleBloodBank, domain.RoleAdmin)).Post("/", h.CreateDonationRequest)
				r.Get("/", h.ListDonationRequests)
				r.Get("/{id}", h.GetDonationRequest)
				r.Patch("/{id}/status", h.UpdateDonationRequestStatus)
				r.With(mw.RequireRoles(domain.RoleDonor)).Post("/{id}/book", h.BookDonationRequest)
			})

			loggedIn.Route("/bookings", func(r chi.Router) {
				// 1 booking per second per donor
				r.With(
					mw.RequireRoles(domain.RoleDonor),
					mw.RateLimit(rl.OnceInSecond(), mw.GetUserIDFromContext),
				).Post("/", h.CreateBooking)
				r.Get("/", h.ListBookings)
				r.Get("/slots", h.Slots)
				r.Get("/{id}", h.GetBooking)
				r.Patch("/{id}/status", h.UpdateBookingStatus)
			})

			loggedIn.Route("/inventory", func(r chi.Router) {
				r.Use(mw.RequireRoles(domain.RoleBloodBank))
				r.Post("/", h.CreateInventory)
				r.Get("/", h.ListInventory)
				r.Get("/summary", h.InventorySummary)
				r.Get("/expiring", h.ExpiringInventory)
				// XLSX rendering is heavier than the rest
				r.With(mw.RateLimit(rl.OnceInSecond(), mw.GetUserIDFromContext)).Get("/export", h.ExportInventory)
				r.Get("/{id}", h.GetInventory)
				r.Put("/{id}", h.UpdateInventory)
				r.Patch("/{id}/status", h.SetInventoryStatus)
				r.Delete("/{id}", h.DeleteInventory)
			})

			loggedIn.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.ListNotifications)
				r.Get("/unread-count", h.UnreadCount)
				r.Patch("/read-all", h.MarkAllNotificationsRead)
				r.Patch("/{id}/read", h.MarkNotificationRead)
				r.Delete("/{id}", h.DeleteNotification)
			})

			loggedIn.Route("/reviews", func(r chi.Router) {
				r.With(mw.RateLimit(rl.OnceInSecond(), mw.GetUserIDFromContext)).Post("/", h.CreateReview)
				r.Get("/", h.ListReviews)
				r.Get("/summary", h.ReviewSummary)
				r.Delete("/{id}", h.DeleteReview)
			})

			loggedIn.Route("/chat/conversations", func(r chi.Router) {
				r.Post("/", h.StartConversation)
				r.Get("/", h.ListConversations)
				r.Get("/{id}/messages", h.ListMessages)
				// SendMessage: 1 per second per user
				r.With(mw.RateLimit(rl.New(1, 1, 1*time.Hour), mw.GetUserIDFromContext)).Post("/{id}/messages", h.SendMessage)
				r.Patch("/{id}/read", h.MarkConversationRead)
			})

			loggedIn.Route("/taxi", func(r chi.Router) {
				r.Use(mw.RequireRoles(domain.RoleDonor, domain.RoleAdmin))
				r.Post("/", h.CreateTaxi)
				r.Get("/", h.ListTaxis)
				r.Get("/{id}", h.GetTaxi)
				r.Patch("/{id}/status", h.UpdateTaxiStatus)
				r.With(mw.RateLimit(rl.OnceInMinute(), mw.GetUserIDFromContext)).Post("/{id}/payment/order", h.CreatePaymentOrder)
				r.Post("/{id}/payment/verify", h.VerifyPayment)
			})
		})
	})

	return r
}

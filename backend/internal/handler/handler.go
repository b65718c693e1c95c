package handler

import (
	"context"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service"
	"github.com/bloodlink-dev/bloodlink/shared/config"
)

// HealthChecker is a dependency the readiness probe pings.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Services groups the services the HTTP layer talks to.
type Services struct {
	Auth             service.AuthService
	Users            service.UserService
	Donors           service.DonorService
	BloodBanks       service.BloodBankService
	Patients         service.PatientService
	DonationRequests service.DonationRequestService
	Bookings         service.BookingService
	Inventory        service.InventoryService
	Notifications    service.NotificationService
	Reviews          service.ReviewService
	Chat             service.ChatService
	Taxi             service.TaxiService
}

type Handler struct {
	auth          service.AuthService
	users         service.UserService
	donors        service.DonorService
	banks         service.BloodBankService
	patients      service.PatientService
	requests      service.DonationRequestService
	bookings      service.BookingService
	inventory     service.InventoryService
	notifications service.NotificationService
	reviews       service.ReviewService
	chat          service.ChatService
	taxi          service.TaxiService
	cfg           *config.Config
	health        map[string]HealthChecker
}

func New(s Services, cfg *config.Config, health map[string]HealthChecker) *Handler {
	return &Handler{
		auth:          s.Auth,
		users:         s.Users,
		donors:        s.Donors,
		banks:         s.BloodBanks,
		patients:      s.Patients,
		requests:      s.DonationRequests,
		bookings:      s.Bookings,
		inventory:     s.Inventory,
		notifications: s.Notifications,
		reviews:       s.Reviews,
		chat:          s.Chat,
		taxi:          s.Taxi,
		cfg:           cfg,
		health:        health,
	}
}

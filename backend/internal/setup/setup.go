package setup

import (
	"context"
	"fmt"

	"github.com/bloodlink-dev/bloodlink/backend/internal/handler"
	"github.com/bloodlink-dev/bloodlink/backend/internal/service"
	"github.com/bloodlink-dev/bloodlink/backend/internal/storage/fs"
	"github.com/bloodlink-dev/bloodlink/backend/internal/storage/mongo"
	"github.com/bloodlink-dev/bloodlink/backend/internal/storage/pg"
	kv "github.com/bloodlink-dev/bloodlink/backend/internal/storage/redis"
	"github.com/bloodlink-dev/bloodlink/backend/internal/utils/email"
	"github.com/bloodlink-dev/bloodlink/backend/internal/utils/payment"
	"github.com/bloodlink-dev/bloodlink/shared/accountstatus"
	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/crypto"
	"github.com/bloodlink-dev/bloodlink/shared/jwt"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config          *config.Config
	Storage         *pg.Storage
	Chat            *mongo.Storage
	Cache           *kv.KV
	Handler         *handler.Handler
	AuthMiddleware  *mw.Auth
	Accounts        *accountstatus.Cache
	InventoryExpiry *service.InventoryExpiry
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	cipher, err := crypto.NewFieldCrypto(cfg.Private.EncryptionKey)
	if err != nil {
		return nil, err
	}

	storage, err := pg.New(cfg, cipher)
	if err != nil {
		return nil, err
	}

	chatStorage, err := mongo.New(ctx, cfg)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	cache := kv.NewKV(kv.NewClient(cfg.Private.Redis))
	if err := cache.Ping(ctx); err != nil {
		storage.Cleanup()
		chatStorage.Cleanup(ctx)
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	media, err := fs.New(cfg.Public.MediaPath)
	if err != nil {
		storage.Cleanup()
		chatStorage.Cleanup(ctx)
		cache.Close()
		return nil, err
	}

	mailer := email.New(&cfg.Private.Email)
	payments := payment.New(cfg.Private.Payment)
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	accounts := accountstatus.NewCache(storage)
	if err := accounts.Update(); err != nil {
		logger.Log.Error("initial account status load failed", "error", err)
	}

	notifier := service.NewNotifier(storage, mailer)
	banks := service.NewBloodBanks(storage, notifier)
	bookings := service.NewBookings(storage, storage, banks, notifier)
	inventory := service.NewInventories(storage, banks, cache, cfg.Public.InventorySummaryCacheTTL)

	h := handler.New(handler.Services{
		Auth:             service.NewAuth(storage, mailer, jwtService),
		Users:            service.NewUsers(storage, media, accounts, notifier),
		Donors:           service.NewDonors(storage, banks),
		BloodBanks:       banks,
		Patients:         service.NewPatients(storage, banks),
		DonationRequests: service.NewDonationRequests(storage, storage, banks, storage, bookings, notifier),
		Bookings:         bookings,
		Inventory:        inventory,
		Notifications:    service.NewNotifications(storage),
		Reviews:          service.NewReviews(storage, storage, banks),
		Chat:             service.NewChat(chatStorage, storage, notifier),
		Taxi:             service.NewTaxis(storage, storage, payments, cfg.Public.Taxi, notifier),
	}, cfg, map[string]handler.HealthChecker{
		"postgres": storage,
		"mongo":    chatStorage,
		"redis":    cache,
	})

	return &Dependencies{
		Config:          cfg,
		Storage:         storage,
		Chat:            chatStorage,
		Cache:           cache,
		Handler:         h,
		AuthMiddleware:  mw.NewAuth(jwtService, accounts, cfg.Public.SecureCookies),
		Accounts:        accounts,
		InventoryExpiry: service.NewInventoryExpiry(storage, inventory),
	}, nil
}

// Close releases every connection opened by SetupDependencies.
func (d *Dependencies) Close(ctx context.Context) {
	if err := d.Storage.Cleanup(); err != nil {
		logger.Log.Error("failed to close postgres", "error", err)
	}
	if err := d.Chat.Cleanup(ctx); err != nil {
		logger.Log.Error("failed to close mongo", "error", err)
	}
	if err := d.Cache.Close(); err != nil {
		logger.Log.Error("failed to close redis", "error", err)
	}
}

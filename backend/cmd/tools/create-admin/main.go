package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service"
	"github.com/bloodlink-dev/bloodlink/backend/internal/storage/pg"
	"github.com/bloodlink-dev/bloodlink/backend/internal/utils/email"
	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/crypto"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/jwt"
)

// create-admin provisions admin and staff accounts, which cannot self-register.
func main() {
	var configFolder, name, emailAddr, password, phone, role string
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.StringVar(&name, "name", "", "display name")
	flag.StringVar(&emailAddr, "email", "", "login email")
	flag.StringVar(&password, "password", "", "initial password")
	flag.StringVar(&phone, "phone", "", "contact phone")
	flag.StringVar(&role, "role", string(domain.RoleAdmin), "admin or staff")
	flag.Parse()

	if name == "" || emailAddr == "" || len(password) < 8 {
		log.Fatal("name, email and a password of at least 8 characters are required")
	}

	cfg := config.MustLoad(configFolder)
	cipher, err := crypto.NewFieldCrypto(cfg.Private.EncryptionKey)
	if err != nil {
		log.Fatalf("invalid encryption key: %v", err)
	}
	storage, err := pg.New(cfg, cipher)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer storage.Cleanup()

	auth := service.NewAuth(storage, email.New(&cfg.Private.Email), jwt.New(cfg.JwtKey(), cfg.JwtTTL()))
	user, err := auth.Provision(domain.User{
		Name:  name,
		Email: emailAddr,
		Phone: phone,
		Role:  domain.Role(role),
	}, password)
	if err != nil {
		log.Fatalf("failed to create account: %v", err)
	}
	fmt.Printf("created %s account %d for %s\n", user.Role, user.Id, user.Email)
}

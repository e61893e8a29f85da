package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bid-wiser.backend/internal/config"
	"bid-wiser.backend/internal/domain/entities"
	domainerrors "bid-wiser.backend/internal/domain/errors"
	domainrepo "bid-wiser.backend/internal/domain/repositories"
	"bid-wiser.backend/internal/infrastructure/repositories"
	"bid-wiser.backend/pkg/crypto"
	"bid-wiser.backend/pkg/utils"
)

// Bootstraps the first Super Admin account. Registration over HTTP requires an
// image upload and sends OTPs; this tool seeds a verified admin directly.

const defaultAvatarURL = "https://bidwiser-profiles.s3.amazonaws.com/profiles/default-avatar.png"

var openAdminInitDB = func(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
	})
}

var openAdminSQLDB = func(db *gorm.DB) (io.Closer, error) {
	return db.DB()
}

type adminInitInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

type adminInitDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (domainrepo.UserRepository, io.Closer, error)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultAdminInitDeps() adminInitDeps {
	return adminInitDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (domainrepo.UserRepository, io.Closer, error) {
			db, err := openAdminInitDB(cfg.Database.URL())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			sqlDB, err := openAdminSQLDB(db)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}
			return repositories.NewUserRepository(db), sqlDB, nil
		},
		out: os.Stdout,
	}
}

func runAdminInit(deps adminInitDeps, in adminInitInput) error {
	if err := deps.loadEnv(); err != nil {
		fmt.Fprintln(deps.out, "No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()

	repo, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := context.Background()
	email := entities.NormalizeEmail(in.Email)

	existing, err := repo.GetByEmail(ctx, email)
	if err == nil {
		fmt.Fprintf(deps.out, "⚠️ Super Admin already exists: %s (%s)\n", existing.Email, existing.Role)
		return nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return fmt.Errorf("failed to check existing admin: %w", err)
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return err
	}

	admin := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		UserName:     in.Name,
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         entities.RoleSuperAdmin,
		Address:      in.Address,
		ProfileImage: entities.ProfileImage{
			ID:  "default-avatar",
			URL: defaultAvatarURL,
		},
		IsVerified: true,
	}

	if err := repo.Create(ctx, admin); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			fmt.Fprintf(deps.out, "⚠️ Super Admin already exists: %s\n", email)
			return nil
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Fprintf(deps.out, "✅ Super Admin created\n")
	fmt.Fprintf(deps.out, "   Email: %s\n", admin.Email)
	fmt.Fprintf(deps.out, "   Name:  %s\n", admin.UserName)
	fmt.Fprintln(deps.out, "You can now login with these credentials.")
	return nil
}

func main() {
	name := flag.String("name", "Super Admin", "admin display name")
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	phone := flag.String("phone", "", "admin phone number")
	address := flag.String("address", "Admin Address", "admin address")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("--email and --password are required")
	}

	if err := runAdminInit(defaultAdminInitDeps(), adminInitInput{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Phone:    *phone,
		Address:  *address,
	}); err != nil {
		log.Fatal(err)
	}
}

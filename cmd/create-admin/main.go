package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"smilecare.backend/internal/config"
	"smilecare.backend/internal/domain/entities"
	"smilecare.backend/internal/infrastructure/datasources/postgres"
	"smilecare.backend/internal/infrastructure/repositories"
	"smilecare.backend/internal/usecases"
)

const minPasswordLength = 6

// adminCreator is the part of the user usecase this command needs
type adminCreator interface {
	Create(ctx context.Context, input *entities.CreateUserInput) (*entities.User, error)
}

type createAdminDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (adminCreator, io.Closer, error)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultCreateAdminDeps() createAdminDeps {
	return createAdminDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (adminCreator, io.Closer, error) {
			db, err := postgres.NewConnection(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}
			if err := postgres.Migrate(db); err != nil {
				_ = sqlDB.Close()
				return nil, nil, err
			}

			userRepo := repositories.NewUserRepository(db)
			refreshRepo := repositories.NewRefreshTokenRepository(db)
			return usecases.NewUserUsecase(userRepo, refreshRepo), sqlDB, nil
		},
		out: os.Stdout,
	}
}

type adminFlags struct {
	email     string
	mobile    string
	password  string
	firstName string
	lastName  string
}

func parseAdminFlags(args []string) (adminFlags, error) {
	var f adminFlags
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.StringVar(&f.email, "email", "", "admin email")
	fs.StringVar(&f.mobile, "mobile", "", "admin mobile number")
	fs.StringVar(&f.password, "password", "", "admin password (required)")
	fs.StringVar(&f.firstName, "first-name", "Clinic", "first name")
	fs.StringVar(&f.lastName, "last-name", "Admin", "last name")
	if err := fs.Parse(args); err != nil {
		return f, err
	}

	f.email = strings.TrimSpace(f.email)
	f.mobile = strings.TrimSpace(f.mobile)
	if f.email == "" && f.mobile == "" {
		return f, fmt.Errorf("--email or --mobile is required")
	}
	if len(f.password) < minPasswordLength {
		return f, fmt.Errorf("--password must be at least %d characters", minPasswordLength)
	}
	return f, nil
}

func runCreateAdmin(args []string, deps createAdminDeps) error {
	if deps.loadEnv == nil {
		deps.loadEnv = func() error { return godotenv.Load() }
	}
	if deps.loadCfg == nil {
		deps.loadCfg = config.Load
	}
	if deps.prepare == nil {
		deps.prepare = defaultCreateAdminDeps().prepare
	}
	if deps.out == nil {
		deps.out = os.Stdout
	}

	flags, err := parseAdminFlags(args)
	if err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	creator, closer, err := deps.prepare(deps.loadCfg())
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	user, err := creator.Create(context.Background(), &entities.CreateUserInput{
		Email:        flags.email,
		MobileNumber: flags.mobile,
		Password:     flags.password,
		FirstName:    flags.firstName,
		LastName:     flags.lastName,
		UserType:     string(entities.UserRoleAdmin),
	})
	if err != nil {
		return fmt.Errorf("failed creating admin: %w", err)
	}

	_, _ = fmt.Fprintln(deps.out, "Created admin account")
	_, _ = fmt.Fprintf(deps.out, "user_id=%s\n", user.ID.String())
	if user.Email.Valid {
		_, _ = fmt.Fprintf(deps.out, "email=%s\n", user.Email.String)
	}
	if user.MobileNumber.Valid {
		_, _ = fmt.Fprintf(deps.out, "mobile=%s\n", user.MobileNumber.String)
	}
	return nil
}

func main() {
	if err := runCreateAdmin(os.Args[1:], defaultCreateAdminDeps()); err != nil {
		log.Fatal(err)
	}
}

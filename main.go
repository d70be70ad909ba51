package main

import (
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-sync-backend/api"
	"github.com/rpupo63/portfolio-sync-backend/config"
	"github.com/rpupo63/portfolio-sync-backend/database"
	"github.com/rpupo63/portfolio-sync-backend/drive"
	"github.com/rpupo63/portfolio-sync-backend/github"
	"github.com/rpupo63/portfolio-sync-backend/notion"
	"github.com/rpupo63/portfolio-sync-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	// Postgres is optional: without it the service still syncs and serves,
	// it just keeps no run history and loses Drive tokens on restart.
	var store *database.Database
	if dsn := config.GetString(c, "DATABASE_URL", ""); dsn != "" {
		gormLogger := logger.New(
			stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
			logger.Config{
				SlowThreshold:             10 * time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  true,
			},
		)

		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
			Logger:      gormLogger,
		})
		if err != nil {
			fmt.Printf("Error connecting to database: %v\n", err)
			os.Exit(1)
		}

		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
			fmt.Printf("Error enabling uuid-ossp extension: %v\n", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			fmt.Printf("Error migrating schema: %v\n", err)
			os.Exit(1)
		}

		d := database.New(db)
		store = &d
	} else {
		log.Warn().Msg("DATABASE_URL not set, running without a metadata store")
	}

	notionClient, err := notion.New(notion.Config{
		Token:      config.GetString(c, "NOTION_TOKEN", ""),
		DatabaseID: config.GetString(c, "NOTION_DATABASE_ID", ""),
	})
	if err != nil {
		fmt.Printf("Error initializing Notion client: %v\n", err)
		os.Exit(1)
	}

	githubClient := github.New(github.Config{
		Owner:  config.GetString(c, "GITHUB_OWNER", ""),
		Repo:   config.GetString(c, "GITHUB_REPO", ""),
		Branch: config.GetString(c, "GITHUB_BRANCH", "main"),
		Token:  config.GetString(c, "GITHUB_TOKEN", ""),
	})

	var tokenStore drive.TokenStore
	if store != nil {
		tokenStore = store.DriveTokenRepo()
	}
	driveAdapter := drive.New(drive.Config{
		ClientID:     config.GetString(c, "GOOGLE_CLIENT_ID", ""),
		ClientSecret: config.GetString(c, "GOOGLE_CLIENT_SECRET", ""),
		RedirectURL:  config.GetString(c, "GOOGLE_REDIRECT_URL", ""),
	}, tokenStore)

	syncOpts := services.SyncOptions{
		Version:          config.GetString(c, "SYNC_VERSION", "1.0.0"),
		DefaultDateToNow: config.GetBool(c, "SYNC_DEFAULT_DATE_TO_NOW", true),
		FetchLimit:       config.GetInt(c, "SYNC_FETCH_LIMIT", 4),
	}

	deps := api.Dependencies{
		Projects: services.NewProjectService(notionClient, syncOpts),
		Sync:     services.NewSyncService(notionClient, githubClient, store, syncOpts),
		Backup:   services.NewBackupService(notionClient, githubClient, store, syncOpts),
		Migrate:  services.NewMigrateService(notionClient, syncOpts),
		Email: services.NewEmailService(services.EmailConfig{
			APIKey:    config.GetString(c, "RESEND_API_KEY", ""),
			FromEmail: config.GetString(c, "RESEND_FROM_EMAIL", ""),
			ToEmail:   config.GetString(c, "CONTACT_TO_EMAIL", ""),
		}),
		Drive:  driveAdapter,
		Github: githubClient,
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(deps)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

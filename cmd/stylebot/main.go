package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/garmenthq/stylebot/internal/api"
	"github.com/garmenthq/stylebot/internal/db"
	"github.com/garmenthq/stylebot/internal/metrics"
	"github.com/garmenthq/stylebot/internal/model"
	"github.com/garmenthq/stylebot/internal/notify"
	"github.com/garmenthq/stylebot/internal/scheduler"
	"github.com/garmenthq/stylebot/internal/store"
	"github.com/garmenthq/stylebot/pkg/config"
	"github.com/garmenthq/stylebot/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: stylebot <init|serve|backup>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		cmdInit(os.Args[2:])
	case "serve":
		cmdServe()
	case "backup":
		cmdBackup(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\nUsage: stylebot <init|serve|backup>\n", os.Args[1])
		os.Exit(1)
	}
}

func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := fs.String("db", "stylebot.sqlite3", "path to SQLite database file")
	adminName := fs.String("admin", "admin", "admin account name")
	fs.Parse(args)

	if _, err := os.Stat(*dbPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: database file %s already exists\n", *dbPath)
		os.Exit(1)
	}

	database, password, err := initDatabase(*dbPath, *adminName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	database.Close()

	fmt.Printf("Database created: %s\n", *dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Name: %s\n", *adminName)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password - it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
}

func cmdServe() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})
	log.Info().Str("env", cfg.App.Env).Str("app", cfg.App.Name).Msg("starting")

	// Check if DB exists, auto-init if not.
	if _, err := os.Stat(cfg.DB.Path); os.IsNotExist(err) {
		database, password, err := initDatabase(cfg.DB.Path, "admin")
		if err != nil {
			log.Fatal().Err(err).Msg("initializing database")
		}
		database.Close()

		fmt.Printf("Database created: %s\n", cfg.DB.Path)
		fmt.Println()
		fmt.Println("Admin account created:")
		fmt.Println("  Name: admin")
		fmt.Printf("  Password: %s\n", password)
		fmt.Println()
		fmt.Println("Save this password - it cannot be recovered.")
		fmt.Println()
	}

	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("opening database")
	}
	defer database.Close()

	// Run migrations (idempotent).
	if err := db.Migrate(database); err != nil {
		log.Fatal().Err(err).Msg("migrating database")
	}

	// Signing secret: config wins, otherwise the persisted one (generated on
	// first start) so tokens survive restarts.
	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		jwtSecret, err = store.GetJWTSecret(context.Background(), database)
		if err != nil {
			log.Fatal().Err(err).Msg("loading signing secret")
		}
	}

	m := metrics.New()

	var notifier notify.Notifier
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhook(cfg.Notify.WebhookURL)
	}

	sched, err := scheduler.New(scheduler.Config{
		BackupDir:        cfg.Backup.Dir,
		BackupSchedule:   cfg.Backup.Schedule,
		ReminderSchedule: cfg.Notify.Schedule,
		Timezone:         cfg.Notify.Timezone,
	}, database, notifier, m, log)
	if err != nil {
		log.Fatal().Err(err).Msg("setting up scheduler")
	}
	sched.Start()
	defer sched.Stop()

	handler := api.NewRouter(api.RouterDeps{
		DB:        database,
		JWTSecret: jwtSecret,
		BackupDir: cfg.Backup.Dir,
		Metrics:   m,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("stopped")
}

func cmdBackup(args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	dbPath := fs.String("db", "stylebot.sqlite3", "path to SQLite database file")
	dir := fs.String("dir", "backups", "backup directory")
	fs.Parse(args)

	database, err := db.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	backup, err := store.Snapshot(context.Background(), database, *dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Snapshot written: %s (%d bytes)\n", backup.Path, backup.Size)
}

// initDatabase creates a new database, runs migrations, and creates the admin
// account.
func initDatabase(path, adminName string) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	if err := db.Migrate(database); err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("running migrations: %w", err)
	}

	password, err := generatePassword(16)
	if err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	ctx := context.Background()
	if _, err := store.CreateMerchant(ctx, database, adminName, string(hash), model.RoleAdmin); err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("creating admin account: %w", err)
	}

	return database, password, nil
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}

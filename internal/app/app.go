package app

import (
	"context"
	"fmt"
	"syscall"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"golang.org/x/term"

	"github.com/andy/oficina/internal/config"
	"github.com/andy/oficina/internal/crypto"
	"github.com/andy/oficina/internal/db"
	"github.com/andy/oficina/internal/identity"
	"github.com/andy/oficina/internal/metrics"
	"github.com/andy/oficina/internal/repository"
	"github.com/andy/oficina/internal/service"
)

var logger = loggo.GetLogger("oficina.app")

// App is the dependency injection container for all application components
type App struct {
	Config  *config.Config
	DB      *db.DB
	Metrics *metrics.Recorder

	// Repositories
	ClientRepo  repository.ClientRepository
	ServiceRepo repository.ServiceRepository
	PartRepo    repository.PartRepository
	BudgetRepo  repository.BudgetRepository
	AccountRepo repository.AccountRepository

	// Directory resolves authors: the account table or the remote identity service
	Directory identity.Directory

	// Services
	ClientService  service.ClientService
	BudgetService  service.BudgetService
	CatalogService service.CatalogService
	AccountService service.AccountService
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Getting encryption key from keyring
// 3. Opening database
// 4. Running migrations
// 5. Choosing the identity directory
// 6. Creating repositories and services
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := ConfigureLogging(cfg.Log.Level); err != nil {
		return nil, err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	password, err := databaseKey()
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app, err := wire(cfg, database)
	if err != nil {
		database.Close()
		return nil, err
	}
	return app, nil
}

// wire builds repositories and services on an open, migrated database
func wire(cfg *config.Config, database *db.DB) (*App, error) {
	rec := metrics.NewRecorder()

	clientRepo := repository.NewClientRepo(database)
	serviceRepo := repository.NewServiceRepo(database)
	partRepo := repository.NewPartRepo(database)
	budgetRepo := repository.NewBudgetRepo(database)
	accountRepo := repository.NewAccountRepo(database)

	var directory identity.Directory = accountRepo
	if cfg.Identity.BaseURL != "" {
		remote, err := identity.NewHTTPDirectory(identity.HTTPConfig{
			BaseURL:        cfg.Identity.BaseURL,
			ConnectTimeout: cfg.Identity.ConnectTimeout,
			ReadTimeout:    cfg.Identity.ReadTimeout,
		})
		if err != nil {
			return nil, errors.Annotate(err, "identity service")
		}
		directory = remote
		logger.Infof("resolving accounts through %s", cfg.Identity.BaseURL)
	}

	return &App{
		Config:         cfg,
		DB:             database,
		Metrics:        rec,
		ClientRepo:     clientRepo,
		ServiceRepo:    serviceRepo,
		PartRepo:       partRepo,
		BudgetRepo:     budgetRepo,
		AccountRepo:    accountRepo,
		Directory:      directory,
		ClientService:  service.NewClientService(clientRepo, directory, rec),
		BudgetService:  service.NewBudgetService(budgetRepo, clientRepo, serviceRepo, partRepo, cfg.Budget.Policy(), rec),
		CatalogService: service.NewCatalogService(serviceRepo, partRepo, rec),
		AccountService: service.NewAccountService(accountRepo, directory),
	}, nil
}

// ConfigureLogging applies a loggo level spec such as "<root>=INFO"
func ConfigureLogging(spec string) error {
	if spec == "" {
		return nil
	}
	if err := loggo.ConfigureLoggers(spec); err != nil {
		return errors.Annotatef(err, "log level %q", spec)
	}
	return nil
}

// Close writes the metrics textfile, if configured, and closes the database
func (a *App) Close() error {
	if err := a.Metrics.WriteTextfile(a.Config.Metrics.Textfile); err != nil {
		logger.Warningf("failed to write metrics textfile: %v", err)
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}

// databaseKey returns the stored encryption key, prompting for a new one on
// first run
func databaseKey() (string, error) {
	keyring := crypto.NewKeyring()

	password, err := keyring.GetKey()
	if err == nil {
		return password, nil
	}
	logger.Debugf("no stored key: %v", err)

	fmt.Println("Setting up database encryption for the first time...")
	password, err = promptForPassword()
	if err != nil {
		return "", fmt.Errorf("failed to set password: %w", err)
	}

	if err := keyring.SetKey(password); err != nil {
		if !errors.IsNotSupported(err) {
			return "", fmt.Errorf("failed to store encryption key: %w", err)
		}
		fmt.Printf("Note: %v\n", err)
	}
	return password, nil
}

// promptForPassword prompts user for a new database password (first run)
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Client and budget records will be encrypted with a password.")
	fmt.Println("This password will be stored in your system keyring where one is available.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	// Read password securely (no echo)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", errors.NewNotValid(nil, "password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", errors.NewNotValid(nil, "passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

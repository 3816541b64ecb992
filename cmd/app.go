package cmd

import (
	"fmt"
	"log/slog"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/auth"
	authPostgres "github.com/Thiagomartinsvieira/document-management-employees/internal/auth/postgres"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/blob"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/blob/filesystem"
	blobPostgres "github.com/Thiagomartinsvieira/document-management-employees/internal/blob/postgres"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/core/events"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/cv"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
	employeePostgres "github.com/Thiagomartinsvieira/document-management-employees/internal/employee/postgres"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/i18n"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/user"
	userPostgres "github.com/Thiagomartinsvieira/document-management-employees/internal/user/postgres"
	"github.com/Thiagomartinsvieira/document-management-employees/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/afero"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Dependencies is everything the commands share, built once from config.
type Dependencies struct {
	Config   *internal.Config
	Logger   *slog.Logger
	DB       *sqlx.DB
	Gorm     *gorm.DB
	EventBus *events.EventBus
	Messages *i18n.Messages

	Users     user.Repository
	Blobs     *blob.Service
	Employees *employee.Service
	Auth      *auth.Service
	CV        *cv.Service
	Sessions  *authPostgres.SessionCleaner
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	messages, err := i18n.Load(config.UI.Locale, config.UI.MessageOverrides())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	blobStore, err := initBlobStore(config.Storage, gormDB)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	publicBaseURL := config.Storage.PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = config.Server.BaseURL
	}

	bus := events.NewEventBus(lg)
	users := userPostgres.NewUserRepository(gormDB)
	blobs := blob.NewService(blobStore, publicBaseURL, lg)
	employees := employee.NewService(employeePostgres.NewEmployeeRepository(gormDB), bus, lg)

	tokens := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(users, authPostgres.NewSessionRepository(gormDB), tokens, bus, config.Security.BCryptCost, lg)

	return &Dependencies{
		Config:    config,
		Logger:    lg,
		DB:        db,
		Gorm:      gormDB,
		EventBus:  bus,
		Messages:  messages,
		Users:     users,
		Blobs:     blobs,
		Employees: employees,
		Auth:      authService,
		CV:        cv.NewService(employees, blobs, messages, lg),
		Sessions:  authPostgres.NewSessionCleaner(db),
	}, nil
}

func (d *Dependencies) Close() {
	d.EventBus.Wait()
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

// initDB opens the pgx-backed sqlx pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return dbConn, nil
}

// initGorm runs gorm over the pool opened by initDB.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
}

func initBlobStore(cfg internal.StorageConfig, gormDB *gorm.DB) (blob.Store, error) {
	switch cfg.Driver {
	case internal.StorageDriverFilesystem:
		return filesystem.NewStore(afero.NewOsFs(), cfg.RootDir), nil
	case internal.StorageDriverDatabase, "":
		return blobPostgres.NewBlobRepository(gormDB), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

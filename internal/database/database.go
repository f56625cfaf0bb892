package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"north_staffing_backend/internal/config"
	"north_staffing_backend/internal/models"
	"north_staffing_backend/pkg/utils"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq" // PostgreSQL driver
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// activeAssignmentIndex backs the one-active-assignment-per-pair rule.
// Both PostgreSQL and SQLite support partial indexes.
const activeAssignmentIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_shift_assignments_active_pair
	ON shift_assignments (shift_id, staff_id)
	WHERE status NOT IN ('declined', 'cancelled')`

// InitDB opens and pings the PostgreSQL connection pool.
func InitDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	utils.LogInfo("Successfully connected to the database", map[string]interface{}{"host": cfg.Host, "name": cfg.Name})
	return db, nil
}

// OpenGorm wraps an open lib/pq pool in gorm. Driver errors stay *pq.Error.
func OpenGorm(sqlDB *sql.DB, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormLogger(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialise gorm: %w", err)
	}
	return db, nil
}

// OpenSQLite opens a pure-Go SQLite database, for local development and tests.
// A single connection keeps in-memory databases shared and writes serialized.
func OpenSQLite(dsn string, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func gormLogger(level string) logger.Interface {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return logger.Default.LogMode(logger.Info)
	case "warn":
		return logger.Default.LogMode(logger.Warn)
	case "error":
		return logger.Default.LogMode(logger.Error)
	default:
		return logger.Default.LogMode(logger.Silent)
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Shift{},
		&models.Assignment{},
		&models.Timesheet{},
		&models.PayrollRun{},
		&models.PayrollLine{},
		&models.Message{},
		&models.StaffProfile{},
		&models.JobRole{},
		&models.Enquiry{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := db.Exec(activeAssignmentIndex).Error; err != nil {
		return fmt.Errorf("failed to create active assignment index: %w", err)
	}
	return nil
}

// CreateDefaultAdmin seeds an admin account when no user has the email yet.
// It reports whether a user was created.
func CreateDefaultAdmin(db *gorm.DB, fullName, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, errors.New("admin email and password are required")
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	if fullName == "" {
		fullName = "Administrator"
	}

	admin := models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("failed to create admin: %w", err)
	}
	utils.LogInfo("Default admin created", map[string]interface{}{"email": email})
	return true, nil
}

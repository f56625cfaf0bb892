package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"north_staffing_backend/internal/config"
	"north_staffing_backend/internal/database"
	"north_staffing_backend/internal/models"
	"north_staffing_backend/internal/repositories"
	"north_staffing_backend/internal/services"
	"north_staffing_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// openedStore is a Store plus the gorm handle behind it, if any.
type openedStore struct {
	repositories.Store
	db *gorm.DB
}

func (s *openedStore) Close() {
	if s.db == nil {
		return
	}
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// openStore connects the configured driver. Relational stores are migrated
// when migrate is set.
func openStore(cfg *config.Config, migrate bool) (*openedStore, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		utils.LogWarn("Using the in-memory store; data is lost on exit")
		return &openedStore{Store: repositories.NewMemoryStore()}, nil
	case config.DriverSQLite:
		db, err = database.OpenSQLite(cfg.Database.SQLitePath, cfg.LogLevel)
	case config.DriverPostgres:
		sqlDB, perr := database.InitDB(cfg.Database)
		if perr != nil {
			return nil, perr
		}
		db, err = database.OpenGorm(sqlDB, cfg.LogLevel)
		if err != nil {
			sqlDB.Close()
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	store := &openedStore{Store: repositories.NewGormStore(db), db: db}
	if migrate {
		if err := database.Migrate(db); err != nil {
			store.Close()
			return nil, err
		}
		utils.LogInfo("Database schema is up to date", map[string]interface{}{"driver": cfg.Database.Driver})
	}
	return store, nil
}

// ensureAdmin seeds the configured admin account if it does not exist yet.
func ensureAdmin(ctx context.Context, store *openedStore, fullName, email, password string) (bool, error) {
	if store.db != nil {
		return database.CreateDefaultAdmin(store.db, fullName, email, password)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, errors.New("admin email and password are required")
	}
	if _, err := store.Users().FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	if fullName == "" {
		fullName = "Administrator"
	}
	admin := &models.User{FullName: fullName, Email: email, PasswordHash: string(hash), Role: models.RoleAdmin, IsActive: true}
	if err := store.Users().Create(ctx, admin); err != nil {
		return false, fmt.Errorf("failed to create admin: %w", err)
	}
	utils.LogInfo("Default admin created", map[string]interface{}{"email": email})
	return true, nil
}

// newNotifier sends reminders by email when SMTP is configured and logs
// them otherwise.
func newNotifier(cfg *config.Config) services.Notifier {
	if cfg.SMTP.Enabled() {
		return services.NewEmailNotifier(utils.NewEmailSender(cfg.SMTP))
	}
	return services.LogNotifier{}
}

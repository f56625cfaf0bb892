package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"north_staffing_backend/internal/config"
	"north_staffing_backend/internal/models"
	"north_staffing_backend/internal/services"
	"north_staffing_backend/pkg/utils"
)

func TestOpenMemoryStoreAndSeedAdmin(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.DriverMemory}}
	store, err := openStore(cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	created, err := ensureAdmin(ctx, store, "", " Boss@Example.com ", "secret-pass")
	if err != nil || !created {
		t.Fatalf("first seed: created=%v err=%v", created, err)
	}
	created, err = ensureAdmin(ctx, store, "", "boss@example.com", "secret-pass")
	if err != nil || created {
		t.Fatalf("second seed should be a no-op: created=%v err=%v", created, err)
	}

	admin, err := store.Users().FindByEmail(ctx, "boss@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if admin.Role != models.RoleAdmin || admin.FullName != "Administrator" || !admin.IsActive {
		t.Errorf("unexpected admin: %+v", admin)
	}

	if _, err := ensureAdmin(ctx, store, "", "", "x"); err == nil {
		t.Error("expected an error without an email")
	}
}

func TestOpenSQLiteStoreMigratesAndSeeds(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "staffing.db")},
		LogLevel: "error",
	}
	store, err := openStore(cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	created, err := ensureAdmin(context.Background(), store, "Root", "root@example.com", "secret-pass")
	if err != nil || !created {
		t.Fatalf("seed: created=%v err=%v", created, err)
	}
	admin, err := store.Users().FindByEmail(context.Background(), "root@example.com")
	if err != nil || admin.FullName != "Root" {
		t.Fatalf("admin not persisted: %+v %v", admin, err)
	}
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "mongo"}}
	if _, err := openStore(cfg, false); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNewNotifier(t *testing.T) {
	cfg := &config.Config{}
	if _, ok := newNotifier(cfg).(services.LogNotifier); !ok {
		t.Error("expected log notifier without SMTP")
	}
	cfg.SMTP = utils.EmailConfig{Host: "smtp.example.com", Port: "587", From: "ops@example.com"}
	if _, ok := newNotifier(cfg).(*services.EmailNotifier); !ok {
		t.Error("expected email notifier with SMTP configured")
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3", "abc123")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	if err := Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "staffingd 1.2.3 (abc123)") {
		t.Errorf("unexpected output %q", out.String())
	}
}

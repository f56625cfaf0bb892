package database

import (
	"testing"

	"north_staffing_backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", "silent")
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(db); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestMigrateCreatesTables(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{"users", "events", "shifts", "shift_assignments", "timesheets", "payroll_runs", "payroll_lines", "messages", "staff_profiles", "roles", "enquiries"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected table %s", table)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	if err := Migrate(db); err != nil {
		t.Errorf("second migration failed: %v", err)
	}
}

func TestActiveAssignmentIndex(t *testing.T) {
	db := setupTestDB(t)

	active := models.Assignment{ShiftID: 1, StaffID: 2, Status: models.AssignmentStatusPending}
	if err := db.Create(&active).Error; err != nil {
		t.Fatal(err)
	}
	dup := models.Assignment{ShiftID: 1, StaffID: 2, Status: models.AssignmentStatusConfirmed}
	if err := db.Create(&dup).Error; err == nil {
		t.Fatal("expected unique violation for second active assignment")
	}

	if err := db.Model(&active).Update("status", models.AssignmentStatusDeclined).Error; err != nil {
		t.Fatal(err)
	}
	again := models.Assignment{ShiftID: 1, StaffID: 2, Status: models.AssignmentStatusPending}
	if err := db.Create(&again).Error; err != nil {
		t.Errorf("expected re-application after decline to succeed, got %v", err)
	}
}

func TestCreateDefaultAdmin(t *testing.T) {
	db := setupTestDB(t)

	created, err := CreateDefaultAdmin(db, "Ops Admin", "Admin@North.example", "s3cret-pass")
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("expected admin to be created")
	}

	var admin models.User
	if err := db.Where("email = ?", "admin@north.example").First(&admin).Error; err != nil {
		t.Fatal(err)
	}
	if admin.Role != models.RoleAdmin || !admin.IsActive {
		t.Errorf("unexpected admin record: %+v", admin)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("s3cret-pass")) != nil {
		t.Error("stored hash does not match password")
	}

	created, err = CreateDefaultAdmin(db, "Ops Admin", "admin@north.example", "other")
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("expected second call to be a no-op")
	}
}

func TestCreateDefaultAdminRequiresCredentials(t *testing.T) {
	db := setupTestDB(t)
	if _, err := CreateDefaultAdmin(db, "", "", ""); err == nil {
		t.Error("expected error for missing credentials")
	}
}

package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"north_staffing_backend/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestStaffProfileCRUD(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		f := seed(t, s, 1)

		bio := "Ten years behind hotel bars"
		profile := &models.StaffProfile{UserID: f.staff.ID, Bio: &bio, Skills: []string{"Bartending", "First Aid"}, Rating: floatPtr(4.5), PayRate: 24}
		if err := s.Profiles().Create(ctx, profile); err != nil {
			t.Fatal(err)
		}
		if profile.ID == 0 {
			t.Fatal("profile id not assigned")
		}
		if err := s.Profiles().Create(ctx, &models.StaffProfile{UserID: f.staff.ID, PayRate: 10}); !errors.Is(err, ErrDuplicateKey) {
			t.Errorf("second profile for the same user: expected ErrDuplicateKey, got %v", err)
		}

		got, err := s.Profiles().FindByUserID(ctx, f.staff.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != profile.ID || len(got.Skills) != 2 || got.Skills[1] != "First Aid" || *got.Bio != bio {
			t.Errorf("unexpected profile: %+v", got)
		}

		got.Skills = []string{"Mixology"}
		got.Rating = nil
		got.PayRate = 26.5
		if err := s.Profiles().Update(ctx, got); err != nil {
			t.Fatal(err)
		}
		reread, _ := s.Profiles().FindByID(ctx, profile.ID)
		if reread.PayRate != 26.5 || reread.Rating != nil || len(reread.Skills) != 1 || reread.Skills[0] != "Mixology" {
			t.Errorf("update not persisted: %+v", reread)
		}

		if err := s.Profiles().Delete(ctx, profile.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Profiles().FindByID(ctx, profile.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := s.Profiles().Delete(ctx, profile.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("second delete: expected ErrNotFound, got %v", err)
		}
	})
}

func TestStaffProfileListFilters(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		rows := []struct {
			email  string
			skills []string
			rating *float64
		}{
			{"a@example.com", []string{"Security"}, floatPtr(4.8)},
			{"b@example.com", []string{"bartending", "security"}, floatPtr(3.2)},
			{"c@example.com", []string{"Bartending"}, nil},
		}
		for _, row := range rows {
			u := &models.User{FullName: row.email, Email: row.email, PasswordHash: "x", Role: models.RoleStaff, IsActive: true}
			if err := s.Users().Create(ctx, u); err != nil {
				t.Fatal(err)
			}
			if err := s.Profiles().Create(ctx, &models.StaffProfile{UserID: u.ID, Skills: row.skills, Rating: row.rating, PayRate: 20}); err != nil {
				t.Fatal(err)
			}
		}

		skill := "SECURITY"
		found, err := s.Profiles().List(ctx, models.StaffProfileFilters{Skill: &skill})
		if err != nil {
			t.Fatal(err)
		}
		if len(found) != 2 {
			t.Errorf("skill filter: expected 2, got %+v", found)
		}

		found, _ = s.Profiles().List(ctx, models.StaffProfileFilters{MinRating: floatPtr(4)})
		if len(found) != 1 || found[0].Skills[0] != "Security" {
			t.Errorf("rating filter: unexpected %+v", found)
		}

		all, _ := s.Profiles().List(ctx, models.StaffProfileFilters{})
		if len(all) != 3 {
			t.Errorf("expected 3 profiles, got %d", len(all))
		}
	})
}

func TestRoleCatalog(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for _, name := range []string{"Security", "Bartender"} {
			if err := s.Roles().Create(ctx, &models.JobRole{Name: name}); err != nil {
				t.Fatal(err)
			}
		}
		if err := s.Roles().Create(ctx, &models.JobRole{Name: "Security"}); !errors.Is(err, ErrDuplicateKey) {
			t.Errorf("expected ErrDuplicateKey, got %v", err)
		}

		roles, err := s.Roles().List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(roles) != 2 || roles[0].Name != "Bartender" {
			t.Errorf("roles should be sorted by name: %+v", roles)
		}

		role, err := s.Roles().FindByName(ctx, "bartender")
		if err != nil || role.Name != "Bartender" {
			t.Fatalf("case-insensitive lookup: %v %+v", err, role)
		}

		desc := "Pours drinks"
		role.Name = "Bar Staff"
		role.Description = &desc
		if err := s.Roles().Update(ctx, role); err != nil {
			t.Fatal(err)
		}
		got, _ := s.Roles().FindByID(ctx, role.ID)
		if got.Name != "Bar Staff" || got.Description == nil || *got.Description != desc {
			t.Errorf("update not persisted: %+v", got)
		}

		if err := s.Roles().Delete(ctx, role.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Roles().FindByName(ctx, "Bar Staff"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestShiftListRoleFilter(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		f := seed(t, s, 1)

		role := "BARTENDER"
		shifts, err := s.Shifts().List(ctx, models.ShiftFilters{Role: &role})
		if err != nil {
			t.Fatal(err)
		}
		if len(shifts) != 1 || shifts[0].ID != f.shift.ID {
			t.Errorf("expected the seeded shift, got %+v", shifts)
		}
		other := "security"
		shifts, _ = s.Shifts().List(ctx, models.ShiftFilters{Role: &other})
		if len(shifts) != 0 {
			t.Errorf("expected no security shifts, got %+v", shifts)
		}
	})
}

func TestEnquiryStatusCompareAndSet(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
		older := &models.Enquiry{Name: "Pat", Email: "pat@example.com", Message: "Do you staff weddings?", Status: models.EnquiryStatusNew, CreatedAt: base}
		newer := &models.Enquiry{Name: "Lee", Email: "lee@example.com", Message: "I'd like to apply", Status: models.EnquiryStatusNew, CreatedAt: base.Add(time.Hour)}
		for _, e := range []*models.Enquiry{older, newer} {
			if err := s.Enquiries().Create(ctx, e); err != nil {
				t.Fatal(err)
			}
		}

		all, err := s.Enquiries().List(ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 2 || all[0].ID != newer.ID {
			t.Errorf("expected newest first: %+v", all)
		}

		if err := s.Enquiries().UpdateStatus(ctx, older.ID, models.EnquiryStatusNew, models.EnquiryStatusResponded); err != nil {
			t.Fatal(err)
		}
		if err := s.Enquiries().UpdateStatus(ctx, older.ID, models.EnquiryStatusNew, models.EnquiryStatusClosed); !errors.Is(err, ErrStaleState) {
			t.Errorf("expected ErrStaleState, got %v", err)
		}
		if err := s.Enquiries().UpdateStatus(ctx, 999, models.EnquiryStatusNew, models.EnquiryStatusClosed); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		responded := models.EnquiryStatusResponded
		filtered, _ := s.Enquiries().List(ctx, &responded)
		if len(filtered) != 1 || filtered[0].ID != older.ID {
			t.Errorf("status filter: unexpected %+v", filtered)
		}

		if err := s.Enquiries().Delete(ctx, newer.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Enquiries().FindByID(ctx, newer.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

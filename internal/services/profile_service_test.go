package services

import (
	"context"
	"errors"
	"testing"

	"north_staffing_backend/internal/models"
)

func TestStaffProfileLifecycle(t *testing.T) {
	forEachStore(t, func(t *testing.T, e *testEnv) {
		ctx := context.Background()
		alice := e.staff(t, "Alice", "alice@example.com")
		bob := e.staff(t, "Bob", "bob@example.com")
		rating := 4.456

		profile, err := e.profiles.CreateProfile(ctx, manager, CreateStaffProfileRequest{
			UserID:  alice.UserID,
			Skills:  []string{" Bartending ", "bartending", "", "First Aid"},
			Rating:  &rating,
			PayRate: 21.499,
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(profile.Skills) != 2 || profile.Skills[0] != "Bartending" || profile.Skills[1] != "First Aid" {
			t.Errorf("skills not normalized: %v", profile.Skills)
		}
		if profile.PayRate != 21.5 || profile.Rating == nil || *profile.Rating != 4.46 {
			t.Errorf("unexpected rounding: pay %v rating %v", profile.PayRate, profile.Rating)
		}
		if profile.User == nil || profile.User.FullName != "Alice" {
			t.Errorf("user not joined: %+v", profile.User)
		}

		if _, err := e.profiles.CreateProfile(ctx, manager, CreateStaffProfileRequest{UserID: alice.UserID, PayRate: 20}); !errors.Is(err, ErrProfileExists) {
			t.Errorf("second profile: expected ErrProfileExists, got %v", err)
		}
		if _, err := e.profiles.CreateProfile(ctx, alice, CreateStaffProfileRequest{UserID: bob.UserID, PayRate: 20}); !errors.Is(err, ErrForbidden) {
			t.Errorf("staff create: expected ErrForbidden, got %v", err)
		}

		own, err := e.profiles.GetProfileForUser(ctx, alice, alice.UserID)
		if err != nil || own.ID != profile.ID {
			t.Fatalf("own profile: %v %+v", err, own)
		}
		if _, err := e.profiles.GetProfile(ctx, bob, profile.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("reading another profile: expected ErrForbidden, got %v", err)
		}
		if _, err := e.profiles.GetProfileForUser(ctx, bob, bob.UserID); !errors.Is(err, ErrProfileNotFound) {
			t.Errorf("no profile yet: expected ErrProfileNotFound, got %v", err)
		}

		bio := "  Ten years behind the bar  "
		updated, err := e.profiles.UpdateProfile(ctx, manager, profile.ID, UpdateStaffProfileRequest{Bio: &bio})
		if err != nil {
			t.Fatal(err)
		}
		if updated.Bio == nil || *updated.Bio != "Ten years behind the bar" || len(updated.Skills) != 2 {
			t.Errorf("unexpected update: %+v", updated)
		}
		if _, err := e.profiles.UpdateProfile(ctx, alice, profile.ID, UpdateStaffProfileRequest{Bio: &bio}); !errors.Is(err, ErrForbidden) {
			t.Errorf("staff update: expected ErrForbidden, got %v", err)
		}

		if err := e.profiles.DeleteProfile(ctx, manager, profile.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("manager delete: expected ErrForbidden, got %v", err)
		}
		if err := e.profiles.DeleteProfile(ctx, admin, profile.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := e.profiles.GetProfile(ctx, manager, profile.ID); !errors.Is(err, ErrProfileNotFound) {
			t.Errorf("after delete: expected ErrProfileNotFound, got %v", err)
		}
	})
}

func TestStaffProfileRequiresStaffAccount(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	client, err := e.auth.RegisterUser(ctx, RegisterUserRequest{FullName: "Cli", Email: "cli@example.com", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = e.profiles.CreateProfile(ctx, manager, CreateStaffProfileRequest{UserID: client.ID, PayRate: 20})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["user_id"] == "" {
		t.Errorf("client account: expected user_id validation error, got %v", err)
	}
	_, err = e.profiles.CreateProfile(ctx, manager, CreateStaffProfileRequest{UserID: 4242, PayRate: 20})
	if !errors.As(err, &verr) || verr.Fields["user_id"] == "" {
		t.Errorf("missing user: expected user_id validation error, got %v", err)
	}
	bad := 7.0
	alice := e.staff(t, "Alice", "alice@example.com")
	if _, err := e.profiles.CreateProfile(ctx, manager, CreateStaffProfileRequest{UserID: alice.UserID, PayRate: 20, Rating: &bad}); !errors.Is(err, ErrValidation) {
		t.Errorf("rating above 5: expected ErrValidation, got %v", err)
	}
}

func TestListStaffProfiles(t *testing.T) {
	forEachStore(t, func(t *testing.T, e *testEnv) {
		ctx := context.Background()
		alice := e.staff(t, "Alice", "alice@example.com")
		bob := e.staff(t, "Bob", "bob@example.com")
		high, low := 4.8, 3.1
		if _, err := e.profiles.CreateProfile(ctx, manager, CreateStaffProfileRequest{UserID: alice.UserID, Skills: []string{"Bartending"}, Rating: &high, PayRate: 22}); err != nil {
			t.Fatal(err)
		}
		if _, err := e.profiles.CreateProfile(ctx, manager, CreateStaffProfileRequest{UserID: bob.UserID, Skills: []string{"Catering"}, Rating: &low, PayRate: 18}); err != nil {
			t.Fatal(err)
		}

		skill := "bartending"
		got, err := e.profiles.ListProfiles(ctx, manager, StaffProfileQuery{Skill: &skill})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].UserID != alice.UserID {
			t.Errorf("skill filter: %+v", got)
		}
		minRating := 4.0
		got, _ = e.profiles.ListProfiles(ctx, manager, StaffProfileQuery{MinRating: &minRating})
		if len(got) != 1 || got[0].UserID != alice.UserID {
			t.Errorf("rating filter: %+v", got)
		}
		got, _ = e.profiles.ListProfiles(ctx, manager, StaffProfileQuery{})
		if len(got) != 2 || got[1].User == nil || got[1].User.FullName != "Bob" {
			t.Errorf("unfiltered list: %+v", got)
		}

		outOfRange := 9.0
		if _, err := e.profiles.ListProfiles(ctx, manager, StaffProfileQuery{MinRating: &outOfRange}); !errors.Is(err, ErrValidation) {
			t.Errorf("min_rating 9: expected ErrValidation, got %v", err)
		}
		if _, err := e.profiles.ListProfiles(ctx, alice, StaffProfileQuery{}); !errors.Is(err, ErrForbidden) {
			t.Errorf("staff listing: expected ErrForbidden, got %v", err)
		}
	})
}

func TestProfilePayRateDoesNotDrivePayroll(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	shift := e.shift(t, 1, 20)
	alice := e.staff(t, "Alice", "alice@example.com")
	if _, err := e.profiles.CreateProfile(ctx, manager, CreateStaffProfileRequest{UserID: alice.UserID, PayRate: 35}); err != nil {
		t.Fatal(err)
	}
	a := e.confirmed(t, shift, alice)
	ts := submit(t, e, alice, a, "2026-06-01", "09:00", "11:00", 0)
	if ts.HourlyRate != 20 || ts.Pay() != 40 {
		t.Errorf("timesheet should be paid at the shift rate: %+v", ts)
	}
}

func TestRoleCatalogGovernsShiftRoles(t *testing.T) {
	forEachStore(t, func(t *testing.T, e *testEnv) {
		ctx := context.Background()
		event, err := e.catalog.CreateEvent(ctx, manager, CreateEventRequest{Name: "Expo", EventDate: "2026-08-01"})
		if err != nil {
			t.Fatal(err)
		}
		req := CreateShiftRequest{
			EventID: event.ID, Role: "juggler", StartTime: "2026-08-01T10:00:00Z", EndTime: "2026-08-01T12:00:00Z", RequiredCount: 1,
		}
		if _, err := e.catalog.CreateShift(ctx, manager, req); err != nil {
			t.Fatalf("empty catalog should accept any role: %v", err)
		}

		if _, err := e.roles.CreateRole(ctx, manager, CreateRoleRequest{Name: "Bartender"}); err != nil {
			t.Fatal(err)
		}
		if _, err := e.roles.CreateRole(ctx, manager, CreateRoleRequest{Name: "bartender"}); !errors.Is(err, ErrRoleExists) {
			t.Errorf("case-insensitive duplicate: expected ErrRoleExists, got %v", err)
		}
		if _, err := e.roles.CreateRole(ctx, Actor{UserID: 1, Role: models.RoleStaff}, CreateRoleRequest{Name: "Host"}); !errors.Is(err, ErrForbidden) {
			t.Errorf("staff create: expected ErrForbidden, got %v", err)
		}

		_, err = e.catalog.CreateShift(ctx, manager, req)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Fields["role"] == "" {
			t.Errorf("unknown role: expected role validation error, got %v", err)
		}

		req.Role = "  BARTENDER "
		shift, err := e.catalog.CreateShift(ctx, manager, req)
		if err != nil {
			t.Fatal(err)
		}
		if shift.Role != "Bartender" {
			t.Errorf("role should take the catalog spelling, got %q", shift.Role)
		}

		juggler := "juggler"
		if _, err := e.catalog.UpdateShift(ctx, manager, shift.ID, UpdateShiftRequest{Role: &juggler}); !errors.Is(err, ErrValidation) {
			t.Errorf("update to unknown role: expected ErrValidation, got %v", err)
		}

		roles, err := e.roles.ListRoles(ctx)
		if err != nil || len(roles) != 1 {
			t.Fatalf("list roles: %v %+v", err, roles)
		}
	})
}

func TestRoleInUseCannotBeRenamedOrDeleted(t *testing.T) {
	forEachStore(t, func(t *testing.T, e *testEnv) {
		ctx := context.Background()
		role, err := e.roles.CreateRole(ctx, manager, CreateRoleRequest{Name: "server"})
		if err != nil {
			t.Fatal(err)
		}
		shift := e.shift(t, 1, 20)

		rename := "waiter"
		if _, err := e.roles.UpdateRole(ctx, manager, role.ID, UpdateRoleRequest{Name: &rename}); !errors.Is(err, ErrRoleInUse) {
			t.Errorf("rename in use: expected ErrRoleInUse, got %v", err)
		}
		if err := e.roles.DeleteRole(ctx, manager, role.ID); !errors.Is(err, ErrRoleInUse) {
			t.Errorf("delete in use: expected ErrRoleInUse, got %v", err)
		}

		desc := "Table service"
		updated, err := e.roles.UpdateRole(ctx, manager, role.ID, UpdateRoleRequest{Description: &desc})
		if err != nil || updated.Description == nil || *updated.Description != desc {
			t.Fatalf("description update: %v %+v", err, updated)
		}

		if _, err := e.catalog.UpdateShiftStatus(ctx, manager, shift.ID, "cancelled"); err != nil {
			t.Fatal(err)
		}
		if err := e.roles.DeleteRole(ctx, manager, role.ID); err != nil {
			t.Fatalf("delete after the shift was cancelled: %v", err)
		}
		if _, err := e.roles.GetRole(ctx, role.ID); !errors.Is(err, ErrRoleNotFound) {
			t.Errorf("expected ErrRoleNotFound, got %v", err)
		}
	})
}

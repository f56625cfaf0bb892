package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"north_staffing_backend/internal/middleware"
	"north_staffing_backend/internal/repositories"
	"north_staffing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestAPI(t *testing.T) (*apiClient, *utils.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := utils.NewTokenManager("router-test", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	engine := gin.New()
	Setup(engine, Deps{Store: repositories.NewMemoryStore(), Tokens: tokens})
	return &apiClient{t: t, engine: engine}, tokens
}

func (a *apiClient) call(method, path, token string, body interface{}) (int, map[string]interface{}) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			a.t.Fatalf("%s %s: invalid JSON %q", method, path, w.Body.String())
		}
	}
	return w.Code, out
}

func (a *apiClient) mustCall(method, path, token string, body interface{}, want int) map[string]interface{} {
	a.t.Helper()
	code, out := a.call(method, path, token, body)
	if code != want {
		a.t.Fatalf("%s %s: status %d, want %d: %v", method, path, code, want, out)
	}
	return out
}

func errorCode(out map[string]interface{}) string {
	e, _ := out["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func id(out map[string]interface{}) string {
	return utils.Int64ToStr(int64(out["id"].(float64)))
}

func (a *apiClient) registerStaff(name, email string) (string, string) {
	a.t.Helper()
	user := a.mustCall(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"full_name": name, "email": email, "password": "password123", "role": "staff",
	}, http.StatusCreated)
	login := a.mustCall(http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email": email, "password": "password123",
	}, http.StatusOK)
	return id(user), login["access_token"].(string)
}

func TestPing(t *testing.T) {
	api, _ := newTestAPI(t)
	out := api.mustCall(http.MethodGet, "/ping", "", nil, http.StatusOK)
	if out["message"] != "pong" {
		t.Errorf("unexpected body: %v", out)
	}
}

func TestStaffingWorkflowOverHTTP(t *testing.T) {
	api, tokens := newTestAPI(t)
	managerToken, _, _ := tokens.GenerateAccessToken(1000, "manager@example.com", "manager")
	adminToken, _, _ := tokens.GenerateAccessToken(1001, "admin@example.com", "admin")

	aliceID, aliceToken := api.registerStaff("Alice", "alice@example.com")
	_, bobToken := api.registerStaff("Bob", "bob@example.com")

	me := api.mustCall(http.MethodGet, "/api/auth/me", aliceToken, nil, http.StatusOK)
	if me["email"] != "alice@example.com" || me["password_hash"] != nil {
		t.Errorf("unexpected profile: %v", me)
	}

	event := api.mustCall(http.MethodPost, "/api/events", managerToken, map[string]interface{}{
		"name": "Harbor Gala", "event_date": "2026-06-01", "location": "Pier 9",
	}, http.StatusCreated)
	api.mustCall(http.MethodPost, "/api/events", aliceToken, map[string]interface{}{
		"name": "Nope", "event_date": "2026-06-01",
	}, http.StatusForbidden)

	shift := api.mustCall(http.MethodPost, "/api/shifts", managerToken, map[string]interface{}{
		"event_id": event["id"], "role": "bartender",
		"start_time": "2026-06-01T16:00:00Z", "end_time": "2026-06-02T00:00:00Z",
		"required_count": 1, "hourly_rate": 20,
	}, http.StatusCreated)

	applied := api.mustCall(http.MethodPost, "/api/shift-assignments/apply", aliceToken, map[string]interface{}{
		"shift_id": shift["id"],
	}, http.StatusCreated)
	if applied["status"] != "pending" {
		t.Errorf("application should be pending: %v", applied)
	}
	_, out := api.call(http.MethodPost, "/api/shift-assignments/apply", aliceToken, map[string]interface{}{"shift_id": shift["id"]})
	if errorCode(out) != utils.ErrCodeDuplicateAssignment {
		t.Errorf("expected DUPLICATE_ASSIGNMENT, got %v", out)
	}

	assignmentPath := "/api/shift-assignments/" + id(applied)
	api.mustCall(http.MethodPatch, assignmentPath+"/status", managerToken, map[string]interface{}{"status": "confirmed"}, http.StatusOK)

	code, out := api.call(http.MethodPatch, assignmentPath+"/status", managerToken, map[string]interface{}{"status": "pending"})
	if code != http.StatusConflict || errorCode(out) != utils.ErrCodeInvalidTransition {
		t.Errorf("expected 409 INVALID_TRANSITION, got %d %v", code, out)
	}

	code, out = api.call(http.MethodPost, "/api/shift-assignments/apply", bobToken, map[string]interface{}{"shift_id": shift["id"]})
	if code != http.StatusConflict || errorCode(out) != utils.ErrCodeShiftFull {
		t.Errorf("expected 409 SHIFT_FULL, got %d %v", code, out)
	}

	calendar := api.mustCall(http.MethodGet, "/api/calendar/"+aliceID+"?from=2026-06-01&to=2026-06-02", aliceToken, nil, http.StatusOK)
	if entries := calendar["data"].([]interface{}); len(entries) != 1 {
		t.Errorf("expected one calendar entry, got %v", calendar)
	}
	api.mustCall(http.MethodGet, "/api/calendar/"+aliceID, bobToken, nil, http.StatusForbidden)

	timesheetBody := map[string]interface{}{
		"event_id": event["id"], "assignment_id": applied["id"],
		"date": "2026-06-01", "start_time": "08:00", "end_time": "16:00", "break_duration_minutes": 45,
	}
	code, out = api.call(http.MethodPost, "/api/timesheets", bobToken, timesheetBody)
	if code != http.StatusForbidden || errorCode(out) != utils.ErrCodeNotAssigned {
		t.Errorf("expected 403 NOT_ASSIGNED, got %d %v", code, out)
	}
	timesheet := api.mustCall(http.MethodPost, "/api/timesheets", aliceToken, timesheetBody, http.StatusCreated)
	if timesheet["hours_worked"] != 7.25 {
		t.Errorf("hours_worked = %v, want 7.25", timesheet["hours_worked"])
	}

	reviewPath := "/api/timesheets/" + id(timesheet) + "/status"
	api.mustCall(http.MethodPatch, reviewPath, aliceToken, map[string]interface{}{"status": "approved"}, http.StatusForbidden)
	api.mustCall(http.MethodPatch, reviewPath, managerToken, map[string]interface{}{"status": "approved", "manager_notes": "OK"}, http.StatusOK)
	code, out = api.call(http.MethodPatch, reviewPath, managerToken, map[string]interface{}{"status": "rejected"})
	if code != http.StatusConflict || errorCode(out) != utils.ErrCodeAlreadyReviewed {
		t.Errorf("expected 409 ALREADY_REVIEWED, got %d %v", code, out)
	}

	today := time.Now().UTC().Format("2006-01-02")
	period := map[string]interface{}{"period_start": today, "period_end": today}
	api.mustCall(http.MethodPost, "/api/payroll/process", managerToken, period, http.StatusForbidden)

	run := api.mustCall(http.MethodPost, "/api/payroll/process", adminToken, period, http.StatusCreated)
	if run["total_amount_paid"] != 145.0 || run["status"] != "completed" {
		t.Errorf("unexpected run: %v", run)
	}
	again := api.mustCall(http.MethodPost, "/api/payroll/process", adminToken, period, http.StatusCreated)
	if again["total_amount_paid"] != 0.0 {
		t.Errorf("second run should pay nothing: %v", again)
	}
	api.mustCall(http.MethodGet, "/api/payroll/runs/"+id(run), adminToken, nil, http.StatusOK)
	runs := api.mustCall(http.MethodGet, "/api/payroll/runs", adminToken, nil, http.StatusOK)
	if len(runs["data"].([]interface{})) != 2 {
		t.Errorf("expected 2 runs: %v", runs)
	}

	api.mustCall(http.MethodPost, "/api/events/"+id(event)+"/messages", aliceToken, map[string]interface{}{"body": "Running late"}, http.StatusCreated)
	messages := api.mustCall(http.MethodGet, "/api/events/"+id(event)+"/messages", managerToken, nil, http.StatusOK)
	if len(messages["data"].([]interface{})) != 1 {
		t.Errorf("expected one message: %v", messages)
	}
}

func TestHTTPErrorMapping(t *testing.T) {
	api, tokens := newTestAPI(t)
	managerToken, _, _ := tokens.GenerateAccessToken(1000, "manager@example.com", "manager")
	adminToken, _, _ := tokens.GenerateAccessToken(1001, "admin@example.com", "admin")

	api.mustCall(http.MethodGet, "/api/shifts", "", nil, http.StatusUnauthorized)

	out := api.mustCall(http.MethodGet, "/api/shifts/abc", managerToken, nil, http.StatusBadRequest)
	if errorCode(out) != utils.ErrCodeValidationFailed {
		t.Errorf("expected VALIDATION_FAILED, got %v", out)
	}
	out = api.mustCall(http.MethodGet, "/api/shifts/42", managerToken, nil, http.StatusNotFound)
	if errorCode(out) != utils.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", out)
	}

	out = api.mustCall(http.MethodPost, "/api/events", managerToken, map[string]interface{}{"event_date": "2026-06-01"}, http.StatusBadRequest)
	if errorCode(out) != utils.ErrCodeValidationFailed {
		t.Errorf("missing name: %v", out)
	}
	out = api.mustCall(http.MethodPost, "/api/events", managerToken, map[string]interface{}{"name": "X", "event_date": "June 1"}, http.StatusBadRequest)
	fields, _ := out["error"].(map[string]interface{})["fields"].(map[string]interface{})
	if fields["event_date"] == nil {
		t.Errorf("expected event_date field error, got %v", out)
	}

	report := api.mustCall(http.MethodPost, "/api/payroll/report", adminToken, map[string]interface{}{
		"period_start": "2020-01-01", "period_end": "2020-01-31",
	}, http.StatusOK)
	if report["total_pay"] != 0.0 {
		t.Errorf("empty period should total zero: %v", report)
	}

	api.mustCall(http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email": "nobody@example.com", "password": "password123",
	}, http.StatusUnauthorized)
	api.mustCall(http.MethodPost, "/api/reminders/trigger", managerToken, nil, http.StatusForbidden)
	api.mustCall(http.MethodPost, "/api/reminders/trigger", adminToken, nil, http.StatusOK)
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens, _ := utils.NewTokenManager("router-test", time.Hour)
	engine := gin.New()
	Setup(engine, Deps{
		Store:       repositories.NewMemoryStore(),
		Tokens:      tokens,
		AuthLimiter: middleware.NewRateLimiter(2, time.Hour),
	})
	api := &apiClient{t: t, engine: engine}

	body := map[string]interface{}{"email": "x@example.com", "password": "password123"}
	api.mustCall(http.MethodPost, "/api/auth/login", "", body, http.StatusUnauthorized)
	api.mustCall(http.MethodPost, "/api/auth/login", "", body, http.StatusUnauthorized)
	api.mustCall(http.MethodPost, "/api/auth/login", "", body, http.StatusTooManyRequests)
}

func TestStaffDirectoryOverHTTP(t *testing.T) {
	api, tokens := newTestAPI(t)
	managerToken, _, _ := tokens.GenerateAccessToken(1000, "manager@example.com", "manager")
	adminToken, _, _ := tokens.GenerateAccessToken(1001, "admin@example.com", "admin")
	aliceID, aliceToken := api.registerStaff("Alice", "alice@example.com")
	_, bobToken := api.registerStaff("Bob", "bob@example.com")
	userID, _ := utils.StrToInt64(aliceID)

	api.mustCall(http.MethodGet, "/api/staff-profiles/me", aliceToken, nil, http.StatusNotFound)
	api.mustCall(http.MethodPost, "/api/staff-profiles", aliceToken, map[string]interface{}{
		"user_id": userID, "pay_rate": 20,
	}, http.StatusForbidden)
	profile := api.mustCall(http.MethodPost, "/api/staff-profiles", managerToken, map[string]interface{}{
		"user_id": userID, "skills": []string{"Bartending"}, "rating": 4.5, "pay_rate": 22,
	}, http.StatusCreated)
	api.mustCall(http.MethodPost, "/api/staff-profiles", managerToken, map[string]interface{}{
		"user_id": userID, "pay_rate": 22,
	}, http.StatusConflict)

	me := api.mustCall(http.MethodGet, "/api/staff-profiles/me", aliceToken, nil, http.StatusOK)
	if me["id"] != profile["id"] {
		t.Errorf("me should return alice's profile: %v", me)
	}
	api.mustCall(http.MethodGet, "/api/staff-profiles/"+id(profile), bobToken, nil, http.StatusForbidden)
	api.mustCall(http.MethodGet, "/api/staff-profiles", aliceToken, nil, http.StatusForbidden)
	list := api.mustCall(http.MethodGet, "/api/staff-profiles?skill=bartending&min_rating=4", managerToken, nil, http.StatusOK)
	if len(list["data"].([]interface{})) != 1 {
		t.Errorf("expected one profile: %v", list)
	}
	api.mustCall(http.MethodGet, "/api/staff-profiles?min_rating=high", managerToken, nil, http.StatusBadRequest)

	updated := api.mustCall(http.MethodPut, "/api/staff-profiles/"+id(profile), managerToken, map[string]interface{}{"pay_rate": 24}, http.StatusOK)
	if updated["pay_rate"] != 24.0 {
		t.Errorf("unexpected update: %v", updated)
	}
	api.mustCall(http.MethodDelete, "/api/staff-profiles/"+id(profile), managerToken, nil, http.StatusForbidden)
	api.mustCall(http.MethodDelete, "/api/staff-profiles/"+id(profile), adminToken, nil, http.StatusNoContent)

	role := api.mustCall(http.MethodPost, "/api/roles", managerToken, map[string]interface{}{"name": "Bartender"}, http.StatusCreated)
	api.mustCall(http.MethodPost, "/api/roles", aliceToken, map[string]interface{}{"name": "Host"}, http.StatusForbidden)
	roles := api.mustCall(http.MethodGet, "/api/roles", aliceToken, nil, http.StatusOK)
	if len(roles["data"].([]interface{})) != 1 {
		t.Errorf("expected one role: %v", roles)
	}

	event := api.mustCall(http.MethodPost, "/api/events", managerToken, map[string]interface{}{
		"name": "Harbor Gala", "event_date": "2026-06-01",
	}, http.StatusCreated)
	shiftBody := map[string]interface{}{
		"event_id": event["id"], "role": "juggler",
		"start_time": "2026-06-01T16:00:00Z", "end_time": "2026-06-02T00:00:00Z", "required_count": 1,
	}
	out := api.mustCall(http.MethodPost, "/api/shifts", managerToken, shiftBody, http.StatusBadRequest)
	if errorCode(out) != utils.ErrCodeValidationFailed {
		t.Errorf("unknown role: %v", out)
	}
	shiftBody["role"] = "bartender"
	shift := api.mustCall(http.MethodPost, "/api/shifts", managerToken, shiftBody, http.StatusCreated)
	if shift["role"] != "Bartender" {
		t.Errorf("role should use the catalog spelling: %v", shift)
	}
	api.mustCall(http.MethodDelete, "/api/roles/"+id(role), managerToken, nil, http.StatusConflict)
}

func TestMessageChannelRejectsClients(t *testing.T) {
	api, tokens := newTestAPI(t)
	managerToken, _, _ := tokens.GenerateAccessToken(1000, "manager@example.com", "manager")
	_, aliceToken := api.registerStaff("Alice", "alice@example.com")
	api.mustCall(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"full_name": "Cli", "email": "cli@example.com", "password": "password123",
	}, http.StatusCreated)
	login := api.mustCall(http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email": "cli@example.com", "password": "password123",
	}, http.StatusOK)
	clientToken := login["access_token"].(string)

	event := api.mustCall(http.MethodPost, "/api/events", managerToken, map[string]interface{}{
		"name": "Harbor Gala", "event_date": "2026-06-01",
	}, http.StatusCreated)
	path := "/api/events/" + id(event) + "/messages"

	api.mustCall(http.MethodGet, path, clientToken, nil, http.StatusForbidden)
	api.mustCall(http.MethodPost, path, clientToken, map[string]interface{}{"body": "hello"}, http.StatusForbidden)
	api.mustCall(http.MethodGet, path, aliceToken, nil, http.StatusForbidden)
	api.mustCall(http.MethodGet, path, managerToken, nil, http.StatusOK)
}

func TestPublicEnquiries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens, _ := utils.NewTokenManager("router-test", time.Hour)
	engine := gin.New()
	Setup(engine, Deps{
		Store:          repositories.NewMemoryStore(),
		Tokens:         tokens,
		EnquiryLimiter: middleware.NewRateLimiter(2, time.Hour),
	})
	api := &apiClient{t: t, engine: engine}
	managerToken, _, _ := tokens.GenerateAccessToken(1000, "manager@example.com", "manager")

	body := map[string]interface{}{"name": "Dana", "email": "dana@example.com", "message": "Ten servers in May?"}
	enquiry := api.mustCall(http.MethodPost, "/api/enquiries", "", body, http.StatusCreated)
	if enquiry["status"] != "new" {
		t.Errorf("unexpected enquiry: %v", enquiry)
	}
	api.mustCall(http.MethodPost, "/api/enquiries", "", map[string]interface{}{"name": "Dana", "message": "hi"}, http.StatusBadRequest)
	api.mustCall(http.MethodPost, "/api/enquiries", "", body, http.StatusTooManyRequests)

	api.mustCall(http.MethodGet, "/api/enquiries", "", nil, http.StatusUnauthorized)
	list := api.mustCall(http.MethodGet, "/api/enquiries?status=new", managerToken, nil, http.StatusOK)
	if len(list["data"].([]interface{})) != 1 {
		t.Errorf("expected one enquiry: %v", list)
	}
	api.mustCall(http.MethodPatch, "/api/enquiries/"+id(enquiry)+"/status", managerToken, map[string]interface{}{"status": "closed"}, http.StatusOK)
	out := api.mustCall(http.MethodPatch, "/api/enquiries/"+id(enquiry)+"/status", managerToken, map[string]interface{}{"status": "responded"}, http.StatusConflict)
	if errorCode(out) != utils.ErrCodeInvalidTransition {
		t.Errorf("closed is terminal: %v", out)
	}
}

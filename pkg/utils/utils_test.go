package utils

import (
	"net/smtp"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func TestTokenRoundTrip(t *testing.T) {
	tm, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	token, expiresAt, err := tm.GenerateAccessToken(42, "ana@example.com", "staff")
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Errorf("expected expiry in the future, got %v", expiresAt)
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if claims.UserID != 42 || claims.Role != "staff" || claims.Email != "ana@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestTokenRejectsOtherSecret(t *testing.T) {
	issuer, _ := NewTokenManager("secret-a", time.Hour)
	verifier, _ := NewTokenManager("secret-b", time.Hour)

	token, _, err := issuer.GenerateAccessToken(1, "a@example.com", "admin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("expected signature mismatch to fail validation")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	tm, _ := NewTokenManager("secret", time.Nanosecond)
	token, _, err := tm.GenerateAccessToken(1, "a@example.com", "admin")
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(1100 * time.Millisecond)
	if _, err := tm.ValidateToken(token); err == nil {
		t.Error("expected expired token to fail validation")
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestGetenvHelpers(t *testing.T) {
	os.Setenv("UTILS_TEST_INT", "12")
	os.Setenv("UTILS_TEST_BAD_INT", "twelve")
	os.Setenv("UTILS_TEST_DURATION", "90m")
	os.Setenv("UTILS_TEST_LIST", "a, b,,c")
	defer func() {
		os.Unsetenv("UTILS_TEST_INT")
		os.Unsetenv("UTILS_TEST_BAD_INT")
		os.Unsetenv("UTILS_TEST_DURATION")
		os.Unsetenv("UTILS_TEST_LIST")
	}()

	if got := GetenvInt("UTILS_TEST_INT", 1); got != 12 {
		t.Errorf("expected 12, got %d", got)
	}
	if got := GetenvInt("UTILS_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("expected fallback 7, got %d", got)
	}
	if got := GetenvDuration("UTILS_TEST_DURATION", time.Second); got != 90*time.Minute {
		t.Errorf("expected 90m, got %v", got)
	}
	if got := GetenvList("UTILS_TEST_LIST", nil); strings.Join(got, "|") != "a|b|c" {
		t.Errorf("unexpected list %v", got)
	}
	if got := Getenv("UTILS_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %s", got)
	}
}

func TestSanitizeValidationError(t *testing.T) {
	type payload struct {
		ShiftID int64  `validate:"required"`
		Email   string `validate:"required,email"`
	}
	err := validator.New().Struct(payload{Email: "nope"})
	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "shift_id is required") {
		t.Errorf("expected shift_id message, got %q", msg)
	}
	if !strings.Contains(msg, "email must be a valid email address") {
		t.Errorf("expected email message, got %q", msg)
	}
}

func TestEmailSender(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	sender := NewEmailSender(EmailConfig{Host: "smtp.local", Port: "2525", From: "ops@north.example"})
	sender.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	if err := sender.SendEmail("ana@example.com", "Shift reminder", "<p>hi</p>"); err != nil {
		t.Fatal(err)
	}
	if gotAddr != "smtp.local:2525" || gotFrom != "ops@north.example" || len(gotTo) != 1 {
		t.Errorf("unexpected envelope: %s %s %v", gotAddr, gotFrom, gotTo)
	}
	if !strings.Contains(string(gotMsg), "Subject: Shift reminder") {
		t.Errorf("missing subject header: %s", gotMsg)
	}
}

func TestEmailSenderKeepsHeadersIntact(t *testing.T) {
	var gotMsg []byte
	sender := NewEmailSender(EmailConfig{Host: "smtp.local", Port: "2525", From: "ops@north.example"})
	sender.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotMsg = msg
		return nil
	}

	if err := sender.SendEmail("ana@example.com", "Reminder: server\r\nBcc: all@example.com", "<p>hi</p>"); err != nil {
		t.Fatal(err)
	}
	headers := strings.SplitN(string(gotMsg), "\r\n\r\n", 2)[0]
	for _, line := range strings.Split(headers, "\r\n") {
		if strings.HasPrefix(line, "Bcc:") {
			t.Fatalf("subject injected a header: %q", headers)
		}
	}
	if !strings.Contains(headers, "Subject: Reminder: server  Bcc: all@example.com") {
		t.Errorf("subject not folded: %q", headers)
	}

	if err := sender.SendEmail("ana@example.com\r\nBcc: all@example.com", "s", "b"); err == nil {
		t.Error("expected error for a recipient with a line break")
	}
}

func TestEmailSenderNotConfigured(t *testing.T) {
	if err := NewEmailSender(EmailConfig{}).SendEmail("a@example.com", "s", "b"); err == nil {
		t.Error("expected error when SMTP is not configured")
	}
}

func TestOptionalNumbers(t *testing.T) {
	if v, err := OptionalInt64(""); v != nil || err != nil {
		t.Errorf("empty int: %v %v", v, err)
	}
	if v, err := OptionalInt64("12"); err != nil || *v != 12 {
		t.Errorf("int: %v %v", v, err)
	}
	if v, err := OptionalFloat64("4.5"); err != nil || *v != 4.5 {
		t.Errorf("float: %v %v", v, err)
	}
	if _, err := OptionalFloat64("high"); err == nil {
		t.Error("expected error for a non-numeric float")
	}
}

package utils

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailConfig holds SMTP settings.
type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Enabled reports whether enough settings are present to send mail.
func (c EmailConfig) Enabled() bool {
	return c.Host != "" && c.Port != "" && c.From != ""
}

// EmailSender delivers plain HTML mail over SMTP.
type EmailSender struct {
	config EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailSender creates an EmailSender for the given config.
func NewEmailSender(config EmailConfig) *EmailSender {
	return &EmailSender{config: config, send: smtp.SendMail}
}

// SendEmail sends one message to a single recipient.
func (s *EmailSender) SendEmail(to, subject, htmlBody string) error {
	if !s.config.Enabled() {
		return errors.New("SMTP not configured")
	}
	if to == "" {
		return errors.New("recipient address is empty")
	}
	if strings.ContainsAny(to, "\r\n") {
		return errors.New("recipient address contains a line break")
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		s.config.From, to, headerValue(subject))
	msg := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.config.Username != "" && s.config.Password != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	addr := s.config.Host + ":" + s.config.Port
	return s.send(addr, auth, s.config.From, []string{to}, msg)
}

// headerValue folds CR and LF into spaces so user text cannot start a new header.
func headerValue(v string) string {
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return ' '
		}
		return r
	}, v)
}

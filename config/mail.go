package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// MailConfig carries the process-wide mail settings: the legacy transport
// every tenant without its own provider falls back to, the OAuth client used
// for tenant token refresh, and the public base URL action links are built
// from. OAuth client credentials are never compiled in; tenants on the oauth
// provider stay disconnected until OAUTH_CLIENT_ID/SECRET are supplied.
type MailConfig struct {
	LegacyHost      string
	LegacyPort      int
	LegacyUsername  string
	LegacyPassword  string
	LegacyFromEmail string
	LegacyFromName  string

	OAuthClientID     string
	OAuthClientSecret string
	OAuthTokenURL     string
	OAuthSMTPHost     string
	OAuthSMTPPort     int

	PublicBaseURL string
	SendTimeout   time.Duration
}

var Mail MailConfig

func LoadMailConfig() {
	Mail = MailConfig{
		LegacyHost:      os.Getenv("LEGACY_SMTP_HOST"),
		LegacyPort:      envInt("LEGACY_SMTP_PORT", 587),
		LegacyUsername:  os.Getenv("LEGACY_SMTP_USERNAME"),
		LegacyPassword:  os.Getenv("LEGACY_SMTP_PASSWORD"),
		LegacyFromEmail: os.Getenv("LEGACY_FROM_EMAIL"),
		LegacyFromName:  os.Getenv("LEGACY_FROM_NAME"),

		OAuthClientID:     os.Getenv("OAUTH_CLIENT_ID"),
		OAuthClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
		OAuthTokenURL:     os.Getenv("OAUTH_TOKEN_URL"),
		OAuthSMTPHost:     os.Getenv("OAUTH_SMTP_HOST"),
		OAuthSMTPPort:     envInt("OAUTH_SMTP_PORT", 587),

		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
		SendTimeout:   time.Duration(envInt("MAIL_SEND_TIMEOUT_SECONDS", 30)) * time.Second,
	}

	if Mail.OAuthTokenURL == "" {
		Mail.OAuthTokenURL = "https://oauth2.googleapis.com/token"
	}
	if Mail.OAuthSMTPHost == "" {
		Mail.OAuthSMTPHost = "smtp.gmail.com"
	}
	if Mail.PublicBaseURL == "" {
		Mail.PublicBaseURL = "http://localhost:8080"
	}
	if Mail.OAuthClientID == "" || Mail.OAuthClientSecret == "" {
		log.Println("OAuth client credentials not configured; oauth mail providers will be treated as disconnected")
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9090"
auth:
  confirm_ttl: 30m
smtp:
  host: mail.example.com
  port: 587
app:
  frontend_base_url: https://connect.rvce.edu.in
  feed_page_size: 25
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Auth.ConfirmTTL.String() != "30m0s" {
		t.Fatalf("unexpected confirm ttl: %s", cfg.Auth.ConfirmTTL)
	}
	if cfg.SMTP.Host != "mail.example.com" || cfg.SMTP.Port != 587 {
		t.Fatalf("unexpected smtp override: %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	}
	if cfg.App.FrontendBaseURL != "https://connect.rvce.edu.in" {
		t.Fatalf("unexpected frontend base url: %s", cfg.App.FrontendBaseURL)
	}
	if cfg.App.FeedPageSize != 25 {
		t.Fatalf("unexpected feed page size: %d", cfg.App.FeedPageSize)
	}

	if cfg.App.EmailDomain != "rvce.edu.in" {
		t.Fatalf("email_domain default should stay rvce.edu.in, got %s", cfg.App.EmailDomain)
	}
	if cfg.App.MinPasswordLen != 6 {
		t.Fatalf("min_password_len default should stay 6, got %d", cfg.App.MinPasswordLen)
	}
	if cfg.Auth.JWTAccessTTL.String() != "15m0s" {
		t.Fatalf("jwt_access_ttl default should stay 15m, got %s", cfg.Auth.JWTAccessTTL)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Auth.ConfirmTTL.String() != "1h0m0s" {
		t.Fatalf("unexpected default confirm ttl: %s", cfg.Auth.ConfirmTTL)
	}
	if cfg.App.FeedPageSize != 10 {
		t.Fatalf("unexpected default feed page size: %d", cfg.App.FeedPageSize)
	}
	if cfg.App.UnconfirmedRetention.String() != "72h0m0s" {
		t.Fatalf("unexpected default unconfirmed retention: %s", cfg.App.UnconfirmedRetention)
	}
}

func TestEnvOverridesBeatYAML(t *testing.T) {
	clearConfigEnv(t)

	t.Setenv("EMAIL_DOMAIN", "pes.edu")
	t.Setenv("MIN_PASSWORD_LEN", "8")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.App.EmailDomain != "pes.edu" {
		t.Fatalf("unexpected email domain: %s", cfg.App.EmailDomain)
	}
	if cfg.App.MinPasswordLen != 8 {
		t.Fatalf("unexpected min password len: %d", cfg.App.MinPasswordLen)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Fatalf("unexpected jwt secret: %s", cfg.Auth.JWTSecret)
	}
}

func TestEnvOverrideRejectsBadDuration(t *testing.T) {
	clearConfigEnv(t)

	t.Setenv("CONFIRM_TTL", "not-a-duration")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid CONFIRM_TTL")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"POSTGRES_DSN",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"S3_ENDPOINT",
		"S3_ACCESS_KEY",
		"S3_SECRET_KEY",
		"S3_BUCKET",
		"S3_USE_SSL",
		"S3_PUBLIC_BASE_URL",
		"JWT_SECRET",
		"JWT_ACCESS_TTL",
		"REFRESH_TTL",
		"CONFIRM_TTL",
		"SMTP_HOST",
		"SMTP_PORT",
		"SMTP_USERNAME",
		"SMTP_PASSWORD",
		"SMTP_FROM",
		"FRONTEND_BASE_URL",
		"EMAIL_DOMAIN",
		"MIN_PASSWORD_LEN",
		"FEED_PAGE_SIZE",
		"CLEANUP_INTERVAL",
		"UNCONFIRMED_RETENTION",
	} {
		t.Setenv(key, "")
	}
}

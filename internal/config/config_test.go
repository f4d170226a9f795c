package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWith(viper.New(), filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Session.CookieName != "sh_session" {
		t.Fatalf("unexpected cookie name: %s", cfg.Session.CookieName)
	}
	if cfg.Session.Driver != "redis" {
		t.Fatalf("unexpected session driver: %s", cfg.Session.Driver)
	}
	if cfg.Backend.ProbeTimeout != 5*time.Second {
		t.Fatalf("unexpected probe timeout: %s", cfg.Backend.ProbeTimeout)
	}
	if cfg.Server.IdleTimeout != 2*time.Minute {
		t.Fatalf("unexpected idle timeout: %s", cfg.Server.IdleTimeout)
	}
	if cfg.Queue.Port != 6379 || cfg.Queue.DB != 1 || cfg.Redis.DB != 0 {
		t.Fatalf("unexpected redis connections: %+v %+v", cfg.Queue.RedisConn, cfg.Redis.RedisConn)
	}
	if cfg.Session.TTL() != 720*time.Hour {
		t.Fatalf("unexpected session ttl: %s", cfg.Session.TTL())
	}
}

func TestLoadWithFileOverrides(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yml")
	content := []byte("server:\n  port: \"9090\"\nsession:\n  driver: database\n  ttl_hours: 0\n")
	if err := os.WriteFile(file, content, 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg, err := LoadWith(viper.New(), file)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("unexpected port: %s", cfg.Server.Port)
	}
	if cfg.Session.Driver != "database" {
		t.Fatalf("unexpected driver: %s", cfg.Session.Driver)
	}
	if cfg.Session.TTL() != 0 {
		t.Fatalf("expected no ttl, got %s", cfg.Session.TTL())
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("default driver lost: %s", cfg.Database.Driver)
	}
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend.test")
	cfg, err := LoadWith(viper.New(), filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "http://backend.test" {
		t.Fatalf("env override not applied: %s", cfg.Backend.BaseURL)
	}
}

func TestWeakSecrets(t *testing.T) {
	cfg, err := LoadWith(viper.New(), filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := cfg.WeakSecrets(); len(got) != 2 {
		t.Fatalf("default secrets should be weak: %v", got)
	}

	cfg.JWT.SecretKey = "0f3b9c1e7a5d4e2f8b6a0c9d7e5f3a1b"
	got := cfg.WeakSecrets()
	if len(got) != 1 || got[0] != "user_jwt.secret" {
		t.Fatalf("unexpected weak secrets: %v", got)
	}
	if !IsWeakSecret("short") {
		t.Fatal("short secret should be weak")
	}
}

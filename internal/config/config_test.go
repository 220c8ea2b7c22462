package config

import (
	"errors"
	"testing"
)

// fakeBackend is an in-memory ConfigBackend for tests.
type fakeBackend struct {
	strings map[string]string
	ints    map[string]int
	err     error
}

func (b *fakeBackend) GetString(key string) (string, bool, error) {
	if b.err != nil {
		return "", false, b.err
	}
	v, ok := b.strings[key]
	return v, ok, nil
}

func (b *fakeBackend) GetInt(key string) (int, bool, error) {
	if b.err != nil {
		return 0, false, b.err
	}
	v, ok := b.ints[key]
	return v, ok, nil
}

func (b *fakeBackend) SetString(key, val string) error {
	if b.strings == nil {
		b.strings = make(map[string]string)
	}
	b.strings[key] = val
	return nil
}

func (b *fakeBackend) SetInt(key string, val int) error {
	if b.ints == nil {
		b.ints = make(map[string]int)
	}
	b.ints[key] = val
	return nil
}

func (b *fakeBackend) Delete(key string) error { return nil }

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadWith(&fakeBackend{})
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Retention.Days != 0 {
		t.Errorf("Retention.Days = %d, want 0 (disabled)", cfg.Retention.Days)
	}
	if cfg.Retention.SweepInterval != "1h" {
		t.Errorf("Retention.SweepInterval = %q, want 1h", cfg.Retention.SweepInterval)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Storage.DataDir == "" {
		t.Error("Storage.DataDir is empty")
	}
	if cfg.Admin.Token != "" {
		t.Errorf("Admin.Token = %q, want empty", cfg.Admin.Token)
	}
}

func TestLoadBackendValues(t *testing.T) {
	b := &fakeBackend{
		strings: map[string]string{
			"storage.data_dir":         "/var/lib/faqd",
			"retention.sweep_interval": "30m",
		},
		ints: map[string]int{
			"server.port":    8080,
			"retention.days": 90,
		},
	}

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "/var/lib/faqd" {
		t.Errorf("Storage.DataDir = %q, want /var/lib/faqd", cfg.Storage.DataDir)
	}
	if cfg.Retention.Days != 90 {
		t.Errorf("Retention.Days = %d, want 90", cfg.Retention.Days)
	}
	if cfg.Retention.SweepInterval != "30m" {
		t.Errorf("Retention.SweepInterval = %q, want 30m", cfg.Retention.SweepInterval)
	}
}

func TestLoadEnvOverridesBackend(t *testing.T) {
	t.Setenv("FAQD_SERVER_PORT", "9000")
	t.Setenv("FAQD_LOG_LEVEL", "debug")

	b := &fakeBackend{
		ints:    map[string]int{"server.port": 8080},
		strings: map[string]string{"log.level": "warn"},
	}

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want env override 9000", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want env override debug", cfg.Log.Level)
	}
}

func TestLoadInvalidEnvIntKeepsDefault(t *testing.T) {
	t.Setenv("FAQD_SERVER_PORT", "not-a-number")

	cfg, err := loadWith(&fakeBackend{})
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want default 5000", cfg.Server.Port)
	}
}

func TestLoadAdminTokenFromEnvOnly(t *testing.T) {
	t.Setenv("FAQD_ADMIN_TOKEN", "s3cret")

	// Even if a backend somehow holds a token value, secrets are
	// skipped there and only the env var counts.
	b := &fakeBackend{strings: map[string]string{"admin.token": "from-backend"}}

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Admin.Token != "s3cret" {
		t.Errorf("Admin.Token = %q, want s3cret", cfg.Admin.Token)
	}
}

func TestLoadBackendError(t *testing.T) {
	b := &fakeBackend{err: errors.New("backend unavailable")}

	if _, err := loadWith(b); err == nil {
		t.Fatal("expected error from failing backend")
	}
}

func TestShowAllHidesSecrets(t *testing.T) {
	cfg := defaults()
	cfg.Admin.Token = "s3cret"

	for _, info := range ShowAll(cfg) {
		if info.Key == "admin.token" {
			t.Error("ShowAll exposed admin.token")
		}
		if info.Value == "s3cret" {
			t.Errorf("ShowAll leaked secret value under key %s", info.Key)
		}
	}
}

func TestValidKeys(t *testing.T) {
	keys := ValidKeys()

	want := map[string]bool{
		"server.port":              false,
		"storage.data_dir":         false,
		"retention.days":           false,
		"retention.sweep_interval": false,
		"log.level":                false,
	}
	for _, k := range keys {
		if k == "admin.token" {
			t.Error("ValidKeys listed the secret admin.token")
		}
		if _, ok := want[k]; ok {
			want[k] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("ValidKeys missing %s", k)
		}
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validYAML = `
environment: test
server:
  port: 8081
  read_timeout: 5s
  write_timeout: 5s
  shutdown_timeout: 5s
logging:
  level: debug
  format: json
  output: stdout
ephemeris:
  backend: builtin
  house_system: P
cache:
  backend: memory
  ttl: 2m
`

func TestLoad(t *testing.T) {
	path := writeConfig(t, validYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "test" {
		t.Fatalf("environment = %q, want test", cfg.Environment)
	}
	if cfg.Server.Port != 8081 {
		t.Fatalf("port = %d, want 8081", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("read timeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Ephemeris.Backend != "builtin" {
		t.Fatalf("ephemeris backend = %q, want builtin", cfg.Ephemeris.Backend)
	}
	if cfg.Cache.TTL != 2*time.Minute {
		t.Fatalf("cache ttl = %v, want 2m", cfg.Cache.TTL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing environment", "ephemeris:\n  backend: builtin\n"},
		{"missing backend", "environment: test\n"},
		{"unknown backend", "environment: test\nephemeris:\n  backend: swiss\n"},
		{"remote without url", "environment: test\nephemeris:\n  backend: remote\n"},
		{"bad cache backend", "environment: test\nephemeris:\n  backend: builtin\ncache:\n  backend: disk\n"},
		{"redis without addr", "environment: test\nephemeris:\n  backend: builtin\ncache:\n  backend: redis\n"},
		{"events without brokers", "environment: test\nephemeris:\n  backend: builtin\nevents:\n  enabled: true\n"},
		{"bad house system", "environment: test\nephemeris:\n  backend: builtin\n  house_system: K\n"},
	}
	for _, c := range cases {
		path := writeConfig(t, c.body)
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected validation error", c.name)
		}
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, validYAML)

	t.Setenv("EPHEMERIS_BACKEND", "remote")
	t.Setenv("EPHEMERIS_URL", "http://localhost:8001")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if cfg.Ephemeris.Backend != "remote" {
		t.Fatalf("backend = %q, want remote from env", cfg.Ephemeris.Backend)
	}
	if cfg.Ephemeris.URL != "http://localhost:8001" {
		t.Fatalf("url = %q, want env value", cfg.Ephemeris.URL)
	}
	if len(cfg.Events.Kafka.Brokers) != 2 || cfg.Events.Kafka.Brokers[1] != "k2:9092" {
		t.Fatalf("brokers = %v, want two from env", cfg.Events.Kafka.Brokers)
	}
}

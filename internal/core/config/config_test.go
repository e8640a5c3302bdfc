package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRead_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	c, err := Read("")
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if c.Store.Driver != "file" {
		t.Errorf("store driver = %q, want file", c.Store.Driver)
	}
	if c.Backend.TimeoutSec != 15 {
		t.Errorf("backend timeout = %d, want 15", c.Backend.TimeoutSec)
	}
	if c.Console.CookieName != "rm_sid" {
		t.Errorf("cookie name = %q, want rm_sid", c.Console.CookieName)
	}
}

func TestRead_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte(`
app:
  http:
    port: 9001
backend:
  base_url: "http://api.internal/"
  timeout_sec: 3
store:
  driver: redis
redis:
  addr: "127.0.0.1:6379"
`)
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_STORE_DRIVER", "file")

	c, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if c.App.HTTP.Port != 9001 {
		t.Errorf("port = %d, want 9001", c.App.HTTP.Port)
	}
	if c.Backend.BaseURL != "http://api.internal" {
		t.Errorf("base url = %q, trailing slash should be trimmed", c.Backend.BaseURL)
	}
	if c.Backend.Timeout().Seconds() != 3 {
		t.Errorf("timeout = %v, want 3s", c.Backend.Timeout())
	}
	if c.Store.Driver != "file" {
		t.Errorf("env override not applied: driver = %q", c.Store.Driver)
	}
	if c.Redis.Addr != "127.0.0.1:6379" {
		t.Errorf("redis addr = %q", c.Redis.Addr)
	}
}

func TestRead_ExplicitMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("explicit missing config file should fail")
	}
}

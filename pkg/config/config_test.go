package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Cache.Backend != "file" || cfg.Cache.TTL.Duration != 168*time.Hour {
		t.Errorf("cache defaults = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
	if cfg.Output.Strict || cfg.Output.Compact {
		t.Error("output defaults should be pretty, non-strict")
	}
}

func TestLoadFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
[output]
strict = true

[cache]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 2
ttl = "1h30m"

[neo4j]
uri = "neo4j://db:7687"
database = "topology"

[mongo]
collection = "graphs"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Output.Strict {
		t.Error("strict not loaded")
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "localhost:6379" || cfg.Cache.RedisDB != 2 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("ttl = %v", cfg.Cache.TTL)
	}
	if cfg.Neo4j.URI != "neo4j://db:7687" || cfg.Neo4j.Database != "topology" || cfg.Neo4j.Username != "neo4j" {
		t.Errorf("neo4j = %+v", cfg.Neo4j)
	}
	if cfg.Mongo.Collection != "graphs" || cfg.Mongo.Database != "topo2graph" {
		t.Errorf("mongo = %+v", cfg.Mongo)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	tests := []struct {
		name    string
		content string
	}{
		{"UnknownKey", "[output]\nindent = 4\n"},
		{"BadTTL", "[cache]\nttl = \"soon\"\n"},
		{"BadSyntax", "[output\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load should fail")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("explicit missing config should fail")
	}
}

func TestLoadMissingDefaultIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("backend = %q, want default", cfg.Cache.Backend)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	t.Chdir(t.TempDir())
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	dir := filepath.Join(home, "topo2graph")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[server]\naddr = \":9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TOPO2GRAPH_STRICT", "true")
	t.Setenv("TOPO2GRAPH_CACHE_BACKEND", "none")
	t.Setenv("TOPO2GRAPH_REDIS_DB", "5")
	t.Setenv("TOPO2GRAPH_CACHE_TTL", "10m")
	t.Setenv("TOPO2GRAPH_NEO4J_PASSWORD", "secret")
	t.Setenv("TOPO2GRAPH_SERVER_ADDR", "127.0.0.1:1")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Output.Strict || cfg.Cache.Backend != "none" || cfg.Cache.RedisDB != 5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Cache.TTL.Duration != 10*time.Minute {
		t.Errorf("ttl = %v", cfg.Cache.TTL)
	}
	if cfg.Neo4j.Password != "secret" || cfg.Server.Addr != "127.0.0.1:1" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestEnvOverrideErrors(t *testing.T) {
	env := map[string]string{
		"TOPO2GRAPH_STRICT":    "perhaps",
		"TOPO2GRAPH_REDIS_DB":  "two",
		"TOPO2GRAPH_CACHE_TTL": "later",
	}
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if err == nil {
		t.Fatal("applyEnv should fail")
	}
	for _, name := range []string{"STRICT", "REDIS_DB", "CACHE_TTL"} {
		if !strings.Contains(err.Error(), EnvPrefix+name) {
			t.Errorf("error should mention %s: %v", name, err)
		}
	}
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TOPO2GRAPH_MONGO_URI=mongodb://envfile:27017\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set; register the
	// key with t.Setenv so it is restored after the test, then clear it.
	t.Setenv("TOPO2GRAPH_MONGO_URI", "")
	os.Unsetenv("TOPO2GRAPH_MONGO_URI")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mongo.URI != "mongodb://envfile:27017" {
		t.Errorf("mongo uri = %q, want value from .env", cfg.Mongo.URI)
	}
}

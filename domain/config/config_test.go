package config

import (
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDuration_JSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration Duration
		wantJSON string
	}{
		{"zero value", Duration(0), `"0s"`},
		{"minute", Duration(60 * time.Second), `"1m0s"`},
		{"milliseconds", Duration(500 * time.Millisecond), `"500ms"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotJSON, err := json.Marshal(tt.duration)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(gotJSON) != tt.wantJSON {
				t.Errorf("Marshal() = %s, want %s", gotJSON, tt.wantJSON)
			}

			var got Duration
			if err := json.Unmarshal(gotJSON, &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got != tt.duration {
				t.Errorf("Unmarshal() = %v, want %v", got, tt.duration)
			}
		})
	}
}

func TestDuration_InvalidJSON(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`"soon"`), &d); err == nil {
		t.Error("expected error for invalid duration")
	}
	if err := json.Unmarshal([]byte(`null`), &d); err != nil || d != 0 {
		t.Errorf("null should leave zero value, got %v, %v", d, err)
	}
}

func TestShellConfig_YAML(t *testing.T) {
	t.Parallel()

	data := []byte(`
agent:
  name: Echo Bot
  credential_env: ECHO_KEY
loop:
  interval: 5s
prompt:
  worker: echo_worker
journal:
  driver: sqlite
  sqlite:
    dsn: ":memory:"
`)

	var cfg ShellConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if cfg.Agent.Name != "Echo Bot" || cfg.Agent.CredentialEnv != "ECHO_KEY" {
		t.Errorf("Agent = %+v", cfg.Agent)
	}
	if cfg.Loop.Interval.Duration() != 5*time.Second {
		t.Errorf("Interval = %v", cfg.Loop.Interval.Duration())
	}
	if cfg.Journal.Driver != JournalSQLite || cfg.Journal.SQLite.DSN != ":memory:" {
		t.Errorf("Journal = %+v", cfg.Journal)
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.Agent.Name != "Greeting Bot" {
		t.Errorf("Agent.Name = %q", cfg.Agent.Name)
	}
	if cfg.Agent.CredentialEnv != "GAME_API_KEY" {
		t.Errorf("Agent.CredentialEnv = %q", cfg.Agent.CredentialEnv)
	}
	if cfg.Loop.Interval.Duration() != time.Minute || !cfg.Loop.Verbose {
		t.Errorf("Loop = %+v", cfg.Loop)
	}
}

// Package config provides domain models for agent shell configuration.
package config

import "time"

// ShellConfig represents the complete agent shell configuration.
type ShellConfig struct {
	// Agent contains the agent identity.
	Agent AgentSettings `json:"agent" yaml:"agent"`
	// Loop configures the timed driver.
	Loop LoopConfig `json:"loop,omitempty" yaml:"loop,omitempty"`
	// Prompt configures the prompt driver.
	Prompt PromptConfig `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	// Planner selects the decision strategy.
	Planner PlannerConfig `json:"planner,omitempty" yaml:"planner,omitempty"`
	// Auth configures credential checking during init.
	Auth AuthConfig `json:"auth,omitempty" yaml:"auth,omitempty"`
	// Journal configures the action journal backend.
	Journal JournalConfig `json:"journal,omitempty" yaml:"journal,omitempty"`
	// Logging configures structured diagnostics.
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	// Telemetry configures tracing.
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
}

// AgentSettings contains the agent identity.
type AgentSettings struct {
	// Name is the agent display name.
	Name string `json:"name" yaml:"name"`
	// Goal is what the agent tries to achieve.
	Goal string `json:"goal,omitempty" yaml:"goal,omitempty"`
	// Description is the agent persona.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// CredentialEnv names the environment variable holding the API credential.
	CredentialEnv string `json:"credential_env,omitempty" yaml:"credential_env,omitempty"`
}

// LoopConfig configures the timed driver.
type LoopConfig struct {
	// Interval is the tick period.
	Interval Duration `json:"interval,omitempty" yaml:"interval,omitempty"`
	// Verbose emits per-tick diagnostics.
	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// PromptConfig configures the prompt driver.
type PromptConfig struct {
	// Worker is the id of the worker receiving tasks.
	Worker string `json:"worker,omitempty" yaml:"worker,omitempty"`
	// TaskTemplate wraps each input line; {{input}} marks the insertion point.
	TaskTemplate string `json:"task_template,omitempty" yaml:"task_template,omitempty"`
	// Prompt is printed before each read.
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	// Farewell is printed on exit.
	Farewell string `json:"farewell,omitempty" yaml:"farewell,omitempty"`
}

// PlannerConfig selects the decision strategy.
type PlannerConfig struct {
	// Provider is the planner kind (rule, openai).
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	// OpenAI configures the chat-completion planner.
	OpenAI OpenAIConfig `json:"openai,omitempty" yaml:"openai,omitempty"`
}

// OpenAIConfig configures an OpenAI-compatible chat completion endpoint.
type OpenAIConfig struct {
	APIKey  string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model   string   `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// AuthConfig configures credential checking during init.
type AuthConfig struct {
	// Provider is the authenticator kind (local, http).
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	// Endpoint is the token exchange URL for the http provider.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	// Header carries the credential, default "x-api-key".
	Header string `json:"header,omitempty" yaml:"header,omitempty"`
	// Timeout bounds the exchange request.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// JournalConfig configures the action journal backend.
type JournalConfig struct {
	// Driver is the backend (memory, sqlite, redis, badger).
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`
	// Recent is how many entries are fed back to the planner.
	Recent int `json:"recent,omitempty" yaml:"recent,omitempty"`
	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `json:"sqlite,omitempty" yaml:"sqlite,omitempty"`
	// Redis configures the redis backend.
	Redis RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`
	// Badger configures the badger backend.
	Badger BadgerConfig `json:"badger,omitempty" yaml:"badger,omitempty"`
}

// SQLiteConfig configures the sqlite journal.
type SQLiteConfig struct {
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

// RedisConfig configures the redis journal.
type RedisConfig struct {
	Address   string `json:"address,omitempty" yaml:"address,omitempty"`
	Password  string `json:"password,omitempty" yaml:"password,omitempty"`
	DB        int    `json:"db,omitempty" yaml:"db,omitempty"`
	KeyPrefix string `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty"`
}

// BadgerConfig configures the badger journal.
type BadgerConfig struct {
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// LoggingConfig configures structured diagnostics.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is console or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// TelemetryConfig configures tracing.
type TelemetryConfig struct {
	ServiceName string        `json:"service_name,omitempty" yaml:"service_name,omitempty"`
	Tracing     TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// TracingConfig configures the span exporter.
type TracingConfig struct {
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// Exporter is stdout or otlp.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	// Endpoint is the OTLP gRPC collector address.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// Planner, auth, journal, logging and exporter kinds.
const (
	PlannerRule   = "rule"
	PlannerOpenAI = "openai"

	AuthLocal = "local"
	AuthHTTP  = "http"

	JournalMemory = "memory"
	JournalSQLite = "sqlite"
	JournalRedis  = "redis"
	JournalBadger = "badger"

	FormatConsole = "console"
	FormatJSON    = "json"

	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// InputPlaceholder marks where the input line goes in a task template.
const InputPlaceholder = "{{input}}"

// Default returns the configuration that reproduces the greeting bot.
func Default() *ShellConfig {
	return &ShellConfig{
		Agent: AgentSettings{
			Name:          "Greeting Bot",
			Goal:          "Send friendly greetings",
			Description:   "A bot that sends friendly greetings to users",
			CredentialEnv: "GAME_API_KEY",
		},
		Loop: LoopConfig{
			Interval: Duration(60 * time.Second),
			Verbose:  true,
		},
		Prompt: PromptConfig{
			Worker:       "chat_worker",
			TaskTemplate: `Respond to the user's message: "` + InputPlaceholder + `"`,
			Prompt:       "You: ",
			Farewell:     "Goodbye!",
		},
		Planner: PlannerConfig{
			Provider: PlannerRule,
			OpenAI: OpenAIConfig{
				BaseURL: "https://api.openai.com",
				Model:   "gpt-4o-mini",
				Timeout: Duration(30 * time.Second),
			},
		},
		Auth: AuthConfig{
			Provider: AuthLocal,
			Header:   "x-api-key",
			Timeout:  Duration(10 * time.Second),
		},
		Journal: JournalConfig{
			Driver: JournalMemory,
			Recent: 10,
			SQLite: SQLiteConfig{DSN: "agentshell.db"},
			Redis:  RedisConfig{Address: "localhost:6379", KeyPrefix: "agentshell:"},
			Badger: BadgerConfig{Dir: ".agentshell/journal"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatConsole,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "agentshell",
			Tracing: TracingConfig{
				Exporter: ExporterStdout,
				Endpoint: "localhost:4317",
			},
		},
	}
}

// Duration is a time.Duration that supports JSON/YAML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the dotted path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates shell configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *ShellConfig) ValidationErrors {
	v.errors = nil

	v.validateAgent(config)
	v.validateLoop(config)
	v.validatePrompt(config)
	v.validatePlanner(config)
	v.validateAuth(config)
	v.validateJournal(config)
	v.validateLogging(config)
	v.validateTelemetry(config)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateAgent(config *ShellConfig) {
	if strings.TrimSpace(config.Agent.Name) == "" {
		v.addError("agent.name", "name is required")
	}
	if config.Agent.CredentialEnv == "" {
		v.addError("agent.credential_env", "credential_env is required")
	}
}

func (v *Validator) validateLoop(config *ShellConfig) {
	if config.Loop.Interval.Duration() <= 0 {
		v.addError("loop.interval", "interval must be positive")
	}
}

func (v *Validator) validatePrompt(config *ShellConfig) {
	if config.Prompt.Worker == "" {
		v.addError("prompt.worker", "worker is required")
	}
	if !strings.Contains(config.Prompt.TaskTemplate, InputPlaceholder) {
		v.addError("prompt.task_template", fmt.Sprintf("template must contain %s", InputPlaceholder))
	}
}

func (v *Validator) validatePlanner(config *ShellConfig) {
	switch config.Planner.Provider {
	case PlannerRule:
	case PlannerOpenAI:
		if config.Planner.OpenAI.APIKey == "" {
			v.addError("planner.openai.api_key", "api_key is required for openai planner")
		}
		if config.Planner.OpenAI.Model == "" {
			v.addError("planner.openai.model", "model is required for openai planner")
		}
		if config.Planner.OpenAI.Timeout.Duration() < 0 {
			v.addError("planner.openai.timeout", "timeout must be non-negative")
		}
	default:
		v.addError("planner.provider", fmt.Sprintf("unknown provider: %s", config.Planner.Provider))
	}
}

func (v *Validator) validateAuth(config *ShellConfig) {
	switch config.Auth.Provider {
	case AuthLocal:
	case AuthHTTP:
		if config.Auth.Endpoint == "" {
			v.addError("auth.endpoint", "endpoint is required for http auth")
		}
		if config.Auth.Header == "" {
			v.addError("auth.header", "header is required for http auth")
		}
	default:
		v.addError("auth.provider", fmt.Sprintf("unknown provider: %s", config.Auth.Provider))
	}
}

func (v *Validator) validateJournal(config *ShellConfig) {
	if config.Journal.Recent < 0 {
		v.addError("journal.recent", "recent must be non-negative")
	}

	switch config.Journal.Driver {
	case JournalMemory:
	case JournalSQLite:
		if config.Journal.SQLite.DSN == "" {
			v.addError("journal.sqlite.dsn", "dsn is required for sqlite journal")
		}
	case JournalRedis:
		if config.Journal.Redis.Address == "" {
			v.addError("journal.redis.address", "address is required for redis journal")
		}
		if config.Journal.Redis.DB < 0 {
			v.addError("journal.redis.db", "db must be non-negative")
		}
	case JournalBadger:
		if config.Journal.Badger.Dir == "" {
			v.addError("journal.badger.dir", "dir is required for badger journal")
		}
	default:
		v.addError("journal.driver", fmt.Sprintf("unknown driver: %s", config.Journal.Driver))
	}
}

func (v *Validator) validateLogging(config *ShellConfig) {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(config.Logging.Level)] {
		v.addError("logging.level", fmt.Sprintf("invalid level: %s", config.Logging.Level))
	}
	if config.Logging.Format != FormatConsole && config.Logging.Format != FormatJSON {
		v.addError("logging.format", fmt.Sprintf("invalid format: %s", config.Logging.Format))
	}
}

func (v *Validator) validateTelemetry(config *ShellConfig) {
	if !config.Telemetry.Tracing.Enabled {
		return
	}

	switch config.Telemetry.Tracing.Exporter {
	case ExporterStdout:
	case ExporterOTLP:
		if config.Telemetry.Tracing.Endpoint == "" {
			v.addError("telemetry.tracing.endpoint", "endpoint is required for otlp exporter")
		}
	default:
		v.addError("telemetry.tracing.exporter", fmt.Sprintf("unknown exporter: %s", config.Telemetry.Tracing.Exporter))
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	infraconfig "github.com/felixgeelhaar/agent-shell/infrastructure/config"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	configPath string
	strict     bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Validate an agentshell configuration file.

This command checks:
  - File format (YAML or JSON)
  - Planner, auth, journal, logging and exporter kinds
  - Interval, prompt worker and task template
  - Environment variable references (in strict mode)

Examples:
  agentshell validate -c agentshell.yaml
  agentshell validate -c agentshell.yaml --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateConfig(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (required)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail on unset environment variables")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// validateConfig validates the configuration file.
func (a *App) validateConfig(opts *validateOptions) error {
	loader := infraconfig.NewLoaderWithOptions(
		infraconfig.WithValidation(true),
		infraconfig.WithStrictEnv(opts.strict),
	)

	cfg, err := loader.LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(a.stdout, "Configuration is valid: %s\n", opts.configPath)
	fmt.Fprintf(a.stdout, "  Agent:   %s\n", cfg.Agent.Name)
	fmt.Fprintf(a.stdout, "  Planner: %s\n", cfg.Planner.Provider)
	fmt.Fprintf(a.stdout, "  Journal: %s\n", cfg.Journal.Driver)
	fmt.Fprintf(a.stdout, "  Auth:    %s\n", cfg.Auth.Provider)
	return nil
}

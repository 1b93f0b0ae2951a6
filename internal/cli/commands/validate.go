package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sniflog/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a SnifLog configuration file without analyzing a capture.

Checks:
  - YAML syntax
  - bytes_per_line range
  - pause_threshold is not negative
  - Direction labels are distinct
  - Webhook URLs and triggers`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	// Load and validate config
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// Report what we found
	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Bytes per line:  %d\n", cfg.BytesPerLine)
	fmt.Fprintf(out, "  Pause threshold: %s\n", cfg.PauseThreshold)
	fmt.Fprintf(out, "  Outgoing label:  %s\n", cfg.Directions.Outgoing)
	fmt.Fprintf(out, "  Incoming label:  %s\n", cfg.Directions.Incoming)
	fmt.Fprintf(out, "  Webhooks:        %d\n", len(cfg.Webhooks))

	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		fmt.Fprintf(out, "  %d. %s [%s]\n", i+1, name, wh.Trigger)
	}

	return nil
}

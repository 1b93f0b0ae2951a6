package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sniflog/pkg/analyzer"
	"github.com/ccollicutt/sniflog/pkg/config"
	"github.com/ccollicutt/sniflog/pkg/output"
	"github.com/ccollicutt/sniflog/pkg/parser"
	"github.com/ccollicutt/sniflog/pkg/webhook"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	ConfigPath   string
	Output       string
	Pause        time.Duration
	BytesPerLine int
	Wrap         bool
	Verbose      bool
	Quiet        bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <log-file>",
		Short: "Reassemble the messages of a serial capture log",
		Long: `Read a jpnevulator capture log and print one line per message:

  <timestamp> <seconds since previous message> <direction> <payload hex>

A separator line is printed before a message that follows a pause longer
than the pause threshold. The number of incoming and outgoing frames is
printed at the end.

Lines that cannot be used are reported and skipped; they never stop the
analysis. Use "-" to read the log from standard input. Logs compressed
with zstd or gzip are decompressed transparently.

Exit codes:
  0 - Capture log analyzed
  2 - Configuration or I/O error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (defaults apply if omitted)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().DurationVar(&opts.Pause, "pause", config.DefaultPauseThreshold, "Print a separator after gaps longer than this")
	cmd.Flags().IntVar(&opts.BytesPerLine, "bytes-per-line", config.DefaultBytesPerLine, "Bytes per dump line (jpnevulator --width)")
	cmd.Flags().BoolVar(&opts.Wrap, "wrap", false, "Wrap payloads at bytes-per-line")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show statistics after the frame counts")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Frame counts only, no messages")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	cfg, err := loadAnalyzeConfig(ctx, cmd, opts)
	if err != nil {
		return err
	}

	formatter, err := createFormatter(opts, cfg.BytesPerLine)
	if err != nil {
		return err
	}

	// Unusable lines are reported as they are found. In text mode they
	// go to stdout between the messages; otherwise stdout stays parseable.
	diagOut := stderr
	if formatter.Name() == "text" && !opts.Quiet {
		diagOut = stdout
	}

	started := time.Now()

	source := parser.NewFileSource(logFile)
	defer source.Close()

	result, err := parser.Parse(ctx, source,
		parser.WithBytesPerLine(cfg.BytesPerLine),
		parser.WithDirections(cfg.Directions.ParserDirections()),
		parser.WithDiagnosticHandler(func(d parser.Diagnostic) {
			output.WriteDiagnostic(diagOut, d)
		}),
	)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	timeline := analyzer.BuildTimeline(result.Messages, cfg.PauseThreshold)

	// Create report
	report := output.NewReport(result, timeline, logFile, started)

	// Output report
	if err := formatter.Format(ctx, report, stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Send webhooks (errors logged but don't fail analysis)
	sendWebhooks(ctx, stderr, cfg, opts, report)

	return nil
}

// loadAnalyzeConfig loads the config file, if any, and applies flag
// overrides. Flags win over the file and the environment.
func loadAnalyzeConfig(ctx context.Context, cmd *cobra.Command, opts *AnalyzeOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(ctx, opts.ConfigPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("pause") {
		cfg.PauseThreshold = opts.Pause
	}
	if flags.Changed("bytes-per-line") {
		cfg.BytesPerLine = opts.BytesPerLine
		if opts.BytesPerLine == 0 {
			return nil, fmt.Errorf("invalid --bytes-per-line: must be positive")
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	return cfg, nil
}

func createFormatter(opts *AnalyzeOptions, bytesPerLine int) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}
	if opts.Wrap {
		formatOpts.WrapWidth = bytesPerLine
	}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

// sendWebhooks sends the report to all configured webhooks.
// Results are logged to log; failures don't fail the analysis.
func sendWebhooks(ctx context.Context, log io.Writer, cfg *config.Config, opts *AnalyzeOptions, report *output.Report) {
	// Collect webhooks from config and CLI
	webhooks := collectWebhooks(cfg, opts)

	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		// Check trigger condition
		if !shouldFireWebhook(wh.Trigger, report.HasIssues()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			fmt.Fprintf(log, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(log, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	// Add config file webhooks
	webhooks = append(webhooks, cfg.Webhooks...)

	// Add CLI webhook if specified
	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIssues
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire based on trigger and issues.
func shouldFireWebhook(trigger config.WebhookTrigger, hasIssues bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		// on_issues and unset
		return hasIssues
	}
}

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/sniflog/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect direction labels and dump width in a capture log",
		Long: `Sample the head of a capture log and suggest parser settings.

Reports the direction labels found in message headers and the widest dump
line, with a ready-to-use YAML configuration snippet.

Optionally generates a starter config file with --write-config.

Example:
  sniflog detect capture.txt
  sniflog detect --sample 1000 capture.txt.zst
  sniflog detect -w sniflog.yaml capture.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 200, "Number of lines to sample")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	// Check file exists
	if logFile != "-" {
		if _, err := os.Stat(logFile); os.IsNotExist(err) {
			return fmt.Errorf("log file not found: %s", logFile)
		}
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	// Write config file if requested
	if opts.WriteConfig != "" {
		if err := writeStarterConfig(out, result, logFile, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(out, result, logFile)
	default:
		return outputDetectText(out, result, logFile)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string) error {
	fmt.Fprintln(w, "=== Capture Log Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Header lines: %d\n", result.HeaderLines)
	fmt.Fprintf(w, "Dump lines: %d\n", result.DataLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No message headers detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: headers look like \"2015-08-10 14:39:50.025182: SENDING\".")
		fmt.Fprintln(w, "Check that the file was written by jpnevulator with --timing-print.")
		return nil
	}

	fmt.Fprintln(w, "Direction labels:")
	for _, l := range result.Labels {
		fmt.Fprintf(w, "  %-12s %d header(s)\n", l.Label, l.Count)
	}
	if len(result.Labels) > 2 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "WARNING: More than two labels found; only two directions are analyzed.")
	}
	fmt.Fprintln(w)

	if result.Pair != "" {
		fmt.Fprintf(w, "Detected labels: %s\n", result.Pair)
	}
	if result.BytesPerLine > 0 {
		fmt.Fprintf(w, "Bytes per line: %d\n", result.BytesPerLine)
	} else {
		fmt.Fprintln(w, "Bytes per line: not measured (no full dump lines sampled)")
	}
	fmt.Fprintln(w)

	snippet, err := yaml.Marshal(result.Config())
	if err != nil {
		return fmt.Errorf("rendering config snippet: %w", err)
	}

	fmt.Fprintln(w, "--- Configuration snippet (copy to your config file) ---")
	fmt.Fprintln(w)
	fmt.Fprint(w, string(snippet))
	fmt.Fprintln(w)

	return nil
}

// JSONLabel represents a direction label in JSON output.
type JSONLabel struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File         string      `json:"file"`
	SampledLines int         `json:"sampled_lines"`
	HeaderLines  int         `json:"header_lines"`
	DataLines    int         `json:"data_lines"`
	Labels       []JSONLabel `json:"labels"`
	BytesPerLine int         `json:"bytes_per_line,omitempty"`
	Outgoing     string      `json:"outgoing"`
	Incoming     string      `json:"incoming"`
	Pair         string      `json:"pair,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string) error {
	output := JSONOutput{
		File:         logFile,
		SampledLines: result.SampledLines,
		HeaderLines:  result.HeaderLines,
		DataLines:    result.DataLines,
		Labels:       make([]JSONLabel, 0, len(result.Labels)),
		BytesPerLine: result.BytesPerLine,
		Outgoing:     result.Outgoing,
		Incoming:     result.Incoming,
		Pair:         result.Pair,
	}

	for _, l := range result.Labels {
		output.Labels = append(output.Labels, JSONLabel{Label: l.Label, Count: l.Count})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// writeStarterConfig generates a starter config file with the detected settings.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, logFile, configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	// Need at least one header to generate config
	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no message headers detected")
	}

	config, err := generateStarterConfig(result, logFile)
	if err != nil {
		return err
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config from the detection result.
func generateStarterConfig(result *detector.DetectionResult, logFile string) (string, error) {
	// Get absolute path for log file if possible
	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil && logFile != "-" {
		absLogFile = abs
	}

	body, err := yaml.Marshal(result.Config())
	if err != nil {
		return "", fmt.Errorf("rendering config: %w", err)
	}

	return fmt.Sprintf(`# SnifLog Configuration
# Generated by: sniflog detect %s
# Sampled %d line(s), %d header(s)

%s
# Send the JSON report somewhere when lines could not be used:
# webhooks:
#   - name: ops
#     url: https://example.com/hooks/sniflog
#     token: ${SNIFLOG_WEBHOOK_TOKEN}
#     trigger: on_issues
`, absLogFile, result.SampledLines, result.HeaderLines, body), nil
}

package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/sniflog/pkg/config"
	"github.com/ccollicutt/sniflog/pkg/detector"
)

func detectedPLC() *detector.DetectionResult {
	return &detector.DetectionResult{
		SampledLines: 40,
		HeaderLines:  10,
		DataLines:    30,
		Labels: []detector.LabelCount{
			{Label: "PLC", Count: 6},
			{Label: "METER", Count: 4},
		},
		BytesPerLine: 8,
		Outgoing:     "PLC",
		Incoming:     "METER",
	}
}

func TestGenerateStarterConfig(t *testing.T) {
	generated, err := generateStarterConfig(detectedPLC(), "/var/log/capture.txt")
	if err != nil {
		t.Fatalf("generateStarterConfig failed: %v", err)
	}

	checks := []string{
		"# SnifLog Configuration",
		"/var/log/capture.txt",
		"bytes_per_line: 8",
		"pause_threshold: 1s",
		"outgoing: PLC",
		"incoming: METER",
		"# webhooks:",
	}

	for _, check := range checks {
		if !strings.Contains(generated, check) {
			t.Errorf("Config missing %q", check)
		}
	}
}

func TestWriteStarterConfig_Success(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sniflog.yaml")

	var out bytes.Buffer
	if err := writeStarterConfig(&out, detectedPLC(), "/var/log/capture.txt", configPath); err != nil {
		t.Fatalf("writeStarterConfig failed: %v", err)
	}

	if !strings.Contains(out.String(), "Wrote starter config to: "+configPath) {
		t.Errorf("Unexpected output: %q", out.String())
	}

	// The generated file must load as a valid config
	cfg, err := config.Load(context.Background(), configPath)
	if err != nil {
		t.Fatalf("Generated config does not load: %v", err)
	}
	if cfg.BytesPerLine != 8 {
		t.Errorf("BytesPerLine = %d, want 8", cfg.BytesPerLine)
	}
	if cfg.Directions.Outgoing != "PLC" || cfg.Directions.Incoming != "METER" {
		t.Errorf("Directions = %+v, want PLC/METER", cfg.Directions)
	}
	if cfg.PauseThreshold != config.DefaultPauseThreshold {
		t.Errorf("PauseThreshold = %v, want %v", cfg.PauseThreshold, config.DefaultPauseThreshold)
	}
	if len(cfg.Webhooks) != 0 {
		t.Errorf("Webhooks = %v, want none", cfg.Webhooks)
	}
}

func TestWriteStarterConfig_NoOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "existing.yaml")

	if err := os.WriteFile(configPath, []byte("existing content"), 0644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	var out bytes.Buffer
	err := writeStarterConfig(&out, detectedPLC(), "/var/log/capture.txt", configPath)
	if err == nil {
		t.Fatal("Expected error when file exists, got nil")
	}
	if !strings.Contains(err.Error(), "will not overwrite") {
		t.Errorf("Expected 'will not overwrite' error, got: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	if string(content) != "existing content" {
		t.Error("Existing file was modified")
	}
}

func TestWriteStarterConfig_NoMatch(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sniflog.yaml")

	result := &detector.DetectionResult{SampledLines: 100, DataLines: 100}

	var out bytes.Buffer
	err := writeStarterConfig(&out, result, "/var/log/capture.txt", configPath)
	if err == nil {
		t.Fatal("Expected error when no headers detected, got nil")
	}
	if !strings.Contains(err.Error(), "no message headers detected") {
		t.Errorf("Expected 'no message headers detected' error, got: %v", err)
	}
	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Error("Config file should not have been created")
	}
}

func TestDetectOptions_Defaults(t *testing.T) {
	cmd := NewDetectCommand()

	output, _ := cmd.Flags().GetString("output")
	if output != "text" {
		t.Errorf("Expected default output 'text', got %q", output)
	}

	sample, _ := cmd.Flags().GetInt("sample")
	if sample != 200 {
		t.Errorf("Expected default sample 200, got %d", sample)
	}

	writeConfig, _ := cmd.Flags().GetString("write-config")
	if writeConfig != "" {
		t.Errorf("Expected empty write-config, got %q", writeConfig)
	}
}

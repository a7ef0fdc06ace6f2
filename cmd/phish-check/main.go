package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/core"
	"github.com/deepcatch/deepcatch/internal/di"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	service *core.AnalysisService,
	explainer core.ExplanationProvider,
) error {
	defer logger.Sync()

	text, err := readInput(flags, logger)
	if err != nil {
		return err
	}

	startTime := time.Now()
	report, err := service.Analyze(context.Background(), text)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	duration := time.Since(startTime)

	if flags.JSONOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(report, duration)
	}

	// Close any resources that need closing
	if closer, ok := explainer.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close explanation provider", zap.Error(err))
		}
	}

	return nil
}

func readInput(flags *di.CLIFlags, logger *zap.Logger) (string, error) {
	var reader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return "", fmt.Errorf("failed to open input file %s: %w", flags.InputFile, err)
		}
		defer file.Close()
		reader = file
		logger.Info("Reading content from file", zap.String("file", flags.InputFile))
	} else {
		reader = os.Stdin
		logger.Info("Reading content from stdin")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func printReport(report *core.AnalysisReport, duration time.Duration) {
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Verdict: %s\n", report.Verdict)
	fmt.Printf("Confidence: %d\n", report.Confidence)
	fmt.Printf("Degraded: %t\n", report.Degraded)
	fmt.Printf("Explanation: %s\n", report.Explanation)
	fmt.Printf("\n=== Metadata ===\n")
	fmt.Printf("Input type: %s\n", report.Metadata.InputType)
	fmt.Printf("Suspicious elements: %d\n", report.Metadata.SuspiciousElements)
	if len(report.Metadata.URLsFound) > 0 {
		fmt.Printf("URLs found: %v\n", report.Metadata.URLsFound)
	}
	if len(report.Metadata.SendersDomains) > 0 {
		fmt.Printf("Senders/domains: %v\n", report.Metadata.SendersDomains)
	}
	if report.HighlightedContent != "" {
		fmt.Printf("\n=== Highlighted Content ===\n%s\n", report.HighlightedContent)
	}
	fmt.Printf("\nProcessing time: %v\n", duration)
}

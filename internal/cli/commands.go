package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/0x0918/sstan/internal/config"
	"github.com/0x0918/sstan/internal/engine"
	"github.com/0x0918/sstan/internal/logging"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/report"
	"github.com/0x0918/sstan/internal/tui"
)

func AddCommands(root *cobra.Command) {
	root.AddCommand(newScanCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newRulesCmd())
}

func newScanCmd() *cobra.Command {
	var (
		format        string
		budgetMs      int
		failOn        string
		outputFile    string
		configPath    string
		baselinePath  string
		writeBaseline string
		deltaOnly     bool
		failFast      bool
		descriptions  bool
		useTUI        bool
	)
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan Solidity sources for vulnerabilities, gas optimizations and quality issues",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(path, configPath)
			if err != nil {
				return err
			}
			logger := logging.New(cfg, "sstan")

			ctx := cmd.Context()
			if budgetMs > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(budgetMs)*time.Millisecond)
				defer cancel()
			}

			req := model.ScanRequest{
				Path:      path,
				DeltaOnly: deltaOnly,
				FailFast:  failFast,
				Baseline:  baselinePath,
			}
			result, runErr := engine.Scan(ctx, req, cfg, logger)
			if result == nil {
				return runErr
			}
			stopOnFailure := failFast || cfg.FailurePolicy == config.PolicyFailFast || ctx.Err() != nil
			if runErr != nil && !stopOnFailure {
				logger.Warn("some rules failed", "error", runErr)
			}

			if useTUI {
				if err := tui.Run(result.Issues); err != nil {
					return err
				}
			} else if err := writeReport(cmd.OutOrStdout(), outputFile, f, result, report.Options{Descriptions: descriptions}); err != nil {
				return err
			}

			if writeBaseline != "" {
				if err := engine.WriteBaseline(writeBaseline, result.Issues); err != nil {
					return err
				}
			}
			if runErr != nil && stopOnFailure {
				return runErr
			}
			if failOn != "" {
				threshold := model.ParseSeverity(failOn)
				if engine.AtOrAbove(result.Issues, threshold) {
					return fmt.Errorf("fail-on threshold met: %s", threshold)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text|markdown|json|sarif")
	cmd.Flags().IntVar(&budgetMs, "budget-ms", 0, "Time budget for the scan in milliseconds (0 for none)")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Fail if a finding of severity or higher is found (low|medium|high|critical)")
	cmd.Flags().StringVarP(&outputFile, "out", "o", "", "Write report to file instead of stdout")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default: nearest "+config.FileName+")")
	cmd.Flags().StringVar(&baselinePath, "baseline", "", "Drop findings whose fingerprints are in this baseline file")
	cmd.Flags().StringVar(&writeBaseline, "write-baseline", "", "Write a baseline file with finding fingerprints")
	cmd.Flags().BoolVar(&deltaOnly, "delta", false, "Analyze only files changed in the git worktree")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first rule failure")
	cmd.Flags().BoolVar(&descriptions, "descriptions", false, "Include rule descriptions in markdown reports")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Browse findings interactively")
	return cmd
}

func loadConfig(path, explicit string) (config.Config, error) {
	if explicit != "" {
		return config.LoadFile(explicit)
	}
	cfg, _, err := config.Load(path)
	return cfg, err
}

func writeReport(stdout io.Writer, outputFile string, f report.Format, res *engine.ScanResult, opts report.Options) error {
	if outputFile == "" {
		return report.Write(stdout, f, res, opts)
	}
	file, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	if err := report.Write(file, f, res, opts); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

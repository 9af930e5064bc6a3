package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tripsort/internal/app"
	"tripsort/internal/config"
	"tripsort/internal/mapping"
	"tripsort/internal/orchestrator"
	"tripsort/internal/output"
	"tripsort/internal/review"
	"tripsort/internal/scanner"
	"tripsort/internal/watcher"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "tripsort",
	Short:         "Organize trip photo folders into day-numbered folders",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "tripsort.toml", "path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	detectCmd.Flags().Bool("json", false, "print mappings as JSON")
	applyCmd.Flags().Bool("dry-run", false, "show what would change without touching anything")
	applyCmd.Flags().Bool("yes", false, "skip interactive review and accept all detections")

	rootCmd.AddCommand(initCmd, detectCmd, applyCmd, undoCmd, historyCmd, watchCmd)
}

func newOutput() *output.Output {
	cfg := output.DefaultConfig()
	cfg.Verbose = verbose
	return output.New(cfg)
}

// scanProgress adapts the output progress indicator to the scanner's
// per-folder photo-count callback.
func scanProgress(out *output.Output) scanner.Progress {
	started := false
	return func(current, total int) {
		if !started {
			out.StartProgress(total)
			started = true
		}
		out.UpdateProgress(current, "Counting photos")
	}
}

// newApp loads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "Detect", "Apply").
func newApp(operation string) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, operation, verbose)
}

// init command
var initCmd = &cobra.Command{
	Use:   "init <project-name> [root-path]",
	Short: "Create a configuration file for a trip",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 2 {
			root = args[1]
		}
		abs, err := absPath(root)
		if err != nil {
			return err
		}

		cfg := config.Default(args[0], abs)
		if err := config.Save(cfg, configPath); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Configuration written to %s\n", configPath)
		fmt.Printf("Project: %s\n", cfg.ProjectName)
		fmt.Printf("Root:    %s\n", cfg.RootPath)
		return nil
	},
}

func absPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("root path is not a directory: %s", path)
	}
	return filepath.Abs(path)
}

// detect command
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Scan the trip root and show the inferred day mapping",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := newApp("Detect")
		if err != nil {
			return err
		}
		defer a.Close()

		out := newOutput()

		result, err := a.Detect(cmd.Context(), scanProgress(out))
		out.EndProgress()
		if err != nil {
			return err
		}

		if asJSON {
			data, err := json.MarshalIndent(result.Mappings, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		printMappings(out, result.Mappings)
		if result.Listing.LoosePhotos > 0 {
			out.Info("\n%d loose photos at the root, outside any folder", result.Listing.LoosePhotos)
		}
		return nil
	},
}

func printMappings(out *output.Output, mappings []mapping.FolderMapping) {
	if len(mappings) == 0 {
		out.Info("No candidate folders found.")
		return
	}

	out.Info("%-30s %-5s %-12s %-15s %6s  %s", "FOLDER", "DAY", "CONFIDENCE", "PATTERN", "PHOTOS", "SUGGESTED")
	for _, m := range mappings {
		day := "-"
		if m.DetectedDay != nil {
			day = fmt.Sprintf("%d", *m.DetectedDay)
		}
		suggested := m.SuggestedName
		if m.Skip {
			suggested += " (skip)"
		}
		out.Info("%-30s %-5s %-12s %-15s %6d  %s",
			m.Folder, day, m.Confidence, m.PatternMatched, m.PhotoCount, suggested)
	}
}

// apply command
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Rename and create day folders from the detected mapping",
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		acceptAll, _ := cmd.Flags().GetBool("yes")

		a, err := newApp("Apply")
		if err != nil {
			return err
		}
		defer a.Close()

		out := newOutput()

		result, err := a.Detect(cmd.Context(), scanProgress(out))
		out.EndProgress()
		if err != nil {
			return err
		}
		mappings := result.Mappings

		if !dryRun && !acceptAll {
			if !review.IsInteractive() {
				return fmt.Errorf("stdin is not a terminal; re-run with --yes or --dry-run")
			}
			prompter := review.NewPrompter(os.Stdin, os.Stdout)
			mappings, err = review.ReviewMappings(prompter, mappings)
			if err != nil {
				if errors.Is(err, review.ErrReviewAborted) {
					out.Info("Aborted, nothing changed.")
					return nil
				}
				return err
			}
		}

		outcome, err := a.Apply(cmd.Context(), mappings, dryRun)
		if err != nil {
			return err
		}

		out.Info("%s", outcome.Summary)
		if dryRun {
			out.Info("\nDry run, nothing changed.")
			return nil
		}

		for _, f := range outcome.Exec.Failed {
			out.Error("failed: %s -> %s: %v", f.From, f.To, f.Err)
		}
		out.Info("\nApplied as transaction %s", outcome.TransactionID)
		out.Verbose("renamed %d folders, created %d folders",
			len(outcome.Exec.Renamed), len(outcome.Exec.CreatedDirs))
		return nil
	},
}

// undo command
var undoCmd = &cobra.Command{
	Use:   "undo <transaction-id>",
	Short: "Reverse a previously applied mapping",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Undo")
		if err != nil {
			return err
		}
		defer a.Close()

		out := newOutput()

		outcome, err := a.Undo(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, orchestrator.ErrTransactionNotFound) {
				return fmt.Errorf("no transaction %s recorded for this project", args[0])
			}
			return err
		}

		for _, f := range outcome.Restore.Failed {
			out.Error("failed: %s -> %s: %v", f.From, f.To, f.Err)
		}
		out.Info("%s", outcome.Summary)
		out.Verbose("reversed %d renames, removed %d empty folders",
			len(outcome.Restore.Reversed), len(outcome.Restore.Removed))
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded transactions, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		txns := a.History()
		if len(txns) == 0 {
			fmt.Println("No transactions recorded.")
			return nil
		}

		for _, txn := range txns {
			fmt.Printf("%s  %s  renamed=%d created=%d skipped=%d\n",
				txn.ID, txn.Timestamp,
				len(txn.Changes.Renamed), len(txn.Changes.Created), len(txn.Changes.Skipped))
		}
		return nil
	},
}

// watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the trip root and classify folders as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Watch")
		if err != nil {
			return err
		}
		defer a.Close()

		out := newOutput()
		cfg := a.Config()

		wcfg := watcher.DefaultConfig()
		if cfg.Watch.DebounceSeconds > 0 {
			wcfg.DebounceSeconds = cfg.Watch.DebounceSeconds
		}
		if len(cfg.Watch.IgnorePatterns) > 0 {
			wcfg.IgnorePatterns = cfg.Watch.IgnorePatterns
		}

		w := watcher.New(wcfg, func(path string) {
			// Re-run detection so the new folder shows up classified.
			result, err := a.Detect(cmd.Context(), nil)
			if err != nil {
				out.Error("detection failed: %v", err)
				return
			}
			out.Info("\nNew folder: %s", path)
			printMappings(out, result.Mappings)
		})

		if err := w.Start(cfg.RootPath); err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}

		out.Info("Watching %s (Ctrl-C to stop)", cfg.RootPath)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		summary := w.Stop()
		out.Info("\nWatched for %s: %d folders seen, %d ignored",
			summary.Duration.Round(time.Second), summary.FoldersSeen, summary.FoldersIgnored)
		return nil
	},
}

// Package main contains the cli implementation of the tool. It uses cobra
// for cli plumbing, the way schemadrift's teacher does.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"github.com/shuymn/stateql/internal/config"
	_ "github.com/shuymn/stateql/internal/dialect/mysql"
	"github.com/shuymn/stateql/internal/logging"
	"github.com/shuymn/stateql/internal/orchestrator"
)

type commonFlags struct {
	configFile    string
	dialect       string
	enableDrop    bool
	detectRenames bool
	logLevel      string
	logFormat     string
}

type planFlags struct {
	commonFlags
	currentFile string
	desiredFile string
	outFile     string
}

type applyFlags struct {
	commonFlags
	currentFile string
	desiredFile string
	dsn         string
	dryRun      bool
	timeout     int
}

type exportFlags struct {
	commonFlags
	currentFile string
	desiredFile string
	outFile     string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "schemadrift",
		Short: "Declarative, dialect-agnostic SQL schema migration tool",
	}

	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(applyCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command, f *commonFlags) {
	cmd.Flags().StringVar(&f.configFile, "config", "", "Path to schemadrift.toml (optional)")
	cmd.Flags().StringVar(&f.dialect, "dialect", "", "Target dialect (overrides config)")
	cmd.Flags().BoolVar(&f.enableDrop, "enable-drop", true, "Emit DROP statements for objects removed from the desired schema")
	cmd.Flags().BoolVar(&f.detectRenames, "detect-renames", true, "Honor @renamed annotations in the desired schema (renames are never heuristically guessed)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	cmd.Flags().StringVar(&f.logFormat, "log-format", "", "Log format: text, json (overrides config)")
}

// resolve merges a commonFlags set with the config file (if any), flags
// taking priority over file values the way the teacher's flag/env
// precedence works.
func (f commonFlags) resolve() (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if f.dialect != "" {
		cfg.Dialect = f.dialect
	}
	cfg.EnableDrop = f.enableDrop
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Logging.Format = f.logFormat
	}
	return cfg, nil
}

func planCmd() *cobra.Command {
	flags := &planFlags{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute and print the migration plan between two schema files",
		Long: `Parses the current and desired schema files, diffs them, and prints
the resulting SQL script without touching a database.

Example:
  schemadrift plan --current current.sql --desired desired.sql`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPlan(flags)
		},
	}
	addCommonFlags(cmd, &flags.commonFlags)
	cmd.Flags().StringVar(&flags.currentFile, "current", "", "Path to the current schema file (empty means no schema exists yet)")
	cmd.Flags().StringVarP(&flags.desiredFile, "desired", "d", "", "Path to the desired schema file (required)")
	cmd.Flags().StringVarP(&flags.outFile, "out", "o", "", "Write the plan to this file instead of stdout")
	return cmd
}

func runPlan(flags *planFlags) error {
	if flags.desiredFile == "" {
		return fmt.Errorf("--desired is required")
	}

	cfg, err := flags.resolve()
	if err != nil {
		return err
	}
	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	currentSQL, desiredSQL, err := readSchemaFiles(flags.currentFile, flags.desiredFile)
	if err != nil {
		return err
	}

	outcome, err := orchestrator.Compute(context.Background(), currentSQL, desiredSQL, orchestrator.Options{
		Dialect:                 cfg.Dialect,
		EnableDrop:              cfg.EnableDrop,
		Log:                     log,
		IgnoreRenameAnnotations: !flags.detectRenames,
	})
	if err != nil {
		return fmt.Errorf("computing plan: %w", err)
	}

	for _, w := range outcome.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	for _, d := range outcome.Deprecated {
		fmt.Fprintf(os.Stderr, "warning: line %d uses the legacy @rename spelling for %q; use @renamed instead\n", d.Line, d.OldName.String())
	}

	return writeOutput(orchestrator.Render(outcome), flags.outFile)
}

func exportCmd() *cobra.Command {
	flags := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the migration plan to a file for review or version control",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runExport(flags)
		},
	}
	addCommonFlags(cmd, &flags.commonFlags)
	cmd.Flags().StringVar(&flags.currentFile, "current", "", "Path to the current schema file (empty means no schema exists yet)")
	cmd.Flags().StringVarP(&flags.desiredFile, "desired", "d", "", "Path to the desired schema file (required)")
	cmd.Flags().StringVarP(&flags.outFile, "out", "o", "", "Output file (required)")
	return cmd
}

func runExport(flags *exportFlags) error {
	if flags.desiredFile == "" {
		return fmt.Errorf("--desired is required")
	}
	if flags.outFile == "" {
		return fmt.Errorf("--out is required")
	}

	cfg, err := flags.resolve()
	if err != nil {
		return err
	}
	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	currentSQL, desiredSQL, err := readSchemaFiles(flags.currentFile, flags.desiredFile)
	if err != nil {
		return err
	}

	outcome, err := orchestrator.Compute(context.Background(), currentSQL, desiredSQL, orchestrator.Options{
		Dialect:                 cfg.Dialect,
		EnableDrop:              cfg.EnableDrop,
		Log:                     log,
		IgnoreRenameAnnotations: !flags.detectRenames,
	})
	if err != nil {
		return fmt.Errorf("computing plan: %w", err)
	}

	if err := writeOutput(orchestrator.Render(outcome), flags.outFile); err != nil {
		return err
	}
	fmt.Printf("plan exported to %s (%d statement(s))\n", flags.outFile, len(outcome.Plan.Statements()))
	return nil
}

func applyCmd() *cobra.Command {
	flags := &applyFlags{}
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Compute and execute the migration plan against a live database",
		Long: `Connects to the target database and applies the schema changes needed
to reach the desired schema.

Example:
  schemadrift apply --dsn "user:pass@tcp(localhost:3306)/mydb" --desired desired.sql
  schemadrift apply --dsn "..." --desired desired.sql --dry-run`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runApply(flags)
		},
	}
	addCommonFlags(cmd, &flags.commonFlags)
	cmd.Flags().StringVar(&flags.currentFile, "current", "", "Path to the current schema file (empty means introspect nothing, i.e. a first deploy)")
	cmd.Flags().StringVarP(&flags.desiredFile, "desired", "d", "", "Path to the desired schema file (required)")
	cmd.Flags().StringVar(&flags.dsn, "dsn", "", "Database connection string (required unless --dry-run)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the plan without executing it")
	cmd.Flags().IntVar(&flags.timeout, "timeout", 300, "Timeout in seconds for the whole apply run, including connecting and executing the plan")
	return cmd
}

func runApply(flags *applyFlags) error {
	if flags.desiredFile == "" {
		return fmt.Errorf("--desired is required")
	}
	if flags.dsn == "" && !flags.dryRun {
		return fmt.Errorf("--dsn is required unless --dry-run is set")
	}

	cfg, err := flags.resolve()
	if err != nil {
		return err
	}
	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	currentSQL, desiredSQL, err := readSchemaFiles(flags.currentFile, flags.desiredFile)
	if err != nil {
		return err
	}

	opts := orchestrator.Options{
		Dialect:                 cfg.Dialect,
		EnableDrop:              cfg.EnableDrop,
		Log:                     log,
		IgnoreRenameAnnotations: !flags.detectRenames,
	}

	if flags.dryRun {
		outcome, err := orchestrator.Compute(context.Background(), currentSQL, desiredSQL, opts)
		if err != nil {
			return fmt.Errorf("computing plan: %w", err)
		}
		fmt.Println(orchestrator.Render(outcome))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(flags.timeout)*time.Second)
	defer cancel()

	var dsn string
	if flags.dsn != "" {
		dsn = flags.dsn
	} else {
		dsn = cfg.DSN
	}

	outcome, err := orchestrator.Apply(ctx, currentSQL, desiredSQL, dsn, opts)
	if err != nil {
		return err
	}

	fmt.Printf("applied %d statement(s)\n", len(outcome.Plan.Statements()))
	return nil
}

func readSchemaFiles(currentPath, desiredPath string) (current, desired string, err error) {
	if currentPath != "" {
		current, err = readFile(currentPath)
		if err != nil {
			return "", "", err
		}
	}
	desired, err = readFile(desiredPath)
	if err != nil {
		return "", "", err
	}
	return current, desired, nil
}

func readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(content), nil
}

func writeOutput(content, path string) error {
	if path == "" {
		fmt.Print(content)
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

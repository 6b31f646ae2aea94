// Package main provides the CLI entry point for sortx.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/ukaji3/sortx-go/pkg/sortx"
	"github.com/ukaji3/sortx-go/pkg/sortx/logging"
	"github.com/ukaji3/sortx-go/pkg/sortx/models"
	"github.com/ukaji3/sortx-go/pkg/sortx/output"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sortx",
		Short: "Reconcile a needlist spreadsheet against a folder tree",
		Long: `sortx marks each needlist row whose document number matches a folder name
under the root folder, recording the folder path and the time of the match,
and writes the updated rows back into the workbook.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default: .sortx.yaml in the current or home directory)")
	pf.StringP("excel", "e", "", "Needlist workbook path")
	pf.StringP("sheet", "s", "", "Sheet name or 1-based sheet number (default 1)")
	pf.IntP("header", "H", 0, "1-based header row number (default 1)")
	pf.String("log-level", "", "Log level: trace, debug, info, warn, error, off")
	pf.String("log-format", "", "Log format: auto, console, json")
	pf.String("log-output", "", "Log output: stderr, stdout, discard or a file path")
	pf.Bool("no-color", false, "Disable colored log output")

	rootCmd.AddCommand(newRunCommand(), newColumnsCommand(), newSheetsCommand())
	return rootCmd
}

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Match needlist rows to folders and update the workbook",
		Args:  cobra.NoArgs,
		RunE:  runReconcile,
	}
	f := cmd.Flags()
	f.StringP("folder", "f", "", "Root folder to scan")
	f.StringP("column", "c", "", "Column holding the document numbers")
	f.Bool("fail-on-duplicates", false, "Fail when a document number matches more than one folder")
	f.Bool("dry-run", false, "Match without writing the workbook")
	f.StringP("output-format", "o", "", "Report format: text, json, yaml")
	return cmd
}

func newColumnsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the header columns of a sheet",
		Args:  cobra.NoArgs,
		RunE:  listColumns,
	}
}

func newSheetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets",
		Short: "List the sheets of a workbook",
		Args:  cobra.NoArgs,
		RunE:  listSheets,
	}
}

func setup(cmd *cobra.Command) (*appConfig, zerolog.Logger, io.Closer, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("load config: %w", err)
	}
	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	if cfg.ConfigFile != "" {
		logger.Debug().Str("file", cfg.ConfigFile).Msg("Using config file")
	}
	return cfg, logger, closer, nil
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	cfg, logger, closer, err := setup(cmd)
	if err != nil {
		return report(cmd, err)
	}
	defer closer.Close()

	switch cfg.OutputFormat {
	case "text", "json", "yaml":
	default:
		return report(cmd, fmt.Errorf("invalid output format: %s (must be text, json, or yaml)", cfg.OutputFormat))
	}

	if err := cfg.Run.Validate(); err != nil {
		logger.Error().Err(err).Msg("Inputs are not ready")
		return report(cmd, err)
	}

	opts := sortx.DefaultOptions()
	opts.Logger = &logger
	opts.FailOnDuplicates = cfg.FailOnDuplicates
	opts.DryRun = cfg.DryRun

	res, err := sortx.Run(cfg.Run, opts)
	if err != nil {
		return report(cmd, err)
	}

	out := cmd.OutOrStdout()
	switch cfg.OutputFormat {
	case "json":
		data, err := output.ToJSON(res, true)
		if err != nil {
			return report(cmd, fmt.Errorf("serialization failed: %w", err))
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		data, err := output.ToYAML(res)
		if err != nil {
			return report(cmd, fmt.Errorf("serialization failed: %w", err))
		}
		fmt.Fprint(out, string(data))
	default:
		for _, line := range output.Feedback(res, nil) {
			fmt.Fprintln(out, line)
		}
		columns := []string{cfg.Run.ColumnName, models.StatusColumn, models.PathColumn, models.ProcessedColumn}
		fmt.Fprintln(out, output.RenderTable(res.Table, columns))
	}
	return nil
}

func listColumns(cmd *cobra.Command, _ []string) error {
	cfg, logger, closer, err := setup(cmd)
	if err != nil {
		return report(cmd, err)
	}
	defer closer.Close()

	headerIdx, err := cfg.Run.HeaderOffset()
	if err != nil {
		return report(cmd, err)
	}
	table, err := sortx.NewTableLoader(logger).Load(cfg.Run.ExcelPath, cfg.Run.Sheet, headerIdx)
	if err != nil {
		return report(cmd, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output.RenderColumns(table.Columns))
	return nil
}

func listSheets(cmd *cobra.Command, _ []string) error {
	cfg, logger, closer, err := setup(cmd)
	if err != nil {
		return report(cmd, err)
	}
	defer closer.Close()

	sheets, err := sortx.NewTableLoader(logger).Sheets(cfg.Run.ExcelPath)
	if err != nil {
		return report(cmd, err)
	}
	for i, name := range sheets {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i+1, name)
	}
	return nil
}

// report prints the failure feedback and hands the error back to cobra for the exit status.
func report(cmd *cobra.Command, err error) error {
	for _, line := range output.Feedback(nil, err) {
		fmt.Fprintln(cmd.ErrOrStderr(), line)
	}
	return err
}

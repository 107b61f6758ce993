package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Andrei-Barwood/todo2issues/internal/backlog"
	"github.com/Andrei-Barwood/todo2issues/internal/config"
	"github.com/Andrei-Barwood/todo2issues/internal/format"
	"github.com/Andrei-Barwood/todo2issues/internal/logging"
	"github.com/Andrei-Barwood/todo2issues/internal/model"
)

var errWriteFailures = errors.New("some outputs could not be written")

type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgPath string
	input   string
	output  string
	root    string
	jsonOut bool
	bom     bool
	debug   bool

	cfg *config.Config
	log *zap.SugaredLogger
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string) int {
	return newApp(os.Stdout, os.Stderr).run(ctx, args)
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func (a *app) run(ctx context.Context, args []string) int {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if a.log != nil {
		_ = a.log.Sync()
	}
	if err != nil {
		if !errors.Is(err, errWriteFailures) {
			fmt.Fprintf(a.stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "todo2issues",
		Short: "Turn a TODO/FIXME annotation report into an importable issue backlog",
		Long: `todo2issues reads a grep-style report of source annotations
(<path>:<line>:<text>, one per line) and writes a CSV export, one Markdown
ticket per finding, and a README with import instructions.

Running without a subcommand is the same as "todo2issues convert".`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runConvert,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", config.DefaultPath, "YAML config file")
	pf.StringVarP(&a.input, "input", "i", "", "Annotation report to read")
	pf.StringVarP(&a.output, "output", "o", "", "Directory to write the backlog into")
	pf.StringVarP(&a.root, "root", "r", "", "Project root that report paths are relative to")
	pf.BoolVar(&a.debug, "debug", false, "Enable debug logging")

	convert := &cobra.Command{
		Use:   "convert",
		Short: "Write the CSV, tickets and index for the report",
		Args:  cobra.NoArgs,
		RunE:  a.runConvert,
	}
	for _, c := range []*cobra.Command{root, convert} {
		c.Flags().BoolVar(&a.jsonOut, "json", false, "Also write the findings as JSON (json_name in the config)")
		c.Flags().BoolVar(&a.bom, "bom", false, "Prefix the CSV with a UTF-8 byte order mark")
	}

	rules := &cobra.Command{
		Use:   "rules",
		Short: "List the ordered classification rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printRules(cmd.OutOrStdout())
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInit(cmd, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	var raw bool
	preview := &cobra.Command{
		Use:   "preview <id>",
		Short: "Render one ticket in the terminal without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPreview(cmd, args[0], raw)
		},
	}
	preview.Flags().BoolVar(&raw, "raw", false, "Print the Markdown source instead of rendering it")

	root.AddCommand(convert, rules, preview, initCmd)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = a.input
	}
	if flags.Changed("output") {
		cfg.OutputDir = a.output
	}
	if flags.Changed("root") {
		cfg.ProjectRoot = a.root
	}
	if flags.Changed("debug") {
		cfg.Debug = a.debug
	}
	if flags.Lookup("json") != nil && flags.Changed("json") {
		cfg.JSONExport = a.jsonOut
	}
	if flags.Lookup("bom") != nil && flags.Changed("bom") {
		cfg.ExcelBOM = a.bom
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.New(cfg.Debug)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	a.log.Debugw("configuration loaded", "config", a.cfgPath, "input", cfg.Input, "output", cfg.OutputDir, "root", cfg.ProjectRoot)
	return nil
}

func (a *app) builder() *backlog.Builder {
	return backlog.New(backlog.Options{
		ProjectRoot: a.cfg.ProjectRoot,
		DocExt:      a.cfg.DocExt,
		Logger:      a.log,
	})
}

func (a *app) runConvert(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	b := a.builder()

	result, err := b.BuildFile(a.cfg.Input)
	if err != nil {
		if errors.Is(err, backlog.ErrInputNotFound) {
			fmt.Fprintf(out, "Input report %s not found; nothing to convert.\n", a.cfg.Input)
			return nil
		}
		return err
	}

	opts := backlog.WriteOptions{
		OutputDir: a.cfg.OutputDir,
		CSVPath:   a.cfg.CSVPath(),
		IndexPath: a.cfg.IndexPath(),
		DocExt:    a.cfg.DocExt,
		BOM:       a.cfg.ExcelBOM,
	}
	if a.cfg.JSONExport {
		opts.JSONPath = a.cfg.JSONPath()
	}

	outcomes := b.Write(result, opts)
	failed := backlog.Failed(outcomes)
	printSummary(out, result, a.cfg.OutputDir, failed)

	if len(failed) > 0 {
		return fmt.Errorf("%w: %d of %d", errWriteFailures, len(failed), len(outcomes))
	}
	return nil
}

func (a *app) runInit(cmd *cobra.Command, force bool) error {
	if _, err := os.Stat(a.cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", a.cfgPath)
	}
	if err := a.cfg.Save(a.cfgPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.cfgPath)
	return nil
}

func (a *app) runPreview(cmd *cobra.Command, arg string, raw bool) error {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return fmt.Errorf("invalid id %q: want a positive number", arg)
	}

	result, err := a.builder().BuildFile(a.cfg.Input)
	if err != nil {
		return err
	}
	f, ok := findingByID(result.Findings, id)
	if !ok {
		return fmt.Errorf("no finding with id %d (report has %d)", id, len(result.Findings))
	}

	doc := string(format.Document(f))
	if raw {
		_, err = io.WriteString(cmd.OutOrStdout(), doc)
		return err
	}

	rendered, err := renderMarkdown(doc)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), rendered)
	return err
}

func renderMarkdown(doc string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("init markdown renderer: %w", err)
	}
	return r.Render(doc)
}

// Ids are 1-based positions in parse order.
func findingByID(findings []model.Finding, id int) (model.Finding, bool) {
	if id < 1 || id > len(findings) {
		return model.Finding{}, false
	}
	return findings[id-1], true
}

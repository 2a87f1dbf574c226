package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ddscan/internal/config"
	"ddscan/internal/news"
	"ddscan/internal/refdata"
	"ddscan/internal/render"
	"ddscan/internal/scan"
	"ddscan/internal/ticker"
	"ddscan/internal/util"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

const defaultConfigPath = "config/ddscan.yaml"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// scanFlags holds the parsed flags for the scan command.
type scanFlags struct {
	days    int
	sources []string
	format  string
	out     string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		var ee *exitErr
		if errors.As(err, &ee) {
			return ee.code
		}
		// Anything else comes from cobra's own argument and flag parsing.
		return 3
	}
	return 0
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "ddscan",
		Short:         "Find the stock tickers DD post titles talk about",
		Long:          "ddscan reads due-diligence post titles from a spreadsheet, RSS feeds, the Alpaca news API or a local news archive and resolves the tickers each title refers to, explicitly or by company name.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default $DDSCAN_CONFIG or "+defaultConfigPath+")")

	var flags scanFlags
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Fetch recent posts and resolve their tickers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), cfgPath, flags, stdout)
		},
	}
	f := scanCmd.Flags()
	f.IntVar(&flags.days, "days", 0, "Days to look back (default from config)")
	f.StringArrayVar(&flags.sources, "source", nil, "Post source: sheet, rss, alpaca or archive (may be repeated)")
	f.StringVar(&flags.format, "format", "text", "Output format: text or json")
	f.StringVar(&flags.out, "out", "", "Write output to file instead of stdout")

	resolveCmd := &cobra.Command{
		Use:   "resolve [title]...",
		Short: "Resolve tickers for titles given as arguments or one per line on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), cfgPath, args, cmd.InOrStdin(), stdout)
		},
	}

	var explainJSON bool
	explainCmd := &cobra.Command{
		Use:   "explain <title>",
		Short: "Show how a title is resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd.Context(), cfgPath, args[0], explainJSON, stdout)
		},
	}
	explainCmd.Flags().BoolVar(&explainJSON, "json", false, "Print the explanation as JSON")

	lookupCmd := &cobra.Command{
		Use:   "lookup <symbol>...",
		Short: "Print the directory entry for each symbol",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd.Context(), cfgPath, args, stdout)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the ddscan version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(stdout, "ddscan", version)
		},
	}

	root.AddCommand(scanCmd, resolveCmd, explainCmd, lookupCmd, versionCmd)
	return root
}

// loadConfig reads .env, then the config file. The default path may be
// absent; an explicit one must exist.
func loadConfig(cfgPath string) (*config.Config, *slog.Logger, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, nil, codeError(3, "%s", err)
	}

	if cfgPath == "" {
		cfgPath = os.Getenv("DDSCAN_CONFIG")
	}
	if cfgPath == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			cfgPath = defaultConfigPath
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, codeError(3, "loading config: %s", err)
	}

	log := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(log)
	return cfg, log, nil
}

func loadResolver(ctx context.Context, cfg *config.Config, log *slog.Logger) (*ticker.Resolver, error) {
	dir, err := refdata.LoadDirectory(ctx, cfg.Directory)
	if err != nil {
		if errors.Is(err, refdata.ErrUnsupportedFormat) {
			return nil, codeError(3, "loading directory: %s", err)
		}
		return nil, codeError(1, "loading directory: %s", err)
	}
	log.Info("directory loaded", "path", cfg.Directory.Path, "companies", dir.Len())
	return ticker.NewResolver(dir), nil
}

func runScan(ctx context.Context, cfgPath string, flags scanFlags, stdout io.Writer) error {
	// --- Step 1: Config and flags ---
	cfg, log, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if flags.days != 0 {
		cfg.Scan.DaysBack = flags.days
	}
	if len(flags.sources) > 0 {
		cfg.Scan.Sources = flags.sources
	}
	if err := cfg.Validate(); err != nil {
		return codeError(3, "invalid config: %s", err)
	}

	renderer, err := render.NewRenderer(flags.format)
	if err != nil {
		return codeError(3, "invalid flags: %s", err)
	}

	sources, err := news.Build(cfg, log)
	if err != nil {
		return codeError(3, "building sources: %s", err)
	}

	// --- Step 2: Directory ---
	resolver, err := loadResolver(ctx, cfg, log)
	if err != nil {
		return err
	}

	// --- Step 3: Scan ---
	metrics := scan.NewMetrics()
	scanner := scan.New(resolver, sources, cfg.Scan.Workers, metrics, log)

	since := news.Window(cfg.Scan.DaysBack, time.Now())
	results, err := scanner.Run(ctx, since)
	if err != nil {
		return codeError(1, "scan failed: %s", err)
	}

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warn("writing metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	// --- Step 4: Render ---
	out, err := renderer.Render(results)
	if err != nil {
		return codeError(1, "rendering output: %s", err)
	}
	if flags.out != "" {
		if err := os.WriteFile(flags.out, out, 0o644); err != nil {
			return codeError(1, "writing output: %s", err)
		}
		return nil
	}
	if _, err := stdout.Write(out); err != nil {
		return codeError(1, "writing output: %s", err)
	}
	return nil
}

func runResolve(ctx context.Context, cfgPath string, titles []string, stdin io.Reader, stdout io.Writer) error {
	cfg, log, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	resolver, err := loadResolver(ctx, cfg, log)
	if err != nil {
		return err
	}

	if len(titles) == 0 {
		sc := bufio.NewScanner(stdin)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				titles = append(titles, line)
			}
		}
		if err := sc.Err(); err != nil {
			return codeError(1, "reading titles: %s", err)
		}
	}

	w := bufio.NewWriter(stdout)
	for _, title := range titles {
		tickers := render.NoTicker
		if got := resolver.Resolve(title); len(got) > 0 {
			tickers = strings.Join(got, " ")
		}
		fmt.Fprintf(w, "%s\t%s\n", tickers, title)
	}
	if err := w.Flush(); err != nil {
		return codeError(1, "writing output: %s", err)
	}
	return nil
}

func runExplain(ctx context.Context, cfgPath, title string, asJSON bool, stdout io.Writer) error {
	cfg, log, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	resolver, err := loadResolver(ctx, cfg, log)
	if err != nil {
		return err
	}

	ex := resolver.Explain(title)
	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ex); err != nil {
			return codeError(1, "writing output: %s", err)
		}
		return nil
	}

	inferred := ex.Inferred
	if inferred == "" {
		inferred = "-"
	}
	fmt.Fprintf(stdout, "title:    %s\n", ex.Title)
	fmt.Fprintf(stdout, "explicit: %s\n", strings.Join(ex.Explicit, " "))
	fmt.Fprintf(stdout, "phrases:  %s\n", strings.Join(ex.Phrases, " "))
	fmt.Fprintf(stdout, "inferred: %s\n", inferred)
	fmt.Fprintf(stdout, "tickers:  %s\n", strings.Join(ex.Tickers, " "))
	return nil
}

func runLookup(ctx context.Context, cfgPath string, symbols []string, stdout io.Writer) error {
	cfg, log, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	resolver, err := loadResolver(ctx, cfg, log)
	if err != nil {
		return err
	}

	missing := 0
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		c, ok := resolver.Directory().Lookup(sym)
		if !ok {
			fmt.Fprintf(stdout, "%s\t(not in directory)\n", sym)
			missing++
			continue
		}
		fmt.Fprintf(stdout, "%s\t%s\n", c.Symbol, c.Name)
	}
	if missing == len(symbols) {
		return codeError(1, "no symbols found in directory")
	}
	return nil
}

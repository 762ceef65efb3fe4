package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	mtimesort "github.com/krisalay/mtime-sort"
	"github.com/krisalay/mtime-sort/config"
	"github.com/krisalay/mtime-sort/fsource"
	"github.com/krisalay/mtime-sort/host"
	"github.com/krisalay/mtime-sort/ordering"
	"github.com/krisalay/mtime-sort/types"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type flags struct {
	configPath string
	timeout    time.Duration
	shards     int
	logLevel   string
	byName     bool
	stats      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "mtimesort [dir]",
		Short: "List a directory oldest-first by modification time",
		Long: `mtimesort lists the regular files of a directory ordered by modification time.
Files whose time cannot be read are ordered by name against their neighbours.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return run(cmd.Context(), cmd, dir, f)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "config file (default: user config dir/mtimesort/config.toml)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "per-file query timeout (overrides config)")
	cmd.Flags().IntVar(&f.shards, "shards", 0, "attribute cache shards (overrides config)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	cmd.Flags().BoolVar(&f.byName, "by-name", false, "list in collation order without activating the sorter")
	cmd.Flags().BoolVar(&f.stats, "stats", false, "print cache statistics after listing")

	return cmd
}

func loadConfig(f flags) (config.Config, error) {
	path := f.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if f.timeout > 0 {
		cfg.Cache.QueryTimeout.Duration = f.timeout
	}
	if f.shards > 0 {
		cfg.Cache.Shards = f.shards
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cmd *cobra.Command, dir string, f flags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	tag, _ := cfg.Tag()
	src := fsource.New(fsource.Options{
		Language:   tag,
		Numeric:    cfg.Collation.Numeric,
		IgnoreCase: cfg.Collation.IgnoreCase,
	})

	files, err := src.Scan(dir)
	if err != nil {
		return err
	}
	logger.Debug("scanned directory", slog.String("dir", dir), slog.Int("files", len(files)))

	window := host.NewBasicWindow()
	store := host.NewListStore(ordering.ComparatorOf(ordering.NewFallbackPolicy(src)))
	for _, file := range files {
		store.Add(file)
	}

	metrics := &types.Counters{}
	sorter := mtimesort.NewSorter(src, mtimesort.Options{
		Shards:       cfg.Cache.Shards,
		QueryTimeout: cfg.Cache.QueryTimeout.Duration,
		Metrics:      metrics,
		Logger:       logger,
	})

	out := cmd.OutOrStdout()

	if !f.byName {
		// Activation before the collection exists is the usual startup order.
		if err := sorter.Activate(ctx, window); err != nil {
			return fmt.Errorf("activating sorter: %w", err)
		}
		defer sorter.Deactivate()
	}
	window.Bind(store)

	mode := "modification time"
	if f.byName {
		mode = "name"
	}
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s (%d files, by %s)", dir, store.Len(), mode)))
	if f.byName {
		printNames(out, store.Items())
	} else {
		printItems(out, store.Items(), sorter)
	}

	if f.stats {
		printStats(out, metrics.Snapshot(), sorter.CacheLen())
	}
	return nil
}

func printItems(w io.Writer, items []types.Item, sorter *mtimesort.Sorter) {
	for i, it := range items {
		file := it.(*fsource.File)
		when := unknownStyle.Render(fmt.Sprintf("%-19s", "unknown"))
		if ent, ok := sorter.Lookup(file.ID); ok && ent.Resolved {
			when = ent.ModTime.Format(time.DateTime)
		}
		fmt.Fprintf(w, "%4d  %s  %s\n", i+1, when, file.Name)
	}
}

// printNames lists items without a time column; name order never reads times.
func printNames(w io.Writer, items []types.Item) {
	for i, it := range items {
		fmt.Fprintf(w, "%4d  %s\n", i+1, it.(*fsource.File).Name)
	}
}

func printStats(w io.Writer, s types.Stats, entries int) {
	fmt.Fprintln(w, headerStyle.Render("cache"))
	fmt.Fprintf(w, "  entries    : %d\n", entries)
	fmt.Fprintf(w, "  hits       : %d\n", s.Hits)
	fmt.Fprintf(w, "  misses     : %d\n", s.Misses)
	fmt.Fprintf(w, "  resolved   : %d\n", s.Resolved)
	fmt.Fprintf(w, "  unresolved : %d\n", s.Unresolved)
}

// apiguide extracts the documented API of a JavaScript codebase from its
// doc comments and prints it in TOON format.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/apiguide/internal/aggregate"
	"github.com/phobologic/apiguide/internal/comment"
	"github.com/phobologic/apiguide/internal/config"
	"github.com/phobologic/apiguide/internal/discover"
	"github.com/phobologic/apiguide/internal/graph"
	"github.com/phobologic/apiguide/internal/lang"
	"github.com/phobologic/apiguide/internal/lint"
	"github.com/phobologic/apiguide/internal/merger"
	"github.com/phobologic/apiguide/internal/model"
	"github.com/phobologic/apiguide/internal/parse"
	"github.com/phobologic/apiguide/internal/ranking"
	"github.com/phobologic/apiguide/internal/toon"
)

var version = "dev"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.Execute()
}

// options holds the root command's flags.
type options struct {
	maxClasses  int
	filter      string
	private     bool
	tests       bool
	maxFileSize int
	workers     int
	verbose     bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "apiguide [path]",
		Short: "Print the documented API of a JavaScript codebase",
		Long: `apiguide reads the /** doc comments */ of a JavaScript codebase, works out
which class, method, event, config option or property each one documents,
and prints the resulting API map in TOON format.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			ctx := newLogger(stderr, opts.verbose).WithContext(cmd.Context())
			return generate(ctx, cmd, root, opts, stdout)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("apiguide {{.Version}}\n")
	cmd.SetContext(context.Background())

	f := cmd.Flags()
	f.IntVarP(&opts.maxClasses, "max-classes", "n", 0, "maximum number of classes to include")
	f.StringVarP(&opts.filter, "filter", "f", "", "only classes whose name contains this text, plus their parents and children")
	f.BoolVar(&opts.private, "private", false, "include @private classes and members")
	f.BoolVar(&opts.tests, "tests", false, "include test files")
	f.IntVar(&opts.maxFileSize, "max-file-size", config.DefaultMaxFileSize, "skip files larger than this many bytes")
	f.IntVarP(&opts.workers, "workers", "j", 0, "files parsed in parallel (default GOMAXPROCS)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(newInitCmd(stdout, stderr))
	cmd.AddCommand(newTypecheckCmd(stdout))

	return cmd
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: zerolog.SyncWriter(w), NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
}

func generate(ctx context.Context, cmd *cobra.Command, root string, opts options, stdout io.Writer) error {
	logger := zerolog.Ctx(ctx)

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlags(cmd, cfg, opts)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	files, err := discover.Files(root, discover.Options{Exclude: cfg.Exclude, IncludeTests: cfg.IncludeTests})
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no JavaScript files found")
	}
	logger.Debug().Int("files", len(files)).Str("root", root).Msg("discovered files")

	files = filterBySize(ctx, root, files, cfg.MaxFileSize)
	if len(files) == 0 {
		return fmt.Errorf("no parseable files found (all exceeded size limit)")
	}

	perFile, err := parseFiles(ctx, root, files, cfg.Workers)
	if err != nil {
		return err
	}

	m := buildAPIMap(ctx, filepath.Base(root), perFile, cfg)

	if opts.filter != "" {
		m = ranking.FilterByName(m, opts.filter)
	}
	if opts.maxClasses > 0 {
		m = ranking.SelectClasses(m, opts.maxClasses)
	}

	_, _ = fmt.Fprintln(stdout, toon.Encode(m))
	return nil
}

// applyFlags lets explicitly set flags override the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts options) {
	f := cmd.Flags()
	if f.Changed("private") {
		cfg.IncludePrivate = opts.private
	}
	if f.Changed("tests") {
		cfg.IncludeTests = opts.tests
	}
	if f.Changed("max-file-size") {
		cfg.MaxFileSize = opts.maxFileSize
	}
	if f.Changed("workers") {
		cfg.Workers = opts.workers
	}
}

// buildAPIMap turns the entities of each file, in discovery order, into the
// final map: classes aggregated and ranked, inheritance edges, type warnings.
func buildAPIMap(ctx context.Context, name string, perFile [][]*model.Entity, cfg *config.Config) *model.APIMap {
	logger := zerolog.Ctx(ctx)

	agg := aggregate.New()
	for _, entities := range perFile {
		agg.StartFile()
		for _, e := range entities {
			agg.Add(e)
		}
	}
	classes, globals := agg.Result()

	if !cfg.IncludePrivate {
		classes = dropPrivate(classes)
		globals = dropPrivate(globals)
	}

	edges, warnings := graph.BuildInheritance(classes)
	for _, w := range warnings {
		logger.Warn().Str("file", w.File).Int("line", w.Line).Msg(w.Message)
	}
	graph.Rank(classes, edges)

	m := &model.APIMap{
		RepoName:    name,
		Root:        name,
		Classes:     classes,
		Globals:     globals,
		Inheritance: edges,
	}
	m.Warnings = append(warnings, lint.Check(m, cfg.KnownTypes)...)
	logger.Debug().
		Int("classes", len(classes)).
		Int("globals", len(globals)).
		Int("warnings", len(m.Warnings)).
		Msg("built API map")
	return m
}

// dropPrivate removes @private entities, and @private members of the rest.
func dropPrivate(entities []*model.Entity) []*model.Entity {
	kept := entities[:0]
	for _, e := range entities {
		if e.Private {
			continue
		}
		if e.Kind == model.TagClass {
			e.Cfg = dropPrivate(e.Cfg)
			e.Property = dropPrivate(e.Property)
			e.Method = dropPrivate(e.Method)
			e.Event = dropPrivate(e.Event)
		}
		kept = append(kept, e)
	}
	return kept
}

func filterBySize(ctx context.Context, root string, files []discover.FileEntry, maxSize int) []discover.FileEntry {
	if maxSize <= 0 {
		return files
	}
	logger := zerolog.Ctx(ctx)

	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > int64(maxSize) {
			logger.Warn().Str("file", f.Path).Int("limit", maxSize).Msg("skipped, file too large")
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// parseFiles extracts and merges the doc comments of every file. Results keep
// the order of files; unreadable files yield no entities.
func parseFiles(ctx context.Context, root string, files []discover.FileEntry, workers int) ([][]*model.Entity, error) {
	logger := zerolog.Ctx(ctx)

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([][]*model.Entity, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			l := lang.Languages[f.Language]
			if l == nil {
				return nil
			}
			q, err := l.GetDocQuery()
			if err != nil {
				return fmt.Errorf("compiling %s query: %w", f.Language, err)
			}

			source, err := os.ReadFile(filepath.Join(root, f.Path))
			if err != nil {
				logger.Warn().Err(err).Str("file", f.Path).Msg("failed to read file")
				return nil
			}

			// Each goroutine gets its own parser
			parser := l.NewParser()
			defer parser.Close()

			units, err := parse.ExtractUnits(gctx, parser, q, source, f.Path)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", f.Path, err)
			}

			entities := make([]*model.Entity, 0, len(units))
			for _, u := range units {
				e := merger.Merge(comment.Parse(u.Comment), u.Code)
				e.File, e.Line = u.File, u.Line
				if e.Constructor != nil {
					e.Constructor.File, e.Constructor.Line = u.File, u.Line
				}
				for _, c := range e.Cfg {
					c.File, c.Line = u.File, u.Line
				}
				entities = append(entities, e)
			}
			logger.Debug().Str("file", f.Path).Int("units", len(units)).Msg("parsed")

			results[i] = entities
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

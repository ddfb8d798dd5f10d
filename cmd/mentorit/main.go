// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/poiesic/mentorit"
	"github.com/poiesic/mentorit/config"
	"github.com/poiesic/mentorit/core"
	"github.com/poiesic/mentorit/ingestion"
	"github.com/poiesic/mentorit/search"
	"github.com/poiesic/mentorit/tui"
	"github.com/urfave/cli/v2"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "mentorit",
		Usage: "Discover mentors by text, facets and similarity",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				Value:   "mentorit.yaml",
				EnvVars: []string{"MENTORIT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides config)",
				EnvVars: []string{"MENTORIT_DB"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import mentor records from a JSON array",
				ArgsUsage: "<file.json>...",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "append",
						Usage: "Keep stored mentors and add new ones",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report progress on stderr",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "List mentors matching a query and filters",
				ArgsUsage: "[query]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "skill",
						Usage: "Require a skill (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "category",
						Usage: "Restrict to a category (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "country",
						Usage: "Restrict to a country (repeatable)",
					},
					&cli.Float64Flag{
						Name:  "min-price",
						Usage: "Lowest session price",
						Value: core.DefaultMinPrice,
					},
					&cli.Float64Flag{
						Name:  "max-price",
						Usage: "Highest session price",
						Value: core.DefaultMaxPrice,
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort order (recommended, price-asc, price-desc, rating-desc, experience-desc)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results (0 for all)",
					},
				},
			},
			{
				Name:      "similar",
				Usage:     "List mentors similar to a mentor",
				ArgsUsage: "<mentor-id>",
				Action:    similarCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"k"},
						Usage:   "Number of similar mentors (defaults to config)",
					},
				},
			},
			{
				Name:   "facets",
				Usage:  "Show the available filter values",
				Action: facetsCommand,
			},
			{
				Name:      "browse",
				Usage:     "Browse mentors interactively",
				ArgsUsage: "[query]",
				Action:    browseCommand,
			},
			{
				Name:  "config",
				Usage: "Manage the config file",
				Subcommands: []*cli.Command{
					{
						Name:   "init",
						Usage:  "Write the default config",
						Action: configInitCommand,
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "force",
								Usage: "Overwrite an existing file",
							},
						},
					},
				},
			},
		},
	}
}

func openDatabase(c *cli.Context) (*mentorit.Database, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath := c.String("db"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	db, err := mentorit.NewDatabase(cfg.Database.Path, mentorit.WithConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// openSearcher opens the database and loads its catalog. A failed load
// leaves the catalog empty and is only logged.
func openSearcher(c *cli.Context) (*mentorit.Database, *search.Searcher, error) {
	db, err := openDatabase(c)
	if err != nil {
		return nil, nil, err
	}
	if _, err := db.Load(contextOf(c)); err != nil {
		slog.Warn("serving empty catalog", "err", err)
	}
	searcher, err := db.NewSearcher()
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create searcher: %w", err)
	}
	return db, searcher, nil
}

func importCommand(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("import file is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	mode := ingestion.Replace
	if c.Bool("append") {
		mode = ingestion.Append
	}
	var opts []ingestion.Option
	if c.Bool("progress") {
		opts = append(opts, ingestion.WithProgress(c.App.ErrWriter))
	}

	// Later files extend the catalog built from the earlier ones
	for i, path := range paths {
		if i > 0 {
			mode = ingestion.Append
		}
		if err := importFile(c, db, path, mode, opts); err != nil {
			return err
		}
	}
	return nil
}

func importFile(c *cli.Context, db *mentorit.Database, path string, mode ingestion.Mode, opts []ingestion.Option) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	result, err := db.Import(contextOf(c), path, f, mode, opts...)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Imported %d mentors from %s\n", result.Written, result.Source)
	if n := len(result.Report.Rejected); n > 0 {
		fmt.Fprintf(w, "Rejected %d records:\n", n)
		for _, r := range result.Report.Rejected {
			fmt.Fprintf(w, "  #%d %s: %v\n", r.Index, r.ID, r.Err)
		}
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	db, searcher, err := openSearcher(c)
	if err != nil {
		return err
	}
	defer db.Close()

	q, err := buildQuery(c, db.Config())
	if err != nil {
		return err
	}

	results := searcher.Discover(q)
	if limit := c.Int("limit"); limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if len(results) == 0 {
		fmt.Fprintln(c.App.Writer, "No mentors match.")
		return nil
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tRATING\tSKILLS")
	for _, m := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f\t%.1f\t%s\n",
			m.ID, m.Name, m.Category, m.Price, m.Rating, strings.Join(m.Skills, ", "))
	}
	return tw.Flush()
}

func buildQuery(c *cli.Context, cfg *config.Config) (search.Query, error) {
	q := search.NewQuery(strings.Join(c.Args().Slice(), " "))
	q.Sort = cfg.SortKey()
	if s := c.String("sort"); s != "" {
		key, err := core.ParseSortKey(s)
		if err != nil {
			return q, err
		}
		q.Sort = key
	}
	q.Filters = core.NewFilterState(
		core.WithSkills(c.StringSlice("skill")...),
		core.WithCategories(c.StringSlice("category")...),
		core.WithCountries(c.StringSlice("country")...),
		core.WithPriceRange(c.Float64("min-price"), c.Float64("max-price")),
	)
	return q, nil
}

func similarCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("mentor id is required")
	}

	db, searcher, err := openSearcher(c)
	if err != nil {
		return err
	}
	defer db.Close()

	focal, ok := searcher.Catalog().Get(id)
	if !ok {
		return fmt.Errorf("mentor %q not found", id)
	}

	k := c.Int("limit")
	if k <= 0 {
		k = db.Config().Search.SimilarLimit
	}

	scored := searcher.SimilarScored(id, k)
	w := c.App.Writer
	fmt.Fprintf(w, "Similar to %s (%s):\n", focal.Name, focal.Category)
	if len(scored) == 0 {
		fmt.Fprintln(w, "  none")
		return nil
	}
	for _, s := range scored {
		fmt.Fprintf(w, "  %d  %s  %s  [%s]\n", s.Score, s.Mentor.ID, s.Mentor.Name, strings.Join(s.Mentor.Skills, ", "))
	}
	return nil
}

func facetsCommand(c *cli.Context) error {
	db, searcher, err := openSearcher(c)
	if err != nil {
		return err
	}
	defer db.Close()

	f := searcher.Facets()
	w := c.App.Writer
	fmt.Fprintf(w, "Mentors:    %d\n", searcher.Catalog().Len())
	fmt.Fprintf(w, "Skills:     %s\n", strings.Join(f.Skills, ", "))
	fmt.Fprintf(w, "Categories: %s\n", strings.Join(f.Categories, ", "))
	fmt.Fprintf(w, "Countries:  %s\n", strings.Join(f.Countries, ", "))
	fmt.Fprintf(w, "Price:      %.0f-%.0f\n", f.MinPrice, f.MaxPrice)
	return nil
}

func browseCommand(c *cli.Context) error {
	db, searcher, err := openSearcher(c)
	if err != nil {
		return err
	}
	defer db.Close()

	cfg := db.Config()
	initial := search.NewQuery(strings.Join(c.Args().Slice(), " "))
	initial.Sort = cfg.SortKey()

	m, err := tui.New(searcher, tui.Config{
		Initial:        initial,
		DebounceWindow: cfg.DebounceWindow(),
		SimilarLimit:   cfg.Search.SimilarLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create browser: %w", err)
	}
	defer m.Close()

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}

func configInitCommand(c *cli.Context) error {
	path := c.String("config")
	if !c.Bool("force") {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}

func contextOf(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/config"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/db"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/logging"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/refdata"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/render"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/service"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/sources"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile string
	dataDir string
	cfg     config.Config
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "reftables",
		Short:         "Query and import the ingredient reference tables",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.envFile)
			if err != nil {
				return err
			}
			if opts.dataDir != "" {
				cfg.DataSource = config.SourceDir
				cfg.DataDir = opts.dataDir
			}
			logging.Setup(cfg.LogLevel)
			opts.cfg = cfg
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Optional .env file")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Read CSV tables from this directory (overrides DATA_SOURCE)")

	root.AddCommand(
		newTablesCmd(opts),
		newResolveCmd(opts),
		newDeriveCmd(opts),
		newImportCmd(opts),
	)
	return root
}

// withService opens the configured source and runs fn with a Service on it.
func withService(ctx context.Context, opts *rootOptions, fn func(*service.Service) error) error {
	provider, closeSource, err := sources.Open(ctx, opts.cfg)
	if err != nil {
		return err
	}
	defer closeSource() //nolint:errcheck
	return fn(service.New(provider, opts.cfg.ResolveThreshold))
}

// --- tables ---

func newTablesCmd(opts *rootOptions) *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "tables [ingredient...]",
		Short: "Print the reference rows for the given ingredients (all rows when none are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), opts, func(svc *service.Service) error {
				res, err := svc.RenderTables(cmd.Context(), args)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if outPath != "" {
					f, err := os.Create(outPath)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				return writeTables(w, format, res)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, html or xlsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func writeTables(w io.Writer, format string, res *service.Result) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "html":
		return render.HTML(w, render.Display(res), nil)
	case "xlsx":
		return render.XLSX(w, render.Display(res))
	case "text":
		return writeText(w, render.Display(res))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeText(w io.Writer, grids []render.Grid) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, g := range grids {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "== %s ==\n", g.Title)
		if len(g.Rows) == 0 {
			fmt.Fprintln(tw, "No rows")
			continue
		}
		fmt.Fprintln(tw, strings.Join(g.Columns, "\t"))
		for _, r := range g.Rows {
			fmt.Fprintln(tw, strings.Join(r, "\t"))
		}
	}
	return tw.Flush()
}

// --- resolve ---

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve name...",
		Short: "Resolve ingredient names and aliases to canonical names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), opts, func(svc *service.Service) error {
				results, err := svc.Resolve(cmd.Context(), args)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, r := range results {
					status := "known"
					if !r.Known {
						status = "unknown"
						if len(r.Suggestions) > 0 {
							names := make([]string, len(r.Suggestions))
							for i, s := range r.Suggestions {
								names[i] = s.Name
							}
							status += " (did you mean " + strings.Join(names, ", ") + "?)"
						}
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Input, r.Canonical, status)
				}
				return tw.Flush()
			})
		},
	}
}

// --- derive ---

func newDeriveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "derive text...",
		Short: "List the known ingredients mentioned in recipe text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), opts, func(svc *service.Service) error {
				found, err := svc.DeriveIngredients(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				for _, name := range found {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
}

// --- import ---

func newImportCmd(opts *rootOptions) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load CSV tables from a directory into Postgres (DB_URL)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sqlDB, err := sources.OpenDB(ctx, opts.cfg.DBURL)
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			return importTables(ctx, cmd.OutOrStdout(), refdata.NewDirProvider(from), db.New(sqlDB))
		},
	}
	cmd.Flags().StringVar(&from, "from", "./data", "Directory holding the CSV tables")
	return cmd
}

type tableWriter interface {
	ReplaceTable(ctx context.Context, t refdata.Table) error
	Counts(ctx context.Context) (map[refdata.TableName]int, error)
}

func importTables(ctx context.Context, out io.Writer, src refdata.Provider, dst tableWriter) error {
	for _, name := range refdata.AllTables {
		t, err := src.Fetch(ctx, name)
		if err != nil {
			if name.Optional() && errors.Is(err, refdata.ErrTableNotFound) {
				fmt.Fprintf(out, "%s: skipped (not found)\n", name)
				continue
			}
			return fmt.Errorf("read %s: %w", name, err)
		}
		t = t.Compact()
		if err := dst.ReplaceTable(ctx, t); err != nil {
			return fmt.Errorf("import %s: %w", name, err)
		}
		fmt.Fprintf(out, "%s: %d rows\n", name, len(t.Rows))
	}

	// Skipped tables keep whatever an earlier import stored.
	counts, err := dst.Counts(ctx)
	if err != nil {
		return fmt.Errorf("count stored rows: %w", err)
	}
	fmt.Fprintln(out, "stored:")
	for _, name := range refdata.AllTables {
		fmt.Fprintf(out, "  %s\t%d\n", name, counts[name])
	}
	return nil
}

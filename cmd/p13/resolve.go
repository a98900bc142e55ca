package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lmittmann/tint"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/karloscodes/p13/resolver"
	"github.com/karloscodes/p13/urlparts"
)

const (
	FlagDocumentRoot    = "document-root"
	FlagFrontController = "front-controller"
	FlagModulesDir      = "modules-dir"
	FlagModules         = "module"
	FlagJSON            = "json"
	FlagVerbose         = "verbose"
)

// resolved is one line of resolve output.
type resolved struct {
	URL string `json:"url"`
	resolver.Resolution
}

func newResolveCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve URL...",
		Short: "Resolve URLs into subdirectory, module, controller, method and arguments",
		Args:  cobra.MinimumNArgs(1),
		Example: strings.TrimSpace(`
p13 resolve --document-root /var/www http://localhost/shop/products/show/42
p13 resolve --json /shop/public/index.php/admin/users/edit/3 --module admin
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, fs, args)
		},
		DisableAutoGenTag: true,
	}

	cmd.Flags().String(FlagDocumentRoot, ".", "directory the web server serves from")
	cmd.Flags().String(FlagFrontController, resolver.DefaultFrontController, "front controller path relative to the install root")
	cmd.Flags().String(FlagModulesDir, "", "directory whose subdirectories are modules, relative to the install root unless absolute")
	cmd.Flags().StringSlice(FlagModules, nil, "module names, in addition to --modules-dir")
	cmd.Flags().Bool(FlagJSON, false, "print results as JSON")
	cmd.Flags().BoolP(FlagVerbose, "v", false, "trace filesystem probes on stderr")

	return cmd
}

func runResolve(cmd *cobra.Command, fs afero.Fs, urls []string) error {
	flags := cmd.Flags()
	docRoot, err := flags.GetString(FlagDocumentRoot)
	if err != nil {
		return err
	}
	frontController, err := flags.GetString(FlagFrontController)
	if err != nil {
		return err
	}
	modulesDir, err := flags.GetString(FlagModulesDir)
	if err != nil {
		return err
	}
	modules, err := flags.GetStringSlice(FlagModules)
	if err != nil {
		return err
	}
	asJSON, err := flags.GetBool(FlagJSON)
	if err != nil {
		return err
	}
	verbose, err := flags.GetBool(FlagVerbose)
	if err != nil {
		return err
	}

	opts := []resolver.Option{
		resolver.WithDocumentRoot(docRoot),
		resolver.WithFrontController(frontController),
		resolver.WithProber(resolver.NewFSProber(fs)),
		resolver.WithModulesDir(modulesDir),
		resolver.WithLogger(probeLogger(cmd.ErrOrStderr(), verbose)),
	}
	if len(modules) > 0 {
		opts = append(opts, resolver.WithModules(resolver.NewModuleSet(modules...)))
	}

	results := make([]resolved, len(urls))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, raw := range urls {
		g.Go(func() error {
			r := resolver.New(urlparts.Parse(raw), opts...)
			results[i] = resolved{URL: raw, Resolution: r.Resolve()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	writeTable(cmd.OutOrStdout(), results)
	return nil
}

func probeLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "15:04:05",
		NoColor:    w != os.Stderr,
	}))
}

func writeTable(w io.Writer, results []resolved) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"URL", "Subdirectory", "Module", "Controller", "Method", "Args"})
	for _, r := range results {
		t.AppendRow(table.Row{
			r.URL,
			orDash(r.InstallSubdirectory),
			orDash(r.Module),
			orDash(r.Controller),
			orDash(r.Method),
			orDash(strings.Join(r.Args, "/")),
		})
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-exampledoc"
	"github.com/goliatone/go-exampledoc/internal/config"
	"github.com/goliatone/go-exampledoc/pkg/highlight"
	"github.com/goliatone/go-exampledoc/pkg/prompt"
	"github.com/goliatone/go-exampledoc/pkg/render"
)

var version = "dev"

// app carries state shared by the subcommands. The renderer is built on
// first use so commands like css never touch the registry.
type app struct {
	cfgFile string
	style   string
	lenient bool

	cfg      config.Config
	environ  map[string]string
	renderer *render.Renderer
	driver   prompt.Driver
}

func newApp() *app {
	return &app{}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "exampledoc",
		Short:         "Render API documentation fragments from example payloads",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./exampledoc.yaml when present)")
	root.PersistentFlags().StringVar(&a.style, "style", "",
		"highlight style (overrides config)")
	root.PersistentFlags().BoolVar(&a.lenient, "lenient-status", false,
		"render unknown status codes with a placeholder label")

	root.AddCommand(
		newListCmd(a),
		newStatusesCmd(a),
		newJSONCmd(a),
		newBodyCmd(a),
		newCSSCmd(a),
		newChartsCmd(a),
		newPageCmd(a),
		newPickCmd(a),
		newBuildCmd(a),
	)
	return root
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.LoadWithEnv(a.cfgFile, a.environ)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("style") {
		cfg.Style = a.style
	}
	if cmd.Flags().Changed("lenient-status") {
		cfg.LenientStatus = a.lenient
	}
	if !highlight.HasStyle(cfg.Style) {
		return fmt.Errorf("unknown highlight style %q", cfg.Style)
	}
	a.cfg = cfg
	return nil
}

func (a *app) highlighter() *highlight.Chroma {
	return highlight.New(highlight.WithStyle(a.cfg.Style))
}

func (a *app) rendererFor(cmd *cobra.Command) (*render.Renderer, error) {
	if a.renderer != nil {
		return a.renderer, nil
	}
	reg, err := exampledoc.BuildRegistry(cmd.Context(), exampledoc.RegistryOptions{
		SkipBuiltin: a.cfg.SkipBuiltin,
		Fixtures:    a.resolvePaths(a.cfg.Fixtures),
		OpenAPI:     a.resolvePaths(a.cfg.OpenAPI),
		OpenAPIOptions: exampledoc.OpenAPIOptions{
			Prefix:           a.cfg.OpenAPIPrefix,
			ResponseExamples: a.cfg.ResponseExamples,
		},
		HTTPTimeout: a.cfg.HTTPTimeout,
	})
	if err != nil {
		return nil, err
	}

	options := []render.Option{
		render.WithRegistry(reg),
		render.WithHighlighter(a.highlighter()),
	}
	if a.cfg.LenientStatus {
		options = append(options, render.WithLenientStatus())
	}
	r, err := render.New(options...)
	if err != nil {
		return nil, err
	}
	a.renderer = r
	return r, nil
}

// baseDir is the directory relative manifest paths are resolved against.
func (a *app) baseDir() string {
	if a.cfgFile == "" {
		return "."
	}
	return filepath.Dir(a.cfgFile)
}

func (a *app) resolvePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if isURL(p) || filepath.IsAbs(p) {
			out = append(out, p)
			continue
		}
		out = append(out, filepath.Join(a.baseDir(), p))
	}
	return out
}

func (a *app) logger(cmd *cobra.Command) *log.Logger {
	return log.New(cmd.ErrOrStderr(), "exampledoc: ", 0)
}

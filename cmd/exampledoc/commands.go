package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-exampledoc/internal/build"
	"github.com/goliatone/go-exampledoc/pkg/charts"
	"github.com/goliatone/go-exampledoc/pkg/highlight"
	"github.com/goliatone/go-exampledoc/pkg/page"
	"github.com/goliatone/go-exampledoc/pkg/prompt"
	"github.com/goliatone/go-exampledoc/pkg/render"
)

func newListCmd(a *app) *cobra.Command {
	var origins bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered example names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.rendererFor(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, entry := range r.Registry().Entries() {
				if origins {
					fmt.Fprintf(out, "%s\t%s\n", entry.Name, entry.Origin)
					continue
				}
				fmt.Fprintln(out, entry.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&origins, "origins", false, "print where each example was defined")
	return cmd
}

func newStatusesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "Print the status code table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.rendererFor(cmd)
			if err != nil {
				return err
			}
			for _, code := range r.Statuses().Codes() {
				label, _ := r.Statuses().Label(code)
				fmt.Fprintln(cmd.OutOrStdout(), label)
			}
			return nil
		},
	}
}

func newJSONCmd(a *app) *cobra.Command {
	var (
		sets []string
		raw  bool
	)
	cmd := &cobra.Command{
		Use:   "json NAME",
		Short: "Render an example as highlighted JSON",
		Long: `Render an example as a highlighted JSON fragment.

Examples:
  exampledoc json USER
  exampledoc json USER --set username=alice --set facility_user.can_see_staff=false
  exampledoc json USER --raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.rendererFor(cmd)
			if err != nil {
				return err
			}
			transform, err := render.ParseAssignments(sets)
			if err != nil {
				return err
			}
			key := render.Name(args[0])
			if raw {
				data, err := r.FormatJSON(key, transform)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			fragment, err := r.RenderJSON(key, transform)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), fragment)
			return err
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a field (path.to.key=value, repeatable)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the formatted JSON without markup")
	return cmd
}

func newBodyCmd(a *app) *cobra.Command {
	var (
		statusCode int
		headers    []string
	)
	cmd := &cobra.Command{
		Use:   "body [FILE|-]",
		Short: "Render a response body escaped as HTML",
		Long: `Render a status line, headers and an escaped response body.

The body is read from FILE, or from stdin when FILE is "-" or omitted.

Examples:
  exampledoc body --status 404 error.html
  echo '<h1>Oops</h1>' | exampledoc body --status 500 --header X-Request-Id:abc`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.rendererFor(cmd)
			if err != nil {
				return err
			}
			extra, err := page.ParseHeaders(headers)
			if err != nil {
				return err
			}
			body, err := readBody(cmd, args)
			if err != nil {
				return err
			}
			fragment, err := r.RenderEscapedBody(body, statusCode, extra...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), fragment)
			return err
		},
	}
	cmd.Flags().IntVarP(&statusCode, "status", "s", 200, "response status code")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "extra header (Name:Value, repeatable)")
	return cmd
}

func newCSSCmd(a *app) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "css",
		Short: "Print the stylesheet for highlighted fragments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, name := range highlight.Styles() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			return a.highlighter().CSS(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list available styles")
	return cmd
}

func newChartsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "charts",
		Short: "Render the chart dashboard fragment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.rendererFor(cmd)
			if err != nil {
				return err
			}
			dashboard, err := charts.Load()
			if err != nil {
				return err
			}
			fragment, err := r.RenderCharts(dashboard)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), fragment)
			return err
		},
	}
}

func newPageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "page FILE",
		Short: "Render a Markdown page with embedded example helpers",
		Long: `Render a Markdown page. Helper calls such as {{ json("USER") }},
{{ body("<h1>Oops</h1>", 500) }} or {{ charts() }} are replaced with the
matching fragments before the Markdown is converted to HTML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.rendererFor(cmd)
			if err != nil {
				return err
			}
			pages, err := page.New(r, os.DirFS(filepath.Dir(args[0])))
			if err != nil {
				return err
			}
			fragment, err := pages.Render(filepath.Base(args[0]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), fragment)
			return err
		},
	}
}

func newPickCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose an example interactively and render it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.rendererFor(cmd)
			if err != nil {
				return err
			}
			driver := a.driver
			if driver == nil {
				driver = prompt.NewSurveyDriver()
			}
			sel, err := prompt.Pick(cmd.Context(), driver, r.Registry(), r.Statuses())
			if errors.Is(err, prompt.ErrAborted) {
				return nil
			}
			if err != nil {
				return err
			}
			transform, err := sel.Transform()
			if err != nil {
				return err
			}

			key := render.Name(sel.Name)
			var out fmt.Stringer
			switch sel.Output {
			case prompt.OutputBody:
				out, err = r.RenderJSONBody(key, sel.Status, transform)
			case prompt.OutputRaw:
				var data []byte
				data, err = r.FormatJSON(key, transform)
				out = render.Fragment(data)
			default:
				out, err = r.RenderJSON(key, transform)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func newBuildCmd(a *app) *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every manifest fragment into the output directory",
		Long: `Render every fragment listed in the config manifest.

A fragment that fails is logged and skipped; the command exits non-zero when
any fragment failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.rendererFor(cmd)
			if err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = a.cfg.OutputDir
			}
			builder, err := build.New(r, outputDir, build.WithBaseDir(a.baseDir()))
			if err != nil {
				return err
			}
			result, err := builder.Build(cmd.Context(), a.cfg.Fragments)
			if err != nil {
				return err
			}

			logger := a.logger(cmd)
			for _, failure := range result.Failed {
				logger.Printf("skipped %s", failure)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d fragment(s) to %s\n", len(result.Written), outputDir)
			return result.Err()
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides config)")
	return cmd
}

func readBody(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func isURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

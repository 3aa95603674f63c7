package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-recordedit/internal/config"
	"github.com/goliatone/go-recordedit/internal/mcpserver"
	"github.com/goliatone/go-recordedit/internal/server"
	"github.com/goliatone/go-recordedit/pkg/client"
	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/recordpath"
	"github.com/goliatone/go-recordedit/pkg/render"
	"github.com/goliatone/go-recordedit/pkg/renderers/jsonview"
	"github.com/goliatone/go-recordedit/pkg/renderers/tui"
)

type app struct {
	out    io.Writer
	cfg    *config.Config
	logger *slog.Logger
}

func newApp(out io.Writer) *app {
	return &app{out: out}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:   "recordedit",
		Usage:  "Edit content records of a site admin backend",
		Writer: a.out,
		Before: a.before,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the admin edit pages and the record API",
				Action: a.serve,
			},
			{
				Name:      "edit",
				Usage:     "Edit a record in the terminal",
				ArgsUsage: "<record>",
				Action:    a.edit,
			},
			{
				Name:      "show",
				Usage:     "Print the edit page of a record",
				ArgsUsage: "<record>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: text or json",
						Value: "text",
					},
				},
				Action: a.show,
			},
			{
				Name:   "mcp",
				Usage:  "Expose the edit page as MCP tools on stdin/stdout",
				Action: a.mcp,
			},
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg := config.NewDefaultConfig()
	if err := config.LoadOrDefault(cmd.String("config"), cfg); err != nil {
		return ctx, fmt.Errorf("failed to parse config: %w", err)
	}
	a.cfg = cfg
	// stdout carries the MCP protocol and the terminal UI, so logs go to stderr.
	a.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.App.LogLevel}))
	return ctx, nil
}

func (a *app) client() (*client.Client, error) {
	c, err := client.New(a.cfg.Backend.BaseURL,
		client.WithTimeout(a.cfg.Backend.Timeout),
		client.WithLogger(a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}
	return c, nil
}

func (a *app) pageOptions() []editpage.Option {
	return []editpage.Option{
		editpage.WithLocale(a.cfg.Admin.Language),
		editpage.WithPlatform(editpage.ParsePlatform(a.cfg.Admin.Platform)),
		editpage.WithLogger(a.logger),
	}
}

func recordArg(cmd *cli.Command) (recordpath.Ref, error) {
	raw := cmd.Args().First()
	if raw == "" {
		return recordpath.Ref{}, errors.New("missing record path, e.g. root:blog:first-post")
	}
	ref, err := recordpath.Parse(raw)
	if err != nil {
		return recordpath.Ref{}, err
	}
	return ref, nil
}

func (a *app) serve(ctx context.Context, _ *cli.Command) error {
	c, err := a.client()
	if err != nil {
		return err
	}
	srv, err := server.New(ctx, a.cfg, c, server.WithLogger(a.logger))
	if err != nil {
		return err
	}
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func (a *app) edit(ctx context.Context, cmd *cli.Command) error {
	ref, err := recordArg(cmd)
	if err != nil {
		return err
	}
	c, err := a.client()
	if err != nil {
		return err
	}
	session := tui.NewSession(c, tui.WithOutput(a.out), tui.WithPageOptions(a.pageOptions()...))
	outcome, err := session.Run(ctx, ref)
	if err != nil {
		return err
	}
	if outcome.Page == "" {
		fmt.Fprintln(a.out, "Left without saving.")
		return nil
	}
	fmt.Fprintln(a.out, a.cfg.Admin.PageURL(outcome.Page, outcome.URLPath))
	return nil
}

func (a *app) show(ctx context.Context, cmd *cli.Command) error {
	ref, err := recordArg(cmd)
	if err != nil {
		return err
	}

	var renderer render.Renderer
	switch format := cmd.String("format"); format {
	case "json":
		renderer = jsonview.New(jsonview.WithIndent("  "))
	case "text":
		renderer = tui.New(tui.WithColor(false))
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	c, err := a.client()
	if err != nil {
		return err
	}
	page := editpage.New(c, a.pageOptions()...)
	if err := page.Mount(ctx, ref); err != nil {
		return err
	}
	defer page.Unmount()

	view, ok := page.View()
	if !ok {
		return editpage.ErrNotLoaded
	}
	out, err := renderer.Render(ctx, view, render.RenderOptions{Translator: page.Translator()})
	if err != nil {
		return err
	}
	_, err = a.out.Write(out)
	return err
}

func (a *app) mcp(_ context.Context, _ *cli.Command) error {
	c, err := a.client()
	if err != nil {
		return err
	}
	return mcpserver.New(c, a.logger, a.pageOptions()...).ServeStdio()
}

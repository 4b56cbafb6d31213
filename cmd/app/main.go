package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/sitefrag/internal"
	pkgconfig "github.com/starford/sitefrag/pkg/config"
)

var version = "dev"

type runFunc func(ctx context.Context, opts ...internal.Option) error

// options loads the config file, applies the --root override and returns
// the application options shared by every command.
func options(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if root := cmd.String("root"); root != "" {
		cfg.Site.Root = root
	}

	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithConfigFile(configPath),
		internal.WithVersion(version),
	}, nil
}

func action(run runFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		opts, err := options(cmd)
		if err != nil {
			return err
		}
		return run(ctx, opts...)
	}
}

func resolve(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("resolve: navigation entry id is required")
	}
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.RunResolve(ctx, id, opts...)
}

func main() {
	cmd := &cli.Command{
		Name:    "sitefrag",
		Usage:   "Extract and inline the shared header and footer of a static site",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "root",
				Usage:   "Site root directory (overrides site.root)",
				Sources: cli.EnvVars("SITEFRAG_ROOT"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "update-pages",
				Usage:  "Replace the literal header and footer of every subpage with loader placeholders",
				Action: action(internal.RunExtract),
			},
			{
				Name:   "embed-header-footer",
				Usage:  "Embed page-specific copies of the shared header and footer into every page",
				Action: action(internal.RunInline),
			},
			{
				Name:   "status",
				Usage:  "Compare the pages on disk with the rewrite journal",
				Action: action(internal.RunStatus),
			},
			{
				Name:      "resolve",
				Usage:     "Print the home and subpage hrefs of a navigation entry",
				ArgsUsage: "<id>",
				Action:    resolve,
			},
			{
				Name:   "watch",
				Usage:  "Re-embed the header and footer whenever an include changes",
				Action: action(internal.RunWatch),
			},
			{
				Name:   "serve",
				Usage:  "Serve a live preview of the site with the rewrite API",
				Action: action(internal.RunServe),
			},
			{
				Name:   "mcp",
				Usage:  "Expose the passes as MCP tools over stdio",
				Action: action(internal.RunMCP),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/sowilo/internal"
	"github.com/starford/sowilo/internal/service"
	"github.com/starford/sowilo/internal/storage"
	pkgconfig "github.com/starford/sowilo/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	found, err := pkgconfig.LoadIfExists(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !found {
		slog.Debug("config file not found, using defaults", slog.String("path", configPath))
	}
	return cfg, nil
}

// cliLogger writes human-readable logs to stderr so stdout stays clean for
// command output.
func cliLogger(cfg *internal.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: max(cfg.App.LogLevel, slog.LevelWarn)}))
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func ask(_ context.Context, cmd *cli.Command) error {
	question := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("ask: a question is required")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := internal.LoadKnowledgeBase(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.Root().Writer, formatAnswer(m.Best(question)))
	return err
}

func chat(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := internal.LoadKnowledgeBase(cfg)
	if err != nil {
		return err
	}
	return chatLoop(cmd.Root().Reader, cmd.Root().Writer, m, cfg.FAQ.Greeting)
}

func generate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := cliLogger(cfg)

	formats := []string{service.FormatJSON}
	if cmd.Bool("midi") {
		formats = append(formats, service.FormatMIDI)
	}
	if cmd.Bool("wav") {
		formats = append(formats, service.FormatWAV)
	}
	count := int(cmd.Int("count"))
	if count < 1 {
		return fmt.Errorf("generate: --count must be at least 1")
	}

	dir := cmd.String("out")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		return err
	}

	svc, db, err := internal.NewService(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	files, err := exportBatch(ctx, svc, store, cmd.String("style"), int(cmd.Int("length")), count, int(cmd.Int("workers")), formats)
	if err != nil {
		return err
	}
	return printExports(cmd.Root().Writer, store.Root(), files)
}

func printExports(w io.Writer, root string, files []exportedFile) error {
	var total uint64
	for _, f := range files {
		total += uint64(f.Size)
		_, err := fmt.Fprintf(w, "%-40s %8s  %3d notes  %s\n",
			filepath.Join(root, f.Path), humanize.Bytes(uint64(f.Size)), f.Notes, durafmt.Parse(f.Duration).LimitFirstN(2))
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s written in %d file(s)\n", humanize.Bytes(total), len(files))
	return err
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx,
		internal.WithConfig(cfg),
		internal.WithLogger(cliLogger(cfg)),
		internal.WithVersion(version))
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "sowilo",
		Usage:   "FAQ chatbot and procedural music sequence generator",
		Version: version,
		Action:  serve,
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
				Usage:  "Run the HTTP API",
				Action: serve,
			},
			{
				Name:      "ask",
				Usage:     "Answer one question from the FAQ",
				ArgsUsage: "QUESTION...",
				Action:    ask,
			},
			{
				Name:   "chat",
				Usage:  "Interactive FAQ chat in the terminal",
				Action: chat,
			},
			{
				Name:  "generate",
				Usage: "Generate note sequences and export them to files",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "style", Aliases: []string{"s"}, Usage: "classical or jazz (default from config)"},
					&cli.IntFlag{Name: "length", Aliases: []string{"n"}, Usage: "number of notes (default from config)"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: ".", Usage: "output directory"},
					&cli.BoolFlag{Name: "midi", Usage: "also write a Standard MIDI File"},
					&cli.BoolFlag{Name: "wav", Usage: "also render WAV audio"},
					&cli.IntFlag{Name: "count", Value: 1, Usage: "number of sequences to generate"},
					&cli.IntFlag{Name: "workers", Value: 4, Usage: "concurrent generations when --count > 1"},
				},
				Action: generate,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools on stdio",
				Action: mcp,
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/chroma"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/rohitmishra4444/html-textview/formatter"
	"github.com/rohitmishra4444/html-textview/internal/cmdutil"
	"github.com/rohitmishra4444/html-textview/internal/config"
	"github.com/rohitmishra4444/html-textview/renderer"
)

func main() {
	cmd := &cli.Command{
		Name:      "htmlcat",
		Usage:     "render an HTML document to the terminal",
		ArgsUsage: "[path to HTML file, or - for stdin]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (TOML or YAML)"},
			&cli.IntFlag{Name: "width", Aliases: []string{"w"}, Usage: "the maximum line width for wrappable content"},
			&cli.StringFlag{Name: "images", Aliases: []string{"i"}, Usage: "image mode: auto, off, kitty, or ansi"},
			&cli.StringFlag{Name: "table", Usage: "table mode: grid or link"},
			&cli.BoolFlag{Name: "color", Usage: "colorize output even when stdout is not a terminal"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "htmlcat: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("width") {
		cfg.Width = cmd.Int("width")
	}
	if cmd.IsSet("images") {
		cfg.Images = cmd.String("images")
	}
	if cmd.IsSet("table") {
		cfg.Table = cmd.String("table")
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return cli.Exit(fmt.Sprintf("usage: %v %v", cmd.Name, cmd.ArgsUsage), 2)
	}
	path := cmd.Args().First()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	source, err := cmdutil.ReadHTML(path)
	if err != nil {
		return fmt.Errorf("error opening %v: %w", path, err)
	}

	baseDir := "."
	if path != "-" {
		baseDir = filepath.Dir(path)
	}
	session, err := cmdutil.Open(ctx, cfg, baseDir, nil)
	if err != nil {
		return err
	}
	defer session.Close()

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))

	var theme *chroma.Style
	if isTerminal || cmd.Bool("color") {
		theme = session.Theme()
	}
	width := cfg.Width
	if width == 0 && isTerminal {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}
	images := renderer.ImagesOff
	if isTerminal {
		images = session.ImageMode(cmdutil.DetectImageMode(os.Getenv))
	}

	text, err := formatter.Format(source, session.FormatOptions(theme, nil)...)
	if err != nil {
		return fmt.Errorf("error formatting %v: %w", path, err)
	}

	r := renderer.New(
		renderer.WithTheme(theme),
		renderer.WithWordWrap(width),
		renderer.WithHyperlinks(isTerminal),
		renderer.WithImages(images, 0),
		renderer.WithLogger(session.Logger))
	if err := r.Render(os.Stdout, text); err != nil {
		return fmt.Errorf("error rendering %v: %w", path, err)
	}
	return nil
}

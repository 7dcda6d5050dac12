package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v3"

	"github.com/rohitmishra4444/html-textview/formatter"
	"github.com/rohitmishra4444/html-textview/internal/cmdutil"
	"github.com/rohitmishra4444/html-textview/internal/config"
	"github.com/rohitmishra4444/html-textview/internal/logging"
	"github.com/rohitmishra4444/html-textview/renderer"
	"github.com/rohitmishra4444/html-textview/spanned"
)

func main() {
	cmd := &cli.Command{
		Name:      "htmlreader",
		Usage:     "page through an HTML document",
		ArgsUsage: "[path to HTML file, or - for stdin]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (TOML or YAML)"},
			&cli.BoolFlag{Name: "copy-links", Usage: "copy link URLs to the clipboard instead of opening them"},
			&cli.StringFlag{Name: "log-file", Usage: "append log messages to `FILE`"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "htmlreader: %v\n", err)
		os.Exit(1)
	}
}

func copyToClipboard(ctx context.Context, text string) error {
	logging.FromContext(ctx).Debug("copying to clipboard", "len", len(text))
	return clipboard.WriteAll(text)
}

// linkHandler opens links in the default browser, or copies them to the clipboard.
func linkHandler(copyLinks bool) formatter.LinkClickHandler {
	return formatter.LinkClickHandlerFunc(func(ctx context.Context, url string) error {
		if copyLinks {
			return copyToClipboard(ctx, url)
		}
		logging.FromContext(ctx).Debug("opening link", "url", url)
		return spanned.Navigate(url)
	})
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return cli.Exit(fmt.Sprintf("usage: %v %v", cmd.Name, cmd.ArgsUsage), 2)
	}
	path := cmd.Args().First()

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	source, err := cmdutil.ReadHTML(path)
	if err != nil {
		return fmt.Errorf("error opening %v: %w", path, err)
	}

	// The terminal belongs to the reader, so log messages are discarded unless a log file is named.
	logOutput := io.Discard
	if name := cmd.String("log-file"); name != "" {
		f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		defer f.Close()
		logOutput = f
	}

	baseDir, name := ".", "stdin"
	if path != "-" {
		baseDir, name = filepath.Dir(path), filepath.Base(path)
	}
	session, err := cmdutil.Open(ctx, cfg, baseDir, logOutput)
	if err != nil {
		return err
	}
	defer session.Close()
	ctx = logging.WithLogger(ctx, session.Logger)

	theme := session.Theme()
	options := append(session.FormatOptions(theme, copyToClipboard), formatter.WithLinkClickHandler(linkHandler(cmd.Bool("copy-links"))))
	text, err := formatter.Format(source, options...)
	if err != nil {
		return fmt.Errorf("error formatting %v: %w", path, err)
	}

	images := session.ImageMode(cmdutil.DetectImageMode(os.Getenv))
	if images == renderer.ImagesKitty {
		// The viewport slices its content into lines, which splits kitty graphics commands.
		images = renderer.ImagesANSI
	}
	reader := newReader(ctx, name, text, theme, images, session.Logger)
	if _, err := tea.NewProgram(reader, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("error running reader: %w", err)
	}
	return nil
}

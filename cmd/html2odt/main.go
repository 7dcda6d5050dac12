package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/rohitmishra4444/html-textview/internal/cmdutil"
	"github.com/rohitmishra4444/html-textview/internal/config"
	"github.com/rohitmishra4444/html-textview/odt"
)

func main() {
	cmd := &cli.Command{
		Name:      "html2odt",
		Usage:     "convert an HTML document to an OpenDocument text document",
		ArgsUsage: "[path to HTML file, or - for stdin]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (TOML or YAML)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write the document to `FILE` instead of stdout"},
			&cli.StringFlag{Name: "font", Usage: "the font family of body text"},
			&cli.StringFlag{Name: "monospace-font", Usage: "the font family of code"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "html2odt: %v\n", err)
		os.Exit(1)
	}
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
		return fmt.Errorf("failed to read %v: %w", path, err)
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

	convert := func(out *os.File) error {
		err := odt.FromHTML(out, source,
			odt.WithProportionalFamily(cmd.String("font")),
			odt.WithMonospaceFamily(cmd.String("monospace-font")),
			odt.WithFormatOptions(session.FormatOptions(nil, nil)...))
		if err != nil {
			return fmt.Errorf("failed to convert HTML: %w", err)
		}
		return nil
	}

	name := cmd.String("output")
	if name == "" {
		return convert(os.Stdout)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := convert(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

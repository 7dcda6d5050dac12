// Package cmdutil holds the setup shared by the command-line tools: input decoding, resource stores, and the
// formatter and renderer options derived from a configuration.
package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/chroma"
	"github.com/charmbracelet/log"
	"golang.org/x/net/html/charset"

	"github.com/rohitmishra4444/html-textview/formatter"
	"github.com/rohitmishra4444/html-textview/internal/config"
	"github.com/rohitmishra4444/html-textview/internal/logging"
	"github.com/rohitmishra4444/html-textview/renderer"
	"github.com/rohitmishra4444/html-textview/resources"
	"github.com/rohitmishra4444/html-textview/spanned"
	"github.com/rohitmishra4444/html-textview/styles"
)

// ReadHTML reads the document at path, or standard input if path is "-", and decodes it to UTF-8. The encoding is
// taken from a byte order mark or a meta element, defaulting to windows-1252 as browsers do.
func ReadHTML(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	decoded, err := charset.NewReader(r, "text/html")
	if err != nil {
		return "", fmt.Errorf("detecting encoding: %w", err)
	}
	b, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("reading %v: %w", path, err)
	}
	return string(b), nil
}

// A Session holds the logger and image stores configured for one run of a tool.
type Session struct {
	Config *config.Config
	Logger *log.Logger
	Images *resources.ImageGetter

	sqlite *resources.SQLite
}

// Open prepares a session. Log messages are written to logOutput, or to stderr if logOutput is nil. Images are looked
// up in baseDir, then in each configured resource directory relative to baseDir, then in the configured resource
// database.
func Open(ctx context.Context, cfg *config.Config, baseDir string, logOutput io.Writer) (*Session, error) {
	if logOutput == nil {
		logOutput = os.Stderr
	}
	logger := logging.NewWithWriter(logOutput, cfg.LogLevel)
	logging.SetDefault(logger)

	stores := []resources.Store{resources.NewFS(os.DirFS(baseDir))}
	for _, dir := range cfg.Resources {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(baseDir, dir)
		}
		stores = append(stores, resources.NewFS(os.DirFS(dir)))
	}

	s := &Session{Config: cfg, Logger: logger}
	if cfg.ResourceDB != "" {
		db, err := resources.OpenSQLite(ctx, cfg.ResourceDB)
		if err != nil {
			return nil, err
		}
		s.sqlite = db
		stores = append(stores, db)
	}
	s.Images = resources.NewImageGetter(stores, resources.WithLogger(logger))
	return s, nil
}

// Close releases the session's resource database.
func (s *Session) Close() error {
	if s.sqlite == nil {
		return nil
	}
	return s.sqlite.Close()
}

// Theme returns the configured theme.
func (s *Session) Theme() *chroma.Style {
	return styles.Get(s.Config.Theme)
}

// FormatOptions returns the formatter options for the configuration. Tables are drawn by the configured drawer. If
// onTableClick is non-nil, tables are also made clickable and their markup is passed to onTableClick.
func (s *Session) FormatOptions(theme *chroma.Style, onTableClick func(ctx context.Context, html string) error) []formatter.Option {
	options := []formatter.Option{
		formatter.WithImageGetter(s.Images),
		formatter.WithListIndent(s.Config.Indent),
		formatter.WithTrimTrailingWhitespace(s.Config.Trim),
		formatter.WithLogger(s.Logger),
	}

	switch s.Config.Table {
	case config.TableLink:
		options = append(options, formatter.WithTableDrawer(formatter.TableDrawerFactoryFunc(func() spanned.TableDrawer {
			return renderer.NewLinkTable(theme, onTableClick)
		})))
	default:
		options = append(options, formatter.WithTableDrawer(formatter.TableDrawerFactoryFunc(func() spanned.TableDrawer {
			return renderer.NewGridTable(theme)
		})))
	}
	if onTableClick != nil {
		options = append(options, formatter.WithClickableTable(formatter.ClickableTableFactoryFunc(func() spanned.ClickableTable {
			return renderer.NewLinkTable(theme, onTableClick)
		})))
	}
	return options
}

// ImageMode resolves the configured image mode. The auto mode selects detected.
func (s *Session) ImageMode(detected renderer.ImageMode) renderer.ImageMode {
	switch s.Config.Images {
	case config.ImagesOff:
		return renderer.ImagesOff
	case config.ImagesKitty:
		return renderer.ImagesKitty
	case config.ImagesANSI:
		return renderer.ImagesANSI
	default:
		return detected
	}
}

// DetectImageMode guesses the best image mode for the terminal from the environment.
func DetectImageMode(getenv func(string) string) renderer.ImageMode {
	switch {
	case getenv("TERM") == "xterm-kitty" || getenv("KITTY_WINDOW_ID") != "":
		return renderer.ImagesKitty
	case getenv("COLORTERM") == "truecolor" || getenv("COLORTERM") == "24bit":
		return renderer.ImagesANSI
	default:
		return renderer.ImagesOff
	}
}

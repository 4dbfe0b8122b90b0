// Package cli implements the algoviz command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/algoviz/pkg/buildinfo"
	"github.com/matzehuels/algoviz/pkg/config"
	"github.com/matzehuels/algoviz/pkg/errors"
	"github.com/matzehuels/algoviz/pkg/scenario"
	"github.com/matzehuels/algoviz/pkg/store"
	"github.com/matzehuels/algoviz/pkg/structure"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "algoviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Algoviz records and replays animated data structure scenarios",
		Long:         `Algoviz records algorithm runs as reversible command scenarios, replays them step by step in the terminal, renders frames and serves stored scenarios over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.recordCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration & Store
// =============================================================================

// config loads the configuration once per CLI.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// openStore opens the configured document store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.Store.Options())
}

// =============================================================================
// Documents
// =============================================================================

// readDocument decodes the document at path; "-" reads JSON from stdin.
func readDocument(path string, stdin io.Reader) (*scenario.Document, error) {
	if path == "-" {
		return scenario.Decode(stdin, scenario.FormatJSON)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return scenario.Decode(f, scenario.FormatFromPath(path))
}

// loadDocument reads a document and rebuilds its player with the
// configured tree options.
func (c *CLI) loadDocument(path string, stdin io.Reader) (*scenario.Document, *structure.Tree, *scenario.Scenario, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, nil, nil, err
	}
	doc, err := readDocument(path, stdin)
	if err != nil {
		return nil, nil, nil, err
	}
	tree, s, err := doc.Build(cfg.TreeOptions()...)
	if err != nil {
		return nil, nil, nil, err
	}
	return doc, tree, s, nil
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(path string, w io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// documentFormat resolves an explicit --format flag, falling back to the
// extension of path.
func documentFormat(flag, path string) (scenario.Format, error) {
	if flag != "" {
		return scenario.ParseFormat(flag)
	}
	if path == "" || path == "-" {
		return scenario.FormatJSON, nil
	}
	return scenario.FormatFromPath(path), nil
}

// splitList parses a comma-separated flag, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package separate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cwbudde/algo-stemgate/stem"
)

// ErrStemMissing is returned when the separator exits successfully but an
// expected stem file is absent.
var ErrStemMissing = errors.New("separate: stem file missing")

// Placeholders expanded in separator arguments.
const (
	PlaceholderInput  = "{input}"
	PlaceholderOutput = "{output}"
	PlaceholderModel  = "{model}"
)

// Defaults match spleeter's four-stem model.
const (
	DefaultBinary = "spleeter"
	DefaultModel  = "spleeter:4stems"
)

// DefaultArgs is the spleeter argument template.
var DefaultArgs = []string{"separate", "-p", PlaceholderModel, "-o", PlaceholderOutput, PlaceholderInput}

// DefaultStems lists the files four-stem separation produces.
var DefaultStems = []string{stem.Vocals, stem.Drums, stem.Bass, stem.Other}

// Option configures the CLI separator.
type Option func(*CLI)

// WithBinary overrides the separator executable.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithArgs replaces the argument template.
func WithArgs(args []string) Option {
	return func(c *CLI) {
		if len(args) > 0 {
			c.args = slices.Clone(args)
		}
	}
}

// WithModel sets the value substituted for {model}.
func WithModel(model string) Option {
	return func(c *CLI) {
		if model != "" {
			c.model = model
		}
	}
}

// WithStems sets the stem names expected in the output directory.
func WithStems(stems []string) Option {
	return func(c *CLI) {
		if len(stems) > 0 {
			c.stems = slices.Clone(stems)
		}
	}
}

// CLI runs a command-line separator that writes
// <output>/<input basename>/<stem>.wav.
type CLI struct {
	binary string
	args   []string
	model  string
	stems  []string
}

// NewCLI constructs a separator using spleeter defaults.
func NewCLI(opts ...Option) *CLI {
	c := &CLI{
		binary: DefaultBinary,
		args:   slices.Clone(DefaultArgs),
		model:  DefaultModel,
		stems:  slices.Clone(DefaultStems),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Binary returns the configured executable.
func (c *CLI) Binary() string { return c.binary }

// Separate runs the separator on inputWAV and returns the stem paths.
func (c *CLI) Separate(ctx context.Context, inputWAV, outDir string) (map[string]string, error) {
	if strings.TrimSpace(inputWAV) == "" {
		return nil, errors.New("input path required")
	}
	outDir = strings.TrimSpace(outDir)
	if outDir == "" {
		return nil, errors.New("output directory required")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create separation dir: %w", err)
	}

	cmd := commandContext(ctx, c.binary, c.expandArgs(inputWAV, outDir)...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s separate failed: %w: %s", filepath.Base(c.binary), err, strings.TrimSpace(string(output)))
	}

	return c.locate(inputWAV, outDir)
}

func (c *CLI) expandArgs(input, output string) []string {
	r := strings.NewReplacer(
		PlaceholderInput, input,
		PlaceholderOutput, output,
		PlaceholderModel, c.model,
	)
	args := make([]string, len(c.args))
	for i, arg := range c.args {
		args[i] = r.Replace(arg)
	}
	return args
}

func (c *CLI) locate(input, outDir string) (map[string]string, error) {
	dir := filepath.Join(outDir, BaseName(input))
	paths := make(map[string]string, len(c.stems))
	for _, name := range c.stems {
		path := filepath.Join(dir, name+".wav")
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrStemMissing, path)
		}
		paths[name] = path
	}
	return paths, nil
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		return base
	}
	return name
}

var _ stem.Separator = (*CLI)(nil)

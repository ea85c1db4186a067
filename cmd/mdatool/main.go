// Command mdatool inspects and converts MDA volume files.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/logicossoftware/go-mda"
	"github.com/logicossoftware/go-mda/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootCmd struct {
	Config    string `short:"c" long:"config" default:"mdatool.yaml" description:"YAML config file (ignored when missing)"`
	LogLevel  string `long:"log-level" description:"Log level, overrides the config file"`
	ByteRange bool   `long:"byte-range" description:"Include ubyte samples in the sample range"`

	Version versionCmd `command:"version" description:"Show version information"`
	Inspect inspectCmd `command:"inspect" description:"Print the header of an MDA file"`
	Stats   statsCmd   `command:"stats" description:"Print sample statistics of an MDA file"`
	Export  exportCmd  `command:"export" description:"Write every slice of an MDA file as TIFF"`

	cfg *config.Config
	log zerolog.Logger
}

var root rootCmd

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func newParser(r *rootCmd) *flags.Parser {
	parser := flags.NewParser(r, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if err := r.setup(); err != nil {
			return err
		}
		return cmd.Execute(args)
	}
	return parser
}

func main() {
	if _, err := newParser(&root).Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

// setup loads the config file and applies command line overrides.
func (r *rootCmd) setup() error {
	cfg, err := config.LoadConfig(r.Config)
	if err != nil {
		return err
	}
	if r.LogLevel != "" {
		cfg.LogLevel = r.LogLevel
	}
	if r.ByteRange {
		cfg.ByteRange = true
	}
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	r.cfg = cfg
	r.log = zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
	return nil
}

// readOptions returns the decoder options for path, logging progress per slice.
func (r *rootCmd) readOptions(path string) []mda.ReadOption {
	return append(r.cfg.ReadOptions(), mda.WithProgress(func(done, total int) {
		r.log.Debug().Str("file", path).Int("slice", done).Int("depth", total).Msg("slice decoded")
	}))
}

// format picks the output format: the flag when set, else the config.
func (r *rootCmd) format(flag string) string {
	if flag != "" {
		return flag
	}
	return r.cfg.Format
}

type versionCmd struct{}

// Execute prints the version information.
func (c *versionCmd) Execute(_ []string) error {
	fmt.Fprintf(stdout, "mdatool %s (reads %q)\n", version, mda.Version)
	return nil
}

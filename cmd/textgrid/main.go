// Command textgrid reads, checks, repairs, converts and stores Praat
// TextGrid annotations.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/textgrid/core/errors"
	"github.com/FocuswithJustin/textgrid/core/praat"
	"github.com/FocuswithJustin/textgrid/core/textgrid"
	"github.com/FocuswithJustin/textgrid/internal/config"
	"github.com/FocuswithJustin/textgrid/internal/logging"
	"github.com/FocuswithJustin/textgrid/internal/validation"
)

const version = "0.1.0"

// Command output and log output; tests replace them.
var (
	stdout    io.Writer = os.Stdout
	logOutput io.Writer = os.Stderr
)

// cli defines the command-line interface for textgrid.
type cli struct {
	// Global flags
	Config    string `name:"config" short:"c" help:"YAML configuration file" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (text, json)"`
	Quiet     bool   `name:"quiet" short:"q" help:"Do not log warnings"`

	Info    InfoCmd    `cmd:"" help:"Print a summary of a TextGrid"`
	Convert ConvertCmd `cmd:"" help:"Rewrite a TextGrid in verbose or compact layout"`
	Check   CheckCmd   `cmd:"" help:"Report gaps, overlaps and duplicate points"`
	Fix     FixCmd     `cmd:"" help:"Repair interval boundaries and fill gaps"`
	Store   StoreGroup `cmd:"" help:"Corpus store operations"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// CLI holds the parsed command line.
var CLI cli

// session is what every command needs after global flags are applied.
type session struct {
	command  string
	ctx      context.Context
	cfg      *config.Config
	warnings *textgrid.Collector
	sink     textgrid.Sink
}

// newSession loads the configuration, applies global flags over it and
// initializes logging.
func newSession(command string) (*session, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	if CLI.LogLevel != "" {
		cfg.Log.Level = CLI.LogLevel
	}
	if CLI.LogFormat != "" {
		cfg.Log.Format = CLI.LogFormat
	}
	if CLI.Quiet {
		cfg.Warnings = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.InitLoggerTo(logOutput, cfg.LogLevel(), cfg.LogFormat())

	s := &session{
		command:  command,
		ctx:      logging.WithRunID(context.Background(), uuid.NewString()),
		cfg:      cfg,
		warnings: &textgrid.Collector{},
	}
	if cfg.Warnings {
		s.sink = textgrid.MultiSink(s.warnings, logging.WarningSink(logging.LoggerFromContext(s.ctx)))
	} else {
		s.sink = s.warnings
	}
	return s, nil
}

// load decodes the file at path.
func (s *session) load(path string) (*textgrid.Document, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, errors.Wrap(err, "invalid input path")
	}
	doc, err := praat.ParseFile(path, s.sink)
	if err != nil {
		return nil, err
	}
	logging.DocumentLoaded(s.ctx, path, doc.Name, doc.Size(), s.warnings.Len())
	return doc, nil
}

// fail logs a failed command with the run ID and returns err unchanged.
func (s *session) fail(err error) error {
	if err != nil {
		logging.ErrorContext(s.ctx, "command failed", "command", s.command, "error", err)
	}
	return err
}

// mode returns the --mode flag value, or the configured mode when empty.
func (s *session) mode(flag string) (praat.Mode, error) {
	if flag == "" {
		return s.cfg.OutputMode(), nil
	}
	return praat.ParseMode(flag)
}

// write writes doc to dest and reports the file it created.
func (s *session) write(doc *textgrid.Document, dest string, mode praat.Mode) error {
	path, err := praat.Resolve(doc, dest)
	if err != nil {
		return err
	}
	if err := praat.Write(doc, dest, mode); err != nil {
		return err
	}
	logging.DocumentWritten(s.ctx, path, mode.String())
	fmt.Fprintf(stdout, "Wrote: %s\n", path)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("textgrid"),
		kong.Description("Praat TextGrid reader, writer and corpus tool"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alexisbeaulieu97/inapp/internal/config"
	"github.com/alexisbeaulieu97/inapp/internal/logger"
	"github.com/alexisbeaulieu97/inapp/internal/message"
	"github.com/alexisbeaulieu97/inapp/internal/metrics"
	"github.com/alexisbeaulieu97/inapp/internal/parser"
)

// AppContext bundles long-lived services created before a command runs.
type AppContext struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.Recorder
}

func newAppContext(flags *rootFlags, stderr io.Writer) (*AppContext, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	opts := cfg.LoggerOptions()
	opts.Writer = stderr
	opts.Component = "cli"
	if flags.verbose {
		opts.Level = "debug"
	}
	log, err := logger.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &AppContext{Config: cfg, Logger: log, Metrics: metrics.New()}, nil
}

// Parser returns a payload parser bound to the configured API level.
func (a *AppContext) Parser() *parser.Parser {
	return parser.New(parser.Options{
		APILevel: a.Config.Messaging.APILevel,
		Logger:   a.Logger,
		Metrics:  a.Metrics,
	})
}

// LoadMessage reads and parses a payload file; "-" reads stdin.
func (a *AppContext) LoadMessage(path string, stdin io.Reader) (*message.Message, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	msg, err := a.Parser().Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse payload %s: %w", path, err)
	}
	return msg, nil
}

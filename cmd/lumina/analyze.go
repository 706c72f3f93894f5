package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lumina-tools/lumina/internal/output"
	"github.com/lumina-tools/lumina/pkg/config"
	"github.com/lumina-tools/lumina/pkg/engine"
	"github.com/lumina-tools/lumina/pkg/explain"
	"github.com/lumina-tools/lumina/pkg/sandbox"
)

// loadConfig resolves configuration from the --config flag or standard
// locations, then applies command-line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if c.IsSet("timeout") {
		cfg.Sandbox.TimeoutSeconds = c.Float64("timeout")
	}
	if c.IsSet("python") {
		cfg.Sandbox.Python = c.String("python")
	}
	return cfg, nil
}

func newFormatter(c *cli.Context) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
}

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Analyze a Python file statically and dynamically",
		ArgsUsage: "<file.py>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "static-only",
				Usage: "Skip sandbox execution",
			},
			&cli.Float64Flag{
				Name:  "timeout",
				Usage: "Sandbox execution deadline in seconds",
			},
			&cli.StringFlag{
				Name:  "python",
				Usage: "Python interpreter for the sandbox",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one file, got %d", c.Args().Len())
	}
	path := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.Bool("static-only") {
		cfg.Analysis.EnableDynamic = false
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	report, err := eng.Analyze(c.Context, source, path)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.NewReport(report, explain.New().Explain(report)))
}

func traceCmd() *cli.Command {
	return &cli.Command{
		Name:      "trace",
		Usage:     "Run a Python file in the sandbox and dump the execution trace",
		ArgsUsage: "<file.py>",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "timeout",
				Usage: "Sandbox execution deadline in seconds",
			},
			&cli.StringFlag{
				Name:  "python",
				Usage: "Python interpreter for the sandbox",
			},
			&cli.IntFlag{
				Name:  "max-events",
				Usage: "Trace event cap",
			},
		},
		Action: runTraceCmd,
	}
}

func runTraceCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one file, got %d", c.Args().Len())
	}
	path := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("max-events") {
		cfg.Sandbox.MaxTraceEvents = c.Int("max-events")
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	runner := sandbox.New(
		sandbox.WithTimeout(time.Duration(cfg.Sandbox.TimeoutSeconds*float64(time.Second))),
		sandbox.WithMaxEvents(cfg.Sandbox.MaxTraceEvents),
		sandbox.WithReprLimit(cfg.Sandbox.MaxReprLength),
		sandbox.WithMemoryLimitMB(cfg.Sandbox.MemoryLimitMB),
		sandbox.WithPython(cfg.Sandbox.Python),
	)

	result, err := runner.Run(context.Background(), source)
	if err != nil {
		return fmt.Errorf("sandbox failed: %w", err)
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.NewTrace(path, result))
}

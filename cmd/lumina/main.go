package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "lumina",
		Usage:   "Python defect inspector",
		Version: version,
		Description: `Lumina inspects a Python file two ways at once: tree-sitter based
static analysis (defect patterns, cyclomatic complexity, variable usage)
and traced execution in an isolated subprocess sandbox. The two views are
merged into one report with a plain-language explanation.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"LUMINA_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable report caching",
			},
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			traceCmd(),
			demoCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

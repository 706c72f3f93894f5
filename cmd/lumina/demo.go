package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/lumina-tools/lumina/internal/output"
	"github.com/lumina-tools/lumina/pkg/engine"
	"github.com/lumina-tools/lumina/pkg/explain"
	"github.com/lumina-tools/lumina/pkg/models"
)

func demoCmd() *cli.Command {
	return &cli.Command{
		Name:      "demo",
		Usage:     "Analyze every sample in a directory and print a one-line verdict per file",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "timeout",
				Usage: "Sandbox execution deadline in seconds",
			},
			&cli.StringFlag{
				Name:  "python",
				Usage: "Python interpreter for the sandbox",
			},
		},
		Action: runDemoCmd,
	}
}

func runDemoCmd(c *cli.Context) error {
	dir := "samples"
	if c.Args().Len() > 0 {
		dir = c.Args().First()
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".py") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		color.Yellow("No Python files found in %s", dir)
		return nil
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Analyzing samples..."),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)

	type verdict struct {
		path    string
		summary string
		reports *models.AnalysisReport
	}
	verdicts := make([]verdict, 0, len(files))
	explainer := explain.New()

	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		report, err := eng.Analyze(c.Context, source, path)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", path, err)
		}
		verdicts = append(verdicts, verdict{
			path:    path,
			summary: explainer.Explain(report).Summary,
			reports: report,
		})
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if format := output.ParseFormat(c.String("format")); format == output.FormatJSON {
		formatter, err := newFormatter(c)
		if err != nil {
			return err
		}
		defer formatter.Close()
		all := make([]*models.AnalysisReport, 0, len(verdicts))
		for _, v := range verdicts {
			all = append(all, v.reports)
		}
		return formatter.Output(all)
	}

	for _, v := range verdicts {
		color.New(color.Bold).Printf("%s\n", v.path)
		fmt.Printf("  %s\n", v.summary)
	}
	return nil
}

// Package engine joins static and dynamic analysis into one AnalysisReport.
// The two analyses share no mutable state and run concurrently; the join is
// pure combination and never re-derives fields.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/lumina-tools/lumina/internal/cache"
	"github.com/lumina-tools/lumina/pkg/analyzer/complexity"
	"github.com/lumina-tools/lumina/pkg/analyzer/patterns"
	"github.com/lumina-tools/lumina/pkg/analyzer/static"
	"github.com/lumina-tools/lumina/pkg/config"
	"github.com/lumina-tools/lumina/pkg/models"
	"github.com/lumina-tools/lumina/pkg/sandbox"
)

// Engine owns one static analyzer and one sandbox runner configured from a
// shared Config.
type Engine struct {
	cfg    *config.Config
	static *static.Analyzer
	runner *sandbox.Runner
	store  *cache.Cache
}

// New builds an engine from configuration.
func New(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}

	return &Engine{
		cfg: cfg,
		static: static.New(
			static.WithDetector(patterns.New(patterns.WithMaxFunctionLines(cfg.Analysis.MaxFunctionLines))),
			static.WithComplexity(complexity.New(complexity.WithThresholds(cfg.Analysis.RiskThresholds))),
		),
		runner: sandbox.New(
			sandbox.WithTimeout(time.Duration(cfg.Sandbox.TimeoutSeconds*float64(time.Second))),
			sandbox.WithMaxEvents(cfg.Sandbox.MaxTraceEvents),
			sandbox.WithReprLimit(cfg.Sandbox.MaxReprLength),
			sandbox.WithMemoryLimitMB(cfg.Sandbox.MemoryLimitMB),
			sandbox.WithPython(cfg.Sandbox.Python),
		),
		store: store,
	}, nil
}

// Close releases analyzer resources.
func (e *Engine) Close() {
	e.static.Close()
}

// Analyze produces the full report for one source file. Static and dynamic
// analysis run concurrently; when the source does not parse, no dynamic
// result is attached and the traced program is never executed.
func (e *Engine) Analyze(ctx context.Context, source []byte, path string) (*models.AnalysisReport, error) {
	key := cache.Key(source, e.cfg.Fingerprint())
	if data, ok := e.store.Get(key); ok {
		var report models.AnalysisReport
		if err := json.Unmarshal(data, &report); err == nil {
			report.Path = path
			return &report, nil
		}
		e.store.Invalidate(key)
	}

	var (
		staticRes *models.StaticResult
		staticErr error
		dynRes    *models.DynamicResult
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		staticRes, staticErr = e.static.Analyze(source, path)
	})
	if e.cfg.Analysis.EnableDynamic {
		wg.Go(func() {
			dyn, err := e.runner.Run(ctx, source)
			if err != nil {
				// Host-side failure (interpreter missing): the dynamic
				// sub-result records it; static analysis is unaffected.
				dyn = &models.DynamicResult{
					Success: false,
					Trace:   []models.TraceEvent{},
					Exception: &models.ExceptionInfo{
						Type:     "SandboxUnavailable",
						Message:  err.Error(),
						FromHost: true,
					},
				}
			}
			dynRes = dyn
		})
	}
	wg.Wait()

	if staticErr != nil {
		return nil, staticErr
	}
	if !staticRes.SyntaxValid {
		// The sandbox harness refuses to execute unparseable source; drop
		// its placeholder result entirely.
		dynRes = nil
	}

	report := &models.AnalysisReport{
		Path:        path,
		GeneratedAt: time.Now().UTC(),
		Static:      *staticRes,
		Dynamic:     dynRes,
		Summary:     summarize(staticRes, dynRes),
	}

	if cacheable(dynRes) {
		if data, err := json.Marshal(report); err == nil {
			e.store.Set(key, data)
		}
	}

	return report, nil
}

// cacheable reports whether the run is deterministic enough to reuse.
// Host-side failures (deadline kills, interpreter problems) may resolve on
// a later run; exceptions the program raised itself are reproducible.
func cacheable(dyn *models.DynamicResult) bool {
	return dyn == nil || dyn.Exception == nil || !dyn.Exception.FromHost
}

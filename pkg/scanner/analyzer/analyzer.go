// Package analyzer builds a ParamProfile for one parameter by probing the
// character catalog against it.
package analyzer

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lcalzada-xor/xssdynagen/pkg/charset"
	"github.com/lcalzada-xor/xssdynagen/pkg/config"
	"github.com/lcalzada-xor/xssdynagen/pkg/logger"
	"github.com/lcalzada-xor/xssdynagen/pkg/models"
)

// Prober is the reflection oracle the analyzer drives
type Prober interface {
	TestChar(ctx context.Context, targetURL, param string, c rune) bool
	QuickTestScripts(ctx context.Context, targetURL, param string) bool
	QuickTestEvents(ctx context.Context, targetURL, param string) bool
	QuickTestLength(ctx context.Context, targetURL, param string) *int
}

// Analyzer profiles parameters
type Analyzer struct {
	prober    Prober
	catalog   *charset.Catalog
	batchSize int
	logger    *logger.Logger
}

// New creates an analyzer. A non-positive batchSize uses the default.
func New(prober Prober, catalog *charset.Catalog, batchSize int, log *logger.Logger) *Analyzer {
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}
	return &Analyzer{prober: prober, catalog: catalog, batchSize: batchSize, logger: log}
}

// Analyze profiles param on targetURL. The only error it returns is the
// context's, in which case the partial profile is discarded.
func (a *Analyzer) Analyze(ctx context.Context, targetURL, param string) (*models.ParamProfile, error) {
	a.logger.Section("Analyzing parameter: " + param)

	if !a.viable(ctx, targetURL, param) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a.logger.V("Parameter %s does not reflect, skipping full sweep", param)
		return models.EmptyProfile(targetURL, param), nil
	}

	outcomes, err := a.sweep(ctx, targetURL, param)
	if err != nil {
		return nil, err
	}

	probes := a.quickTests(ctx, targetURL, param)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile := models.NewParamProfile(targetURL, param, outcomes, probes)
	a.logger.V("%s: %d allowed, %d blocked characters", param, len(profile.AllowedChars), len(profile.BlockedChars))
	a.logger.Detail("Allowed: %s", profile.AllowedChars)
	a.logger.Detail("Blocked: %s", profile.BlockedChars)
	return profile, nil
}

// viable probes a small sample of basic characters concurrently and
// reports whether any of them is reflected.
func (a *Analyzer) viable(ctx context.Context, targetURL, param string) bool {
	sample := a.catalog.Sample(config.BasicGroup, config.GateSampleSize)
	if len(sample) == 0 {
		return false
	}

	var mu sync.Mutex
	reflected := false
	var g errgroup.Group
	for _, c := range sample {
		c := c
		g.Go(func() error {
			if a.prober.TestChar(ctx, targetURL, param, c) {
				mu.Lock()
				reflected = true
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()
	return reflected
}

// sweep probes every catalog group in batches. Each batch runs
// concurrently and finishes before the next one starts.
func (a *Analyzer) sweep(ctx context.Context, targetURL, param string) (map[rune]bool, error) {
	var mu sync.Mutex
	outcomes := make(map[rune]bool, a.catalog.TotalChars())

	for _, group := range a.catalog.Groups() {
		a.logger.VV("Group %s (%d chars)", group.Name, len(group.Chars))
		for start := 0; start < len(group.Chars); start += a.batchSize {
			end := min(start+a.batchSize, len(group.Chars))

			var g errgroup.Group
			for _, c := range group.Chars[start:end] {
				c := c
				g.Go(func() error {
					ok := a.prober.TestChar(ctx, targetURL, param, c)
					mu.Lock()
					outcomes[c] = ok
					mu.Unlock()
					return nil
				})
			}
			g.Wait()

			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	return outcomes, nil
}

// quickTests runs the script, event and length probes concurrently
func (a *Analyzer) quickTests(ctx context.Context, targetURL, param string) models.ProbeResults {
	var res models.ProbeResults
	var g errgroup.Group
	g.Go(func() error {
		res.Scripts = a.prober.QuickTestScripts(ctx, targetURL, param)
		return nil
	})
	g.Go(func() error {
		res.Events = a.prober.QuickTestEvents(ctx, targetURL, param)
		return nil
	})
	g.Go(func() error {
		res.MaxLength = a.prober.QuickTestLength(ctx, targetURL, param)
		return nil
	})
	g.Wait()

	a.logger.Detail("Scripts: %v, Events: %v", res.Scripts, res.Events)
	if res.MaxLength != nil {
		a.logger.Detail("Max length: %d", *res.MaxLength)
	}
	return res
}

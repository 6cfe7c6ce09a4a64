package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/lcalzada-xor/xssdynagen/pkg/charset"
	"github.com/lcalzada-xor/xssdynagen/pkg/config"
	"github.com/lcalzada-xor/xssdynagen/pkg/input"
	"github.com/lcalzada-xor/xssdynagen/pkg/logger"
	"github.com/lcalzada-xor/xssdynagen/pkg/models"
	"github.com/lcalzada-xor/xssdynagen/pkg/network"
	"github.com/lcalzada-xor/xssdynagen/pkg/output"
	"github.com/lcalzada-xor/xssdynagen/pkg/scanner"
	"github.com/lcalzada-xor/xssdynagen/pkg/scanner/cache"
	"github.com/lcalzada-xor/xssdynagen/pkg/scanner/payloads"
)

var (
	// ErrNoURLs is returned when no usable URL was supplied
	ErrNoURLs = errors.New("no URLs with parameters to scan")
	// ErrNoParameters is returned when the single target URL has no query parameters
	ErrNoParameters = errors.New("the provided URL must contain at least one query parameter")
)

// Runner handles the execution of the scanning process
type Runner struct {
	options *Options
	logger  *logger.Logger
	stdin   io.Reader
	stderr  io.Writer
	now     func() time.Time
}

// NewRunner creates a new Runner instance
func NewRunner(options *Options) *Runner {
	options.normalize()
	log := logger.NewLogger(options.verboseLevel())
	log.SetQuiet(options.Silent)
	return &Runner{
		options: options,
		logger:  log,
		stdin:   os.Stdin,
		stderr:  os.Stderr,
		now:     time.Now,
	}
}

// Run executes the scan, cancelling it on SIGINT or SIGTERM
func (r *Runner) Run() (*models.Report, error) {
	// Create root context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			if !r.options.Silent {
				fmt.Fprintln(r.stderr, "\n[!] Received interrupt, shutting down...")
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return r.RunContext(ctx)
}

// RunContext executes the scan until it completes or ctx is cancelled.
// Results of URLs completed before cancellation are still written.
func (r *Runner) RunContext(ctx context.Context) (*models.Report, error) {
	start := r.now()
	scanID := uuid.New().String()

	if r.options.LogFile != "" {
		closer, err := r.logger.OpenFile(r.options.LogFile, map[string]string{"scan_id": scanID})
		if err != nil {
			r.logger.Warn("Log file disabled: %v", err)
		} else {
			defer closer.Close()
		}
	}

	urls, err := r.loadURLs()
	if err != nil {
		return nil, err
	}

	r.printBanner()
	r.logger.V("Scan ID: %s", scanID)
	r.logger.V("Connections: %d, batch size: %d", r.options.MaxConnections, r.options.BatchSize)
	r.logger.V("Timeout: %v (probes: %v)", r.options.Timeout, r.options.ProbeTimeout)

	headers, bad := r.options.headerMap()
	for _, h := range bad {
		r.logger.Warn("Ignoring malformed header: %q", h)
	}

	catalog := charset.Load(r.options.CharFile, r.logger)
	r.logger.V("Loaded %d character groups (%d characters)", catalog.Len(), catalog.TotalChars())

	// Create HTTP client with optimized connection pooling
	client := network.NewClient(r.options.Timeout, r.options.Proxy, r.options.MaxConnections, r.options.RateLimit)
	client.SetHeaders(headers)
	defer client.Close()

	sc := scanner.NewScanner(client, cache.New(r.options.CacheTTL), catalog, r.logger, r.options.BatchSize)
	sc.SetDetectWAF(!r.options.NoWAF)
	sc.SetSynthesisOptions(payloads.Options{StrictJS: r.options.StrictJS})
	sc.SetProbeTimeout(r.options.ProbeTimeout)

	results, processed, interrupted := r.process(ctx, sc, urls)

	report := &models.Report{
		ScanID:        scanID,
		StartedAt:     start,
		URLsProcessed: processed,
		Results:       results,
		Interrupted:   interrupted,
	}
	for _, res := range results {
		for _, p := range res.Payloads {
			report.TotalPayloads += len(p)
		}
	}
	report.Unique = output.Collect(results)

	path := output.OutputPath(r.options.OutputDir, r.options.OutputName, start)
	if err := output.WritePayloads(path, report.Unique); err != nil {
		r.logger.Error("Error writing payloads: %v", err)
	} else {
		report.OutputFile = path
	}

	report.Duration = r.now().Sub(start).Round(time.Millisecond).String()
	if r.options.ReportFile != "" {
		if err := output.WriteReport(r.options.ReportFile, report); err != nil {
			r.logger.Error("Error writing report: %v", err)
		}
	}

	r.printSummary(report, sc.GetRequestCount())
	return report, nil
}

// process scans urls one at a time. A URL whose base and parameter names
// match an earlier one is skipped. processed counts every URL handled,
// skipped and failed ones included. On cancellation the URL in flight is
// dropped and interrupted is true.
func (r *Runner) process(ctx context.Context, sc *scanner.Scanner, urls []string) (results []*models.URLResult, processed int, interrupted bool) {
	bar := r.progressBar(len(urls))
	defer bar.Finish()

	seen := make(map[string]struct{})
	results = []*models.URLResult{}

	for i, u := range urls {
		if ctx.Err() != nil {
			return results, processed, true
		}

		if key, ok := input.PatternKey(u); ok {
			if _, dup := seen[key]; dup {
				r.logger.V("Skipping duplicate pattern: %s", u)
				bar.Add(1)
				processed++
				continue
			}
			seen[key] = struct{}{}
		}

		r.logger.V("[%d/%d] Scanning: %s", i+1, len(urls), u)
		res, err := sc.Scan(ctx, u)
		if ctx.Err() != nil {
			return results, processed, true
		}
		bar.Add(1)
		processed++
		if err != nil {
			if errors.Is(err, scanner.ErrNoParameters) {
				r.logger.Warn("Skipping %s: %v", u, err)
			} else {
				r.logger.Error("Error scanning %s: %v", u, err)
			}
			continue
		}

		if r.logger.IsVerbose() && !r.options.Silent {
			for _, profile := range res.Profiles {
				fmt.Fprint(r.stderr, output.Format(profile, "human"))
			}
		}
		results = append(results, res)
	}
	return results, processed, false
}

// loadURLs resolves the single-URL, list or stdin input into a filtered list
func (r *Runner) loadURLs() ([]string, error) {
	if r.options.Domain != "" {
		params, err := input.ExtractParameters(r.options.Domain)
		if err != nil {
			return nil, fmt.Errorf("unable to parse URL: %w", err)
		}
		if len(params) == 0 {
			return nil, ErrNoParameters
		}
		r.logger.Info("Loaded: 1 URL with %d parameter(s)", len(params))
		return []string{r.options.Domain}, nil
	}

	src := r.stdin
	if r.options.URLList != "" {
		f, err := os.Open(r.options.URLList)
		if err != nil {
			return nil, fmt.Errorf("opening URL list: %w", err)
		}
		defer f.Close()
		src = f
	}
	if src == nil {
		return nil, ErrNoURLs
	}

	raw, err := input.ReadURLs(src)
	if err != nil {
		return nil, fmt.Errorf("reading URLs: %w", err)
	}
	urls, stats := input.FilterURLs(raw)
	if stats.NoParams > 0 {
		r.logger.Info("Ignored %d URLs without parameters", stats.NoParams)
	}
	r.logger.V("Filtered out %d invalid and %d duplicate URLs", stats.Invalid, stats.Duplicates)
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	r.logger.Info("Loaded: %d URLs with parameters", len(urls))
	return urls, nil
}

func (r *Runner) progressBar(n int) *progressbar.ProgressBar {
	if r.options.Silent || r.logger.IsVerbose() {
		return progressbar.DefaultSilent(int64(n))
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(r.stderr),
		progressbar.OptionSetDescription("Analyzing URLs"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *Runner) printBanner() {
	if r.options.Silent {
		return
	}
	fmt.Fprintln(r.stderr, "")
	fmt.Fprintf(r.stderr, "   \x1b[38;5;93mxss\x1b[38;5;129mdyna\x1b[38;5;141mgen\x1b[0m  \x1b[38;5;141m%s\x1b[0m | \x1b[38;5;141m%s\x1b[0m\n", config.Version, config.Author)
	fmt.Fprintln(r.stderr, "   \x1b[38;5;57mXSS payload generator driven by reflection analysis\x1b[0m")
	fmt.Fprintln(r.stderr, "")
}

func (r *Runner) printSummary(report *models.Report, requests int) {
	if r.options.Silent {
		return
	}
	title := color.New(color.FgMagenta, color.Bold).SprintFunc()
	label := color.New(color.FgCyan).SprintFunc()
	value := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintln(r.stderr, "")
	if report.Interrupted {
		fmt.Fprintln(r.stderr, color.YellowString("[!] Scan interrupted, results of completed URLs were kept"))
	}
	fmt.Fprintln(r.stderr, title("Scan Summary"))
	fmt.Fprintf(r.stderr, "  %s %s\n", label("Duration:"), value(report.Duration))
	fmt.Fprintf(r.stderr, "  %s %s\n", label("URLs processed:"), value(report.URLsProcessed))
	fmt.Fprintf(r.stderr, "  %s %s\n", label("HTTP requests:"), value(requests))
	fmt.Fprintf(r.stderr, "  %s %s\n", label("Total payloads generated:"), value(report.TotalPayloads))
	fmt.Fprintf(r.stderr, "  %s %s\n", label("Unique payloads:"), value(len(report.Unique)))
	if report.OutputFile != "" {
		fmt.Fprintf(r.stderr, "  %s %s\n", label("Saved to:"), value(report.OutputFile))
	}
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/lcalzada-xor/xssdynagen/pkg/config"
	"github.com/lcalzada-xor/xssdynagen/pkg/runner"
)

// newFlagSet binds every CLI flag to opts
func newFlagSet(opts *runner.Options, configPath *string, showVersion *bool) *flag.FlagSet {
	fs := flag.NewFlagSet("xssdynagen", flag.ContinueOnError)
	fs.SortFlags = false

	// Input
	fs.StringVarP(&opts.Domain, "domain", "d", opts.Domain, "Single URL to analyze (must carry query parameters)")
	fs.StringVarP(&opts.URLList, "url-list", "l", opts.URLList, "File with one URL per line (stdin when neither -d nor -l is given)")

	// Scanning
	fs.IntVarP(&opts.MaxConnections, "connections", "c", opts.MaxConnections, "Maximum concurrent connections")
	fs.IntVarP(&opts.BatchSize, "batch-size", "b", opts.BatchSize, "Characters probed concurrently per batch")
	fs.StringArrayVarP(&opts.Headers, "header", "H", opts.Headers, "Custom header, repeatable (e.g. 'Cookie: session=123')")
	fs.StringVarP(&opts.CharFile, "char-file", "f", opts.CharFile, "Character groups file")
	fs.DurationVarP(&opts.Timeout, "timeout", "t", opts.Timeout, "Session request timeout")
	fs.DurationVar(&opts.ProbeTimeout, "probe-timeout", opts.ProbeTimeout, "Per-probe timeout")
	fs.Float64Var(&opts.RateLimit, "rate-limit", opts.RateLimit, "Requests per second (0 = unlimited)")
	fs.StringVarP(&opts.Proxy, "proxy", "x", opts.Proxy, "Proxy URL (e.g. http://127.0.0.1:8080)")

	// Generation
	fs.BoolVar(&opts.StrictJS, "strict-js", opts.StrictJS, "Drop payloads whose <script> body is not valid JavaScript")
	fs.BoolVar(&opts.NoWAF, "no-waf", opts.NoWAF, "Skip the passive WAF baseline request")

	// Output
	fs.StringVarP(&opts.OutputName, "output", "o", opts.OutputName, "Output file basename")
	fs.StringVar(&opts.OutputDir, "output-dir", opts.OutputDir, "Output directory")
	fs.StringVar(&opts.ReportFile, "report", opts.ReportFile, "Write a JSON report to this file")
	fs.StringVar(&opts.LogFile, "log-file", opts.LogFile, "Structured log file (empty to disable)")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "Verbose output")
	fs.BoolVar(&opts.VeryVerbose, "vv", opts.VeryVerbose, "Very verbose output")
	fs.BoolVarP(&opts.Silent, "silent", "s", opts.Silent, "Silent mode (suppress banner, progress and summary)")

	fs.StringVar(configPath, "config", *configPath, "YAML options file; flags override its values")
	fs.BoolVar(showVersion, "version", *showVersion, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "\n   \x1b[38;5;93mxss\x1b[38;5;129mdyna\x1b[38;5;141mgen\x1b[0m %s | %s\n\n", config.Version, config.Author)
		fmt.Fprintln(os.Stderr, "USAGE:\n  xssdynagen [-d URL | -l FILE] [flags]")
		fmt.Fprintln(os.Stderr, "\nFLAGS:")
		fmt.Fprint(os.Stderr, fs.FlagUsages())
		fmt.Fprint(os.Stderr, `
EXAMPLES:
  xssdynagen -d "http://example.com/search?q=test"
  xssdynagen -l urls.txt -c 60 -H "Cookie: session=123" --report report.json
  cat urls.txt | xssdynagen -s -o target
`)
	}
	return fs
}

// parseOptions reads --config first so that flags given on the command
// line win over values from the file.
func parseOptions(args []string) (*runner.Options, bool, error) {
	var configPath string
	var showVersion bool

	probe := newFlagSet(runner.DefaultOptions(), &configPath, &showVersion)
	probe.Usage = func() {}
	probe.SetOutput(io.Discard)
	if err := probe.Parse(args); err != nil {
		newFlagSet(runner.DefaultOptions(), new(string), new(bool)).Usage()
		return nil, false, err
	}

	opts := runner.DefaultOptions()
	if configPath != "" {
		if err := runner.LoadOptions(configPath, opts); err != nil {
			return nil, false, err
		}
	}

	fs := newFlagSet(opts, &configPath, &showVersion)
	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}
	return opts, showVersion, nil
}

func main() {
	opts, showVersion, err := parseOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if showVersion {
		fmt.Println(config.Version)
		return
	}

	report, err := runner.NewRunner(opts).Run()
	if err != nil {
		if !opts.Silent {
			fmt.Fprintf(os.Stderr, "[!] Error: %v\n", err)
		}
		os.Exit(1)
	}
	if report.Interrupted {
		os.Exit(130)
	}
}

// Package main provides the pqsim command line tool.
// It runs a register file script against the PQSPR model and prints the
// commit trace in the format of the RTL simulation log.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/pqsim/driver"
	"github.com/sarchlab/pqsim/params"
	"github.com/sarchlab/pqsim/pqspr"
	"github.com/sarchlab/pqsim/tracing"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	seed       bool
	rtl        bool
	tracePath  string
	goldenPath string
	digest     bool
	verbose    bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("pqsim", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var opts options
	flags.StringVar(&opts.configPath, "config", "", "Path to session configuration JSON file")
	flags.BoolVar(&opts.seed, "seed", true, "Preload the derived NTT constants")
	flags.BoolVar(&opts.rtl, "rtl", false, "Write the trace in RTL log format")
	flags.StringVar(&opts.tracePath, "trace", "", "Write the trace to a file instead of stdout")
	flags.StringVar(&opts.goldenPath, "golden", "", "Compare the trace with a reference trace")
	flags.BoolVar(&opts.digest, "digest", false, "Print the SHA3-256 digest of the trace")
	flags.BoolVar(&opts.verbose, "v", false, "Verbose output")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if flags.NArg() != 1 {
		fmt.Fprintf(stderr, "Usage: pqsim [options] <script|->\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		flags.PrintDefaults()
		return 1
	}

	if err := simulate(flags.Arg(0), opts, stdin, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func simulate(scriptPath string, opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	config := params.DefaultConfig()
	if opts.configPath != "" {
		var err error
		config, err = params.LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	stmts, err := readScript(scriptPath, stdin)
	if err != nil {
		return err
	}

	out := stdout
	if opts.tracePath != "" {
		f, err := os.Create(opts.tracePath)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var produced bytes.Buffer
	if opts.goldenPath != "" {
		out = io.MultiWriter(out, &produced)
	}

	var tracerOpts []tracing.TracerOption
	if opts.rtl {
		tracerOpts = append(tracerOpts, tracing.WithRTLFormat())
	}

	file := pqspr.NewFile(config.FileOptions()...)
	tracer := tracing.NewTracer(out, tracerOpts...)
	file.AcceptHook(tracer)

	driverOpts := []driver.Option{
		driver.WithLog(stderr),
		driver.WithVerbose(opts.verbose),
	}
	if opts.seed {
		consts, err := params.Derive(config)
		if err != nil {
			return err
		}
		driverOpts = append(driverOpts, driver.WithSeed(consts))

		if opts.verbose {
			fmt.Fprintf(stderr, "q = %d, q_dash = 0x%08x, psi = %d, omega = %d, order = %d\n",
				consts.Q, consts.QDash, consts.Psi, consts.Omega, consts.Order)
		}
	}

	drv, err := driver.NewDriver(file, driverOpts...)
	if err != nil {
		return err
	}

	if err := drv.Run(stmts); err != nil {
		return err
	}
	if err := tracer.Err(); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}

	if opts.verbose {
		stats := drv.Stats()
		fmt.Fprintf(stderr, "\nScript: %s\n", scriptPath)
		fmt.Fprintf(stderr, "Cycles:    %d\n", stats.Cycles)
		fmt.Fprintf(stderr, "Commits:   %d\n", stats.Commits)
		fmt.Fprintf(stderr, "Aborts:    %d\n", stats.Aborts)
		fmt.Fprintf(stderr, "Ops:       %d\n", stats.Ops)
		fmt.Fprintf(stderr, "Committed: %d registers\n", stats.Committed)
		fmt.Fprintf(stderr, "Expects:   %d\n", stats.Expects)
		fmt.Fprintf(stderr, "Trace:     %d lines\n", tracer.Lines())
	}

	if opts.digest {
		fmt.Fprintf(stderr, "digest: %s\n", tracer.Digest())
	}

	if opts.goldenPath != "" {
		return compareGolden(opts.goldenPath, &produced)
	}

	return nil
}

func readScript(path string, stdin io.Reader) ([]driver.Statement, error) {
	if path == "-" {
		return driver.Parse(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	return driver.Parse(f)
}

func compareGolden(path string, produced io.Reader) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open reference trace: %w", err)
	}
	defer f.Close()

	mismatch, err := tracing.Compare(f, produced)
	if err != nil {
		return err
	}
	if mismatch != nil {
		return mismatch
	}
	return nil
}

// Command riscv-hart is the CLI test harness named but left out-of-scope
// by the core hart package: it scans a directory of riscv-tests-style
// binaries, runs each on a fresh hart, and reports pass/fail via the
// tohost convention. Flag handling follows the teacher's main.go: one flat
// flag.Bool/flag.String/flag.Uint64 block, -verbose gating extra output,
// os.Exit carrying the final status.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lookbusy1344/riscv-hart/bus"
	"github.com/lookbusy1344/riscv-hart/config"
	"github.com/lookbusy1344/riscv-hart/csr"
	"github.com/lookbusy1344/riscv-hart/hart"
	"github.com/lookbusy1344/riscv-hart/loader"
)

var (
	// Version is set by the build, matching the teacher's ldflags convention.
	Version = "dev"
)

const (
	syscallExit = 93
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		testDir     = flag.String("dir", "", "Directory of riscv-tests binaries to run")
		configPath  = flag.String("config", "", "Path to a config.toml (default: platform config path)")
		maxCycles   = flag.Uint64("max-cycles", 0, "Override the configured maximum cycle count (0 = use config)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("riscv-hart %s\n", Version)
		os.Exit(0)
	}

	if *testDir == "" {
		fmt.Fprintln(os.Stderr, "Usage: riscv-hart -dir <test-binaries-directory>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *maxCycles > 0 {
		cfg.Execution.MaxCycles = *maxCycles
	}

	entries, err := collectBinaries(*testDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", *testDir, err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Found %d test binaries in %s\n", len(entries), *testDir)
	}

	var failed int
	for _, path := range entries {
		result := runTest(path, cfg)
		printResult(result, *verboseMode)
		if !result.Pass {
			failed++
		}
	}

	fmt.Printf("\n%d/%d tests passed\n", len(entries)-failed, len(entries))
	if failed > 0 {
		os.Exit(1)
	}
	os.Exit(0)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func collectBinaries(dir string) ([]string, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".dump") || strings.HasSuffix(path, ".s") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// testResult is the riscv-tests tohost protocol outcome for one binary:
// a7 must be the "exit" syscall (93); a0 = 0 is pass, non-zero a0 encodes
// a failing subtest index in a0>>1.
type testResult struct {
	Name  string
	Pass  bool
	A0    uint64
	Err   error
	Steps uint64
}

func runTest(path string, cfg *config.Config) testResult {
	name := filepath.Base(path)

	b := bus.New()
	if _, err := loader.LoadFile(b, path, cfg.Execution.ResetPC); err != nil {
		return testResult{Name: name, Err: err}
	}

	ext := csr.Extensions{
		Supervisor: cfg.Extensions.Supervisor,
		User:       cfg.Extensions.User,
		Compressed: cfg.Extensions.Compressed,
		Multiply:   cfg.Extensions.Multiply,
	}
	h := hart.New(0, b, ext)
	h.PC = cfg.Execution.ResetPC

	var steps uint64
	for steps = 0; steps < cfg.Execution.MaxCycles; steps++ {
		more, err := h.Step()
		if err != nil {
			return testResult{Name: name, Err: err, Steps: steps}
		}
		if !more {
			break
		}
	}

	a7 := h.GPR.Read(17)
	a0 := h.GPR.Read(10)
	pass := a7 == syscallExit && a0 == 0
	return testResult{Name: name, Pass: pass, A0: a0, Steps: steps}
}

func printResult(r testResult, verbose bool) {
	switch {
	case r.Err != nil:
		fmt.Printf("Test FATAL: %s: %v\n", r.Name, r.Err)
	case r.Pass:
		if verbose {
			fmt.Printf("Test PASSED: %s (%d steps)\n", r.Name, r.Steps)
		}
	default:
		fmt.Printf("Test FAILED: %s: %d\n", r.Name, r.A0>>1)
	}
}

// Command writhe reads a PDB file and prints the writhe of the alpha-carbon
// trace of each of its chains.
//
// Usage:
//
//	writhe [flags] structure.pdb[.gz]
//
// One line is printed per chain: the file, the chain identifier, the number
// of segments and the writhe total. With -linking, one line follows for each
// pair of chains. With -perturb N, N random residues of each chain are
// displaced by up to -magnitude Å along each axis and the perturbed total is
// printed as well.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
)

const (
	exitSuccess = 0
	exitFail    = 1
)

// logWhere decides where to send logged output: "" discards it, "stdout"
// writes to standard output, anything else is a file appended to.
func logWhere(outinfo string) (*log.Logger, error) {
	var iowriter io.Writer
	switch outinfo {
	case "":
		iowriter = io.Discard
	case "stdout":
		iowriter = os.Stdout
	default:
		f, err := os.OpenFile(outinfo, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		iowriter = f
	}
	return log.New(iowriter, "", log.Lshortfile), nil
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] structure.pdb[.gz]\n", os.Args[0])
	flag.PrintDefaults()
}

func mymain() int {
	cfg := defaultConfig()
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "JSON configuration file; flags override it")
	flag.StringVar(&cfg.Formulation, "formulation", cfg.Formulation, "pair kernel: dotcross, anglesum or batch")
	flag.StringVar(&cfg.Execution, "exec", cfg.Execution, "execution: serial, parallel or vectorized")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "goroutines for parallel execution, 0 for GOMAXPROCS")
	flag.IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "pairs per batch for vectorized execution")
	flag.BoolVar(&cfg.SkipAdjacent, "skip-adjacent", cfg.SkipAdjacent, "leave out pairs of consecutive segments")
	flag.StringVar(&cfg.Normalize, "normalize", cfg.Normalize, "scaling of totals: none or gauss")
	flag.BoolVar(&cfg.NearZero, "near-zero", cfg.NearZero, "treat lengths below 1e-16 as degenerate")
	flag.BoolVar(&cfg.Linking, "linking", cfg.Linking, "also print the total of every pair of chains")
	flag.StringVar(&cfg.Dump, "dump", cfg.Dump, "write the segments of every chain to this file")
	flag.IntVar(&cfg.Perturb, "perturb", cfg.Perturb, "number of residues per chain to displace at random")
	flag.Float64Var(&cfg.Magnitude, "magnitude", cfg.Magnitude, "largest displacement along each axis")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for -perturb")
	flag.StringVar(&cfg.Log, "log", cfg.Log, `log destination: "" (none), stdout or a file`)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		return exitFail
	}

	if cfgPath != "" {
		fileCfg, err := loadConfig(cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitFail
		}
		cfg = overrideSet(fileCfg, cfg)
	}

	logger, err := logWhere(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err, "creating log file")
		return exitFail
	}
	if err := run(cfg, flag.Arg(0), os.Stdout, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFail
	}
	return exitSuccess
}

// overrideSet returns base with the fields of the flags given on the command
// line taken from flags.
func overrideSet(base, flags config) config {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "formulation":
			base.Formulation = flags.Formulation
		case "exec":
			base.Execution = flags.Execution
		case "workers":
			base.Workers = flags.Workers
		case "batch":
			base.BatchSize = flags.BatchSize
		case "skip-adjacent":
			base.SkipAdjacent = flags.SkipAdjacent
		case "normalize":
			base.Normalize = flags.Normalize
		case "near-zero":
			base.NearZero = flags.NearZero
		case "linking":
			base.Linking = flags.Linking
		case "dump":
			base.Dump = flags.Dump
		case "perturb":
			base.Perturb = flags.Perturb
		case "magnitude":
			base.Magnitude = flags.Magnitude
		case "seed":
			base.Seed = flags.Seed
		case "log":
			base.Log = flags.Log
		}
	})
	return base
}

func main() {
	os.Exit(mymain())
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"tacalc/internal/vm"
)

// runCmd implements `tacalc run`.
type runCmd struct {
	dialect string
	bars    int
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Compile and execute a script against sample bars" }
func (*runCmd) Usage() string {
	return `run -dialect {p,e,h} [-bars N] <source-file>:
  Compile a script and execute it against an embedded sample OHLCV series,
  printing the plotted output series as CSV.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.dialect, "dialect", "h", "source dialect: p (Pine), e (EasyLanguage), h (Hithink/TDX)")
	f.IntVar(&r.bars, "bars", 0, "number of bars to execute (default: all sample bars)")
}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		logrus.Error("source file not provided")
		return subcommands.ExitUsageError
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		logrus.WithError(err).Error("failed to read file")
		return subcommands.ExitFailure
	}

	bc, err := compileDialect(r.dialect, string(src))
	if err != nil {
		logrus.WithField("dialect", r.dialect).Error(err)
		return subcommands.ExitFailure
	}

	data, totalBars := sampleDataset()
	if r.bars > 0 && r.bars < totalBars {
		totalBars = r.bars
	}

	m := vm.New(bc, data, logrus.StandardLogger())
	m.Debug = *verbose
	if err := m.Execute(totalBars); err != nil {
		logrus.Error(err)
		return subcommands.ExitFailure
	}

	fmt.Print(m.PlottedResultsCSV(4))
	return subcommands.ExitSuccess
}

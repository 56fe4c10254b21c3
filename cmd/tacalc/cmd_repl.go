package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"tacalc/internal/bytecode"
	"tacalc/internal/vm"
)

// replCmd implements `tacalc repl`: a readline-backed loop that recompiles
// the whole accumulated buffer and reruns it from bar 0 after each line.
type replCmd struct {
	dialect string
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive session against sample bars" }
func (*replCmd) Usage() string {
	return `repl -dialect {p,e,h}:
  Compile and run one statement at a time against an embedded sample OHLCV
  series, printing the updated plotted CSV after each line.
`
}

func (r *replCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.dialect, "dialect", "h", "source dialect: p (Pine), e (EasyLanguage), h (Hithink/TDX)")
}

func (r *replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Println("tacalc REPL — type 'exit' to quit")

	rl, err := readline.New(">>> ")
	if err != nil {
		logrus.WithError(err).Error("failed to start readline")
		return subcommands.ExitFailure
	}
	defer rl.Close()

	data, totalBars := sampleDataset()
	var src strings.Builder
	m := vm.New(bytecode.New(), data, logrus.StandardLogger())
	m.Debug = *verbose

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return subcommands.ExitSuccess
		}
		if err != nil {
			logrus.WithError(err).Error("readline error")
			return subcommands.ExitFailure
		}
		line = strings.TrimSpace(line)
		if line == "exit" {
			return subcommands.ExitSuccess
		}
		if line == "" {
			continue
		}

		src.WriteString(line)
		src.WriteString("\n")

		bc, err := compileDialect(r.dialect, src.String())
		if err != nil {
			logrus.WithField("dialect", r.dialect).Error(err)
			continue
		}

		m.Reload(bc)

		if err := m.Execute(totalBars); err != nil {
			logrus.Error(err)
			continue
		}
		fmt.Print(m.PlottedResultsCSV(4))
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"tacalc/internal/bytecode"
)

// compileCmd implements `tacalc compile`.
type compileCmd struct {
	dialect string
	out     string
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile a script to textual bytecode" }
func (*compileCmd) Usage() string {
	return `compile -dialect {p,e,h} [-o file] <source-file>:
  Compile a Pine/EasyLanguage/Hithink script to the textual bytecode format.
`
}

func (c *compileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dialect, "dialect", "h", "source dialect: p (Pine), e (EasyLanguage), h (Hithink/TDX)")
	f.StringVar(&c.out, "o", "", "output file (default: stdout)")
}

func (c *compileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		logrus.Error("source file not provided")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		logrus.WithError(err).Error("failed to read file")
		return subcommands.ExitFailure
	}

	bc, err := compileDialect(c.dialect, string(data))
	if err != nil {
		logrus.WithField("dialect", c.dialect).Error(err)
		return subcommands.ExitFailure
	}

	text := bytecode.Write(bc)
	if c.out == "" {
		fmt.Print(text)
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(c.out, []byte(text), 0o644); err != nil {
		logrus.WithError(err).Error("failed to write output")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

package main

import (
	"fmt"

	"tacalc/internal/bytecode"
	elcompiler "tacalc/internal/compiler/el"
	pinecompiler "tacalc/internal/compiler/pine"
	tdxcompiler "tacalc/internal/compiler/tdx"
	ellexer "tacalc/internal/lexer/el"
	pinelexer "tacalc/internal/lexer/pine"
	tdxlexer "tacalc/internal/lexer/tdx"
	elparser "tacalc/internal/parser/el"
	pineparser "tacalc/internal/parser/pine"
	tdxparser "tacalc/internal/parser/tdx"
)

// compileDialect lexes, parses and compiles src under the named dialect
// ("p" Pine, "e" EasyLanguage, "h" Hithink/TDX). It is the one place all
// three frontends converge into a single Bytecode, matching the system's
// "multi-frontend compiler" shape.
func compileDialect(dialect, src string) (*bytecode.Bytecode, error) {
	switch dialect {
	case "p":
		l := pinelexer.New(src)
		p := pineparser.New(l)
		stmts := p.Parse()
		if errs := p.Errors(); len(errs) > 0 {
			return nil, fmt.Errorf("parse errors: %v", errs)
		}
		bc, errs := pinecompiler.New().Compile(stmts)
		if len(errs) > 0 {
			return nil, fmt.Errorf("compile errors: %v", errs)
		}
		return bc, nil
	case "e":
		l := ellexer.New(src)
		p := elparser.New(l)
		stmts := p.Parse()
		if errs := p.Errors(); len(errs) > 0 {
			return nil, fmt.Errorf("parse errors: %v", errs)
		}
		bc, errs := elcompiler.New().Compile(stmts)
		if len(errs) > 0 {
			return nil, fmt.Errorf("compile errors: %v", errs)
		}
		return bc, nil
	case "h":
		l := tdxlexer.New(src)
		p := tdxparser.New(l)
		stmts := p.Parse()
		if errs := p.Errors(); len(errs) > 0 {
			return nil, fmt.Errorf("parse errors: %v", errs)
		}
		bc, errs := tdxcompiler.New().Compile(stmts)
		if len(errs) > 0 {
			return nil, fmt.Errorf("compile errors: %v", errs)
		}
		return bc, nil
	default:
		return nil, fmt.Errorf("unknown dialect %q (want p, e or h)", dialect)
	}
}

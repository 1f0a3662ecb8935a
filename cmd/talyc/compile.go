package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Taly-projects/taly-lang/pkgs/ast"
	"github.com/Taly-projects/taly-lang/pkgs/checker"
	"github.com/Taly-projects/taly-lang/pkgs/codegen"
	"github.com/Taly-projects/taly-lang/pkgs/config"
	cerrors "github.com/Taly-projects/taly-lang/pkgs/errors"
	"github.com/Taly-projects/taly-lang/pkgs/ir"
	"github.com/Taly-projects/taly-lang/pkgs/lexer"
	"github.com/Taly-projects/taly-lang/pkgs/parser"
	"github.com/Taly-projects/taly-lang/pkgs/scope"
)

type compileOptions struct {
	InputPath string
	OutDir    string
	Debug     bool
}

// runOnce runs the full pipeline once and returns the process exit code
// the CLI contract assigns to whatever happened.
func runOnce(opts compileOptions) int {
	err := compile(opts)
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintln(os.Stderr, err)
	if de, ok := err.(*cerrors.DevCmdError); ok {
		switch de.Type {
		case cerrors.ErrInputRead, cerrors.ErrFileNotFound, cerrors.ErrBuildFailed:
			return ExitIOFailure
		case lexPhase:
			return ExitLexError
		case parsePhase:
			return ExitParseError
		default:
			return ExitSemanticErr
		}
	}
	return ExitSemanticErr
}

// Phase markers reused as DevCmdError.Type values for lexer/parser
// failures, which pkgs/errors has no dedicated constant for (its error
// taxonomy was written for a command runner, not a compiler frontend).
const (
	lexPhase   = "LEX_ERROR"
	parsePhase = "PARSE_ERROR"
)

func compile(opts compileOptions) error {
	raw, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return cerrors.NewInputError(fmt.Sprintf("reading %s", opts.InputPath), err)
	}
	input := string(raw)

	cfg, err := config.Load(configPathFor(opts.InputPath))
	if err != nil {
		return cerrors.Wrap(cerrors.ErrInputRead, "loading talyc.config.yaml", err)
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = cfg.Out
	}

	toks, err := lexer.Tokenize(input)
	if err != nil {
		return cerrors.Wrap(lexPhase, "lexing "+opts.InputPath, err)
	}
	if opts.Debug {
		fmt.Fprintf(os.Stderr, "-- tokens --\n%v\n", toks)
	}

	nodes, err := parser.Parse(input, toks)
	if err != nil {
		return cerrors.Wrap(parsePhase, "parsing "+opts.InputPath, err)
	}
	if opts.Debug {
		fmt.Fprintf(os.Stderr, "-- ast --\n%#v\n", nodes)
	}

	root, err := symbolize(input, nodes)
	if err != nil {
		return err
	}

	out, err := generateIR(input, root, nodes)
	if err != nil {
		return err
	}
	if opts.Debug {
		fmt.Fprintf(os.Stderr, "-- scope --\n%#v\n", root)
	}

	checked, err := check(input, root, out.Body)
	if err != nil {
		return err
	}

	proj, err := codegen.Compile(ir.Output{Includes: out.Includes, Body: checked})
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeGeneration, "generating C output", err)
	}

	return writeProject(outDir, proj)
}

func symbolize(input string, nodes []ast.Node) (*scope.Node, error) {
	sym := scope.New(input)
	root, err := sym.Symbolize(nodes)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeGeneration, "symbolizing "+input, err)
	}
	return root, nil
}

func generateIR(input string, root *scope.Node, nodes []ast.Node) (*ir.Output, error) {
	gen := ir.New(input, root)
	out, err := gen.Generate(nodes)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeGeneration, "generating IR", err)
	}
	return out, nil
}

func check(input string, root *scope.Node, nodes []ast.Node) ([]ast.Node, error) {
	c := checker.New(input, root)
	checked, err := c.Check(nodes)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeGeneration, "checking module", err)
	}
	return checked, nil
}

func writeProject(outDir string, proj *codegen.Project) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return cerrors.NewBuildError("creating output directory", err)
	}
	for _, f := range proj.Files {
		hPath := filepath.Join(outDir, f.Name+".h")
		if err := os.WriteFile(hPath, []byte(f.Header), 0o644); err != nil {
			return cerrors.NewBuildError("writing "+hPath, err)
		}
		if f.Src != "" {
			cPath := filepath.Join(outDir, f.Name+".c")
			if err := os.WriteFile(cPath, []byte(f.Src), 0o644); err != nil {
				return cerrors.NewBuildError("writing "+cPath, err)
			}
		}
	}
	return nil
}

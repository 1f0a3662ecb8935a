// Command talyc compiles a single `.taly` source file into a C header
// and source file pair. See the `compile` function in compile.go for the
// pipeline itself; this file only wires up the cobra CLI and process lifecycle,
// grounded in the teacher's cli/main.go (cancellable context on
// SIGINT/SIGTERM, cobra root command with SilenceErrors) trimmed down to
// the scale a single-file transpiler CLI needs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
)

// Exit codes per the CLI contract: 0 success, 1 I/O failure, 2 lexical
// error, 3 parse error, 4 any semantic error (IR/symbolizer/checker).
const (
	ExitSuccess     = 0
	ExitIOFailure   = 1
	ExitLexError    = 2
	ExitParseError  = 3
	ExitSemanticErr = 4
)

func main() {
	var (
		outDir string
		debug  bool
		watch  bool
	)

	rootCmd := &cobra.Command{
		Use:           "talyc [input-path]",
		Short:         "Compile a talyc source module into a C header/source pair",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "res/main.taly"
			if len(args) == 1 {
				input = args[0]
			}

			ctx, cancel := newCancellableContext()
			defer cancel()

			opts := compileOptions{InputPath: input, OutDir: outDir, Debug: debug}
			if !cmd.Flags().Changed("out") {
				opts.OutDir = "" // let talyc.config.yaml's `out` win if set
			}

			if !watch {
				code := runOnce(opts)
				if code != ExitSuccess {
					os.Exit(code)
				}
				return nil
			}

			os.Exit(runWatch(ctx, opts))
			return nil
		},
	}

	rootCmd.Flags().StringVar(&outDir, "out", "./out", "output directory for the generated .h/.c pair")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "print token/AST/scope dumps to stderr")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "recompile whenever the input file changes")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitIOFailure)
	}
}

// newCancellableContext cancels on SIGINT/SIGTERM so a long --watch
// session exits cleanly on Ctrl+C.
func newCancellableContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx, cancel
}

// configPathFor returns the talyc.config.yaml expected to sit alongside
// the input module.
func configPathFor(inputPath string) string {
	return filepath.Join(filepath.Dir(inputPath), "talyc.config.yaml")
}

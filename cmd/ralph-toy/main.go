package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/raymyers/ralph-toy/pkg/ast"
	"github.com/raymyers/ralph-toy/pkg/config"
	"github.com/raymyers/ralph-toy/pkg/lexer"
	"github.com/raymyers/ralph-toy/pkg/parser"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version = "0.1.0"

// defaultPrompt is shown in interactive mode unless a config file or
// --prompt says otherwise
const defaultPrompt = "ready> "

// stdinName names standard input in diagnostics
const stdinName = "<stdin>"

var (
	dParse      bool
	interactive bool
	verbose     bool
	prompt      string
	configPath  string
	opFlags     map[string]int
)

// ErrSyntax indicates that the input had at least one syntax error
var ErrSyntax = errors.New("syntax errors")

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// Accept the single-dash -dparse spelling as well
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// debugFlagNames lists flags that also accept a single dash
var debugFlagNames = []string{"dparse"}

// normalizeFlags converts single-dash debug flags like -dparse to --dparse
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		for _, flagName := range debugFlagNames {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
		if result[i] == "" {
			result[i] = arg
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ralph-toy [file]",
		Short: "ralph-toy parses a minimal expression language",
		Long: `ralph-toy is the front end of a minimal expression language with
def, extern and user-extensible binary operators. It reads a file, or
standard input when no file (or "-") is given, and reports each parsed
definition, extern and top-level expression.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd.Flags())
			if err != nil {
				fmt.Fprintf(errOut, "ralph-toy: %v\n", err)
				return err
			}

			prec := parser.DefaultPrecedence()
			if err := cfg.Apply(prec); err != nil {
				fmt.Fprintf(errOut, "ralph-toy: %v\n", err)
				return err
			}
			if verbose {
				fmt.Fprintf(errOut, "ralph-toy: binary operators: %s\n", describeOperators(prec))
			}

			if len(args) == 0 || args[0] == "-" {
				return doParse(cmd.InOrStdin(), stdinName, prec, cfg.Prompt, out, errOut)
			}

			filename := args[0]
			f, err := os.Open(filename)
			if err != nil {
				fmt.Fprintf(errOut, "ralph-toy: error reading %s: %v\n", filename, err)
				return err
			}
			defer f.Close()
			return doParse(f, filename, prec, cfg.Prompt, out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	addFlags(rootCmd.Flags())

	return rootCmd
}

func addFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&dParse, "dparse", "", false, "Dump the AST after parsing")
	fs.BoolVarP(&interactive, "interactive", "i", false, "Show a prompt before each top-level item")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Report each parsed item")
	fs.StringVar(&prompt, "prompt", defaultPrompt, "Prompt text for interactive mode")
	fs.StringVar(&configPath, "config", "", "Load prompt and operator precedence from a YAML file")
	fs.StringToIntVar(&opFlags, "op", nil, "Define a binary operator as OP=PRECEDENCE (repeatable)")
}

// describeOperators lists the active operators as OP=PRECEDENCE
func describeOperators(prec *parser.Precedence) string {
	ops := prec.Operators()
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = fmt.Sprintf("%c=%d", op, prec.Lookup(op))
	}
	return strings.Join(parts, " ")
}

// buildConfig merges the config file and command line flags; flags win.
// The returned prompt is empty unless interactive mode is on.
func buildConfig(fs *pflag.FlagSet) (*config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		fileCfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
	}

	flagCfg := &config.Config{Operators: opFlags}
	if fs.Changed("prompt") {
		flagCfg.Prompt = prompt
	}
	cfg.Merge(flagCfg)

	switch {
	case !interactive:
		cfg.Prompt = ""
	case cfg.Prompt == "":
		cfg.Prompt = defaultPrompt
	}
	return cfg, nil
}

// reporter receives parsed items from the driver
type reporter struct {
	errOut  io.Writer
	printer *ast.Printer // nil unless dumping the AST
	verbose bool
	count   int
}

func (r *reporter) HandleDefinition(fn ast.Function) {
	r.handle(fn, "Parsed a function definition.")
}

func (r *reporter) HandleExtern(proto ast.Prototype) {
	r.handle(proto, "Parsed an extern.")
}

func (r *reporter) HandleTopLevelExpr(fn ast.Function) {
	r.handle(fn, "Parsed a top-level expression.")
}

func (r *reporter) handle(def ast.Definition, msg string) {
	r.count++
	if r.verbose {
		fmt.Fprintln(r.errOut, msg)
	}
	if r.printer != nil {
		r.printer.PrintDefinition(def)
	}
}

// doParse runs the driver over in. With --dparse the AST goes to out and,
// for named files, to a .parsed.toy file next to the input.
func doParse(in io.Reader, source string, prec *parser.Precedence, promptText string, out, errOut io.Writer) error {
	r := &reporter{errOut: errOut, verbose: verbose}

	if dParse {
		w := out
		if source != stdinName {
			outputFilename := parsedOutputFilename(source)
			outFile, err := os.Create(outputFilename)
			if err != nil {
				fmt.Fprintf(errOut, "ralph-toy: error creating %s: %v\n", outputFilename, err)
				return err
			}
			defer outFile.Close()
			w = io.MultiWriter(outFile, out)
		}
		r.printer = ast.NewPrinter(w)
	}

	// The lexer reads ahead as soon as it exists, so prompt first.
	if promptText != "" {
		fmt.Fprint(errOut, promptText)
	}
	l := lexer.New(in)
	p := parser.New(l, prec)
	d := parser.NewDriver(p, r, errOut)
	d.SetSource(source)
	d.SetPrompt(promptText)

	if err := d.Run(); err != nil {
		fmt.Fprintf(errOut, "ralph-toy: error reading %s: %v\n", source, errors.Cause(err))
		return err
	}

	if n := len(d.Errors()); n > 0 && promptText == "" {
		fmt.Fprintf(errOut, "ralph-toy: parsing failed with %d errors\n", n)
		return errors.Wrapf(ErrSyntax, "%d errors", n)
	}
	if !verbose && !dParse && promptText == "" {
		fmt.Fprintf(errOut, "ralph-toy: parsed %d items from %s\n", r.count, source)
	}
	return nil
}

// parsedOutputFilename returns the output filename for -dparse
// input.toy -> input.parsed.toy
func parsedOutputFilename(filename string) string {
	ext := ".toy"
	if strings.HasSuffix(filename, ext) {
		return filename[:len(filename)-len(ext)] + ".parsed.toy"
	}
	return filename + ".parsed.toy"
}

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/kr/pretty"
	"github.com/urfave/cli"

	"github.com/agenthands/imp/pkg/compiler/ast"
	"github.com/agenthands/imp/pkg/compiler/emitter"
	"github.com/agenthands/imp/pkg/compiler/lexer"
	"github.com/agenthands/imp/pkg/compiler/parser"
	"github.com/agenthands/imp/pkg/vm"
)

var noColor bool
var debugShowAST bool
var debugShowDisassembly bool
var stackLimit int

func fail(err error) error {
	color.NoColor = noColor
	redBold := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(os.Stderr, "%s %v\n", redBold("error:"), err)
	return cli.NewExitError("", 1)
}

func parseFile(path string) (*ast.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s := lexer.NewScanner(src)
	p := parser.NewParser(s, src)
	return p.Parse()
}

func main() {
	app := cli.NewApp()
	app.Name = "imp"
	app.Usage = "a minimal imperative scripting language"

	noColorFlag := cli.BoolFlag{
		Name:        "no-color",
		Usage:       "hide colors in error messages",
		Destination: &noColor,
	}

	debugAstFlag := cli.BoolFlag{
		Name:        "debug-ast",
		Usage:       "show the abstract syntax tree before executing",
		Destination: &debugShowAST,
	}

	debugDisFlag := cli.BoolFlag{
		Name:        "debug-disassembly",
		Usage:       "show the disassembled bytecode before executing",
		Destination: &debugShowDisassembly,
	}

	stackLimitFlag := cli.IntFlag{
		Name:        "stack-limit",
		Usage:       "operand stack capacity for the virtual machine",
		Value:       1024,
		Destination: &stackLimit,
	}

	app.Commands = []cli.Command{
		{
			Name:    "run",
			Aliases: []string{"r"},
			Usage:   "Compile and execute a program",
			Flags: []cli.Flag{
				noColorFlag,
				debugAstFlag,
				debugDisFlag,
				stackLimitFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return fail(fmt.Errorf("usage: imp run <file>"))
				}

				prog, err := parseFile(c.Args().First())
				if err != nil {
					return fail(err)
				}

				if debugShowAST {
					pretty.Println(prog)
				}

				e := emitter.NewEmitter()
				code := e.Emit(prog)

				if debugShowDisassembly {
					if err := vm.Disassemble(code, os.Stdout); err != nil {
						return fail(err)
					}
				}

				m := vm.NewMachine(code, stackLimit)
				if err := m.Run(); err != nil {
					return fail(err)
				}
				return nil
			},
		},
		{
			Name:    "check",
			Aliases: []string{"c"},
			Usage:   "Check a program's syntax without executing",
			Flags: []cli.Flag{
				noColorFlag,
				debugAstFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return fail(fmt.Errorf("usage: imp check <file>"))
				}

				prog, err := parseFile(c.Args().First())
				if err != nil {
					return fail(err)
				}

				if debugShowAST {
					pretty.Println(prog)
				}
				return nil
			},
		},
		{
			Name:    "disasm",
			Aliases: []string{"d"},
			Usage:   "Compile a program and print its bytecode listing",
			Flags: []cli.Flag{
				noColorFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return fail(fmt.Errorf("usage: imp disasm <file>"))
				}

				prog, err := parseFile(c.Args().First())
				if err != nil {
					return fail(err)
				}

				e := emitter.NewEmitter()
				code := e.Emit(prog)
				if err := vm.Disassemble(code, os.Stdout); err != nil {
					return fail(err)
				}
				return nil
			},
		},
	}

	app.Run(os.Args)
}

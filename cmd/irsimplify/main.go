// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"irsimplify/internal/diag"
	"irsimplify/internal/ir"
	"irsimplify/internal/irtext"
)

func main() {
	dump := flag.Bool("dump", false, "print the IR before and after simplification")
	warn := flag.Bool("warn", false, "report declined folds to stderr")
	repeatTrace := flag.Bool("repeat-trace", false, "print the sweep count the fixed-point driver took")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: irsimplify [-dump] [-warn] [-repeat-trace] <file.ir>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	prog, err := irtext.ParseFile(path)
	if err != nil {
		os.Exit(1)
	}

	var sink diag.Sink = diag.Discard
	if *warn {
		sink = diag.NewStderrColorSink()
	}

	for _, fn := range prog.Functions {
		if *dump {
			fmt.Printf("; before\n%s", ir.Print(fn))
		}
		sweeps := ir.Run(fn, sink)
		if *repeatTrace {
			fmt.Fprintf(os.Stderr, "%s: converged after %d sweep(s)\n", fn.Name, sweeps)
		}
		if *dump {
			fmt.Printf("; after\n%s", ir.Print(fn))
		}
	}

	color.Green("processed %s", path)
}

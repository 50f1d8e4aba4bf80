// Command catac compiles a single Cata source file to LLVM IR (or, with
// -emit-obj, a native object file). Flag layout and the parse-errors ->
// print -> exit(1) driver shape follow the teacher's cmd/dingo/main.go.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cata-lang/catac/codegen"
	"github.com/cata-lang/catac/common"
	"github.com/cata-lang/catac/parser"
)

func main() {
	config := common.NewConfig()

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s: [options] file.cata\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.StringVar(&config.Output, "o", "", "Output path (default: stdout for IR, <input>.o for -emit-obj)")
	flag.BoolVar(&config.EmitObject, "emit-obj", false, "Emit a native object file instead of textual LLVM IR")
	flag.BoolVar(&config.Verbose, "verbose", false, "Print the number of top-level forms parsed")
	flag.BoolVar(&config.DumpIR, "dump-llvm-ir", false, "Dump the in-memory module via LLVM's own printer")
	flag.StringVar(&config.Triple, "target", "", "Target triple (default: host)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "error: expected exactly one input file")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), config); err != nil {
		fmt.Fprintln(os.Stderr, common.BoldRed(err.Error()))
		os.Exit(1)
	}
}

func run(path string, config *common.Config) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	forms, err := parser.Parse(src)
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(os.Stderr, "parsed %d top-level form(s) from %s\n", len(forms), path)
	}

	cg, err := codegen.New(config)
	if err != nil {
		return err
	}
	if err := cg.Compile(forms); err != nil {
		return err
	}

	if config.DumpIR {
		fmt.Fprintln(os.Stderr, cg.IR())
	}

	if config.EmitObject {
		obj, err := cg.EmitObject()
		if err != nil {
			return err
		}
		return writeOutput(config.Output, path, ".o", obj)
	}

	return writeOutput(config.Output, path, ".ll", []byte(cg.IR()))
}

func writeOutput(output, inputPath, defaultExt string, data []byte) error {
	if output == "" {
		if defaultExt == ".o" {
			output = trimCataExt(inputPath) + defaultExt
		} else {
			fmt.Print(string(data))
			return nil
		}
	}
	return os.WriteFile(output, data, 0644)
}

func trimCataExt(path string) string {
	const ext = ".cata"
	if len(path) > len(ext) && path[len(path)-len(ext):] == ext {
		return path[:len(path)-len(ext)]
	}
	return path
}

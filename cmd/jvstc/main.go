// Command jvstc compiles a JSON Schema document to the textual IR format
// jvstgo's lowering stage produces, for inspection or for feeding an
// external streaming executor.
//
// Usage:
//
//	jvstc [flags] schema.json
//
// Flags:
//
//	-yaml       Parse the input as YAML instead of JSON
//	-lang       Locale to localize diagnostics in (default: "en")
//	-o          Output file (default: stdout)
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jvstgo/jvstgo"
)

// Command line flags, grounded on the teacher's cmd/schemagen/main.go
// (stdlib flag, a -help flag printing a usage block via PrintDefaults).
var (
	yamlInput = flag.Bool("yaml", false, "Parse the input as YAML instead of JSON")
	lang      = flag.String("lang", "en", "Locale to localize diagnostics in")
	outPath   = flag.String("o", "", "Output file (default: stdout)")
	help      = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help || flag.NArg() != 1 {
		showHelp()
		if *help {
			return
		}
		os.Exit(2)
	}

	schemaPath := flag.Arg(0)
	raw, err := os.ReadFile(schemaPath)
	if err != nil {
		log.Fatalf("reading %s: %v", schemaPath, err)
	}

	var result *jvstgo.Result
	if *yamlInput {
		result, err = jvstgo.CompileYAML(raw)
	} else {
		result, err = jvstgo.Compile(raw)
	}
	if err != nil {
		log.Fatalf("%s", localizeErr(err))
	}

	out := jvstgo.Dump(result.IR)

	if *outPath == "" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(*outPath, []byte(out), 0o644); err != nil {
		log.Fatalf("writing %s: %v", *outPath, err)
	}
}

// localizeErr renders a CompileError in the requested locale, falling
// back to err.Error() for anything that isn't one (or if the locale
// bundle fails to load).
func localizeErr(err error) string {
	ce, ok := err.(*jvstgo.CompileError)
	if !ok {
		return err.Error()
	}
	bundle, bErr := jvstgo.GetI18n()
	if bErr != nil {
		return ce.Error()
	}
	return ce.Localize(bundle.NewLocalizer(*lang))
}

func showHelp() {
	fmt.Println(`jvstc - JSON Schema to IR compiler

Compiles a JSON Schema document through the AST -> Cnode -> DFA -> IR
pipeline and prints the resulting program in the textual IR format.

USAGE:
    jvstc [flags] schema.json

FLAGS:`)
	flag.PrintDefaults()
	fmt.Println(`
EXAMPLES:
    jvstc schema.json
    jvstc -yaml schema.yaml
    jvstc -o schema.ir schema.json`)
}

package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/kinari9/urubu/driver"
	uerr "github.com/kinari9/urubu/error"
	"github.com/kinari9/urubu/spec"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source        *string
	onlyParse     *bool
	errorSyncSize *int
	debug         *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <grammar file path>",
		Short:   "Parse a text stream",
		Example: `  cat src | urubu parse grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.onlyParse = cmd.Flags().Bool("only-parse", false, "when this option is enabled, the parser performs only parse and doesn't build a tree")
	parseFlags.errorSyncSize = cmd.Flags().Int("error-sync-size", 0, "number of symbols past an error that must parse cleanly for a recovery to count (default 3)")
	parseFlags.debug = cmd.Flags().Bool("debug", false, "when this option is enabled, the parser prints shift/reduce traces to stderr")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}

	src := os.Stdin
	srcName := "stdin"
	srcPath := ""
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
		srcName = *parseFlags.source
		srcPath = *parseFlags.source
	}

	toks, err := driver.NewTokenStream(cgram, src)
	if err != nil {
		return err
	}

	gram := driver.NewGrammar(cgram)

	var exec driver.ActionExecutor
	var treeAct *driver.SyntaxTreeActionSet
	if *parseFlags.onlyParse {
		exec = driver.NewNopActionSet()
	} else {
		treeAct = driver.NewSyntaxTreeActionSet(gram)
		exec = treeAct
	}

	var opts []driver.ParserOption
	if *parseFlags.errorSyncSize > 0 {
		opts = append(opts, driver.ErrorSyncSize(*parseFlags.errorSyncSize))
	}
	if *parseFlags.debug {
		opts = append(opts, driver.DebugWriter(os.Stderr))
	}
	opts = append(opts, driver.ErrorWriter(ioutil.Discard))

	p, err := driver.NewParser(gram, toks, exec, opts...)
	if err != nil {
		return err
	}

	result, err := p.Parse()

	for _, synErr := range p.SyntaxErrors() {
		cause := fmt.Errorf("unexpected token; expected: %v", expectedList(synErr))
		fmt.Fprintf(os.Stderr, "%v\n", &uerr.SourceError{
			Cause:      cause,
			FilePath:   srcPath,
			SourceName: srcName,
			Row:        synErr.Row + 1,
			Col:        synErr.Col + 1,
		})
	}

	if err != nil {
		return err
	}

	if treeAct != nil {
		driver.PrintTree(os.Stdout, treeAct.Tree(result))
	}

	return nil
}

func expectedList(synErr *driver.SyntaxError) string {
	if len(synErr.ExpectedTerminals) == 0 {
		return "<nothing>"
	}
	s := synErr.ExpectedTerminals[0]
	for _, t := range synErr.ExpectedTerminals[1:] {
		s += ", " + t
	}
	return s
}

func readCompiledGrammar(path string) (*spec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cgram := &spec.CompiledGrammar{}
	err = json.Unmarshal(data, cgram)
	if err != nil {
		return nil, err
	}
	return cgram, nil
}

// supplements prints the supplementary files of each FILE argument, one per
// line, using the override scripts found at the given project roots.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"github.com/stackb/supplements/pkg/registry"
	"github.com/stackb/supplements/pkg/supplement"
)

// repeatedFlag collects every occurrence of a flag.
type repeatedFlag []string

func (f *repeatedFlag) String() string {
	return strings.Join(*f, ",")
}

// Set implements the flag.Value interface.
func (f *repeatedFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func main() {
	log.SetPrefix("supplements: ")
	log.SetFlags(0) // don't print timestamps

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var (
		configFile string
		roots      repeatedFlag
		extensions repeatedFlag
		maxSteps   uint64
		dump       bool
		verbose    bool
	)

	fs := flag.NewFlagSet("supplements", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configFile, "config", "", "optional YAML config file with roots and file_types")
	fs.Var(&roots, "root", "a project root (repeatable); defaults to the config roots, else the working directory")
	fs.Var(&extensions, "ext", "an extension of the file type (repeatable); defaults to the matching config file_types")
	fs.Uint64Var(&maxSteps, "max_steps", 0, "maximum starlark execution steps per override script call (0 is unlimited)")
	fs.BoolVar(&dump, "dump", false, "dump the resolver table to stderr")
	fs.BoolVar(&verbose, "v", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) == 0 {
		return errors.New("positional args should be a non-empty list of files")
	}

	config := &Config{}
	if configFile != "" {
		var err error
		if config, err = ReadConfig(configFile); err != nil {
			return err
		}
	}
	if maxSteps == 0 {
		maxSteps = config.MaxSteps
	}
	if len(roots) == 0 {
		roots = config.Roots
	}
	if len(roots) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		roots = repeatedFlag{cwd}
	}
	for i, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return err
		}
		roots[i] = abs
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Level(level).With().Timestamp().Logger()

	r := registry.New(
		registry.WithLogger(logger),
		registry.WithMaxExecutionSteps(maxSteps),
		registry.WithReporter(func(c *supplement.Condition) {
			fmt.Fprintf(stderr, "warning: %v\n", c)
		}),
	)
	table := r.OnRootsChanged(roots)

	if dump {
		for _, e := range table.Entries() {
			spew.Fdump(stderr, e)
		}
	}

	var failed int
	for _, arg := range fs.Args() {
		filename, err := filepath.Abs(arg)
		if err != nil {
			return err
		}
		exts := []string(extensions)
		if len(exts) == 0 {
			exts = config.ExtensionsFor(filename)
		}
		files, err := r.GetSupplementsFor(filename, exts)
		if err != nil {
			// already reported
			failed++
			continue
		}
		for _, file := range files {
			fmt.Fprintln(stdout, file)
		}
	}

	if failed == len(fs.Args()) {
		return fmt.Errorf("no supplements resolved for %d file(s)", failed)
	}
	return nil
}

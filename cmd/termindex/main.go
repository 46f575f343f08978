// Package main implements the termindex CLI: it expands a FHIR value set
// from a terminology server and installs the approximate-matching indexes
// into a destination directory.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/gofhir/termindex"
	"github.com/gofhir/termindex/lang"
	"github.com/gofhir/termindex/store"
)

const usage = `termindex - build term indexes from a FHIR ValueSet expansion

Usage:
  termindex [options] <valueset-url> <destination-path>

Examples:
  termindex http://snomed.info/sct?fhir_vs ./indexes
  termindex -lowercase -normalize-unicode http://snomed.info/sct?fhir_vs ./indexes
  termindex -fhir-server https://tx.example.org/fhir -language GER http://example.org/vs ./indexes

The destination directory receives the similarity index, the term store and
the run configuration files. A failed run leaves a partial destination
behind; delete it before retrying.

Options:
`

// config holds the parsed CLI flags.
type config struct {
	ServerURL        string
	Language         string
	SemanticType     string
	Backend          string
	Lowercase        bool
	NormalizeUnicode bool
	PageSize         int
	Yes              bool
	Verbose          bool
	ShowVersion      bool

	ValueSetURL string
	Destination string
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{}

	fs := flag.NewFlagSet("termindex", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.ServerURL, "fhir-server", "", "FHIR terminology server to retrieve data from (default: the public Ontoserver)")
	fs.StringVar(&cfg.Language, "language", lang.DefaultCode, "3-letter language code of the concepts to extract")
	fs.StringVar(&cfg.SemanticType, "semantic-type", "UNKNOWN", "semantic type to use when none can be determined")
	fs.StringVar(&cfg.Backend, "database-backend", string(store.DefaultBackend), "key-value backend for the term store (leveldb or bolt)")
	fs.BoolVar(&cfg.Lowercase, "lowercase", false, "consider only lowercase versions of terms")
	fs.BoolVar(&cfg.NormalizeUnicode, "normalize-unicode", false, "normalize unicode terms to their closest ASCII representation")
	fs.IntVar(&cfg.PageSize, "page-size", 100, "number of concepts requested per expansion page")
	fs.BoolVar(&cfg.Yes, "yes", false, "answer yes to destination directory prompts")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.ShowVersion {
		return cfg, nil
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return nil, fmt.Errorf("expected <valueset-url> and <destination-path> arguments")
	}
	cfg.ValueSetURL = fs.Arg(0)
	cfg.Destination = fs.Arg(1)

	if !lang.Known(cfg.Language) {
		return nil, fmt.Errorf("unknown language code %q (known: %s)", cfg.Language, strings.Join(lang.Codes(), ", "))
	}
	return cfg, nil
}

// confirm asks a y/N question on stdin; -yes answers everything.
func confirm(cfg *config, format string, args ...any) bool {
	if cfg.Yes {
		return true
	}
	fmt.Printf(format+" [y/N] ", args...)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(line)) == "y"
}

// prepareDestination makes sure the destination exists and is empty,
// prompting before creating or emptying it.
func prepareDestination(cfg *config) error {
	info, err := os.Stat(cfg.Destination)
	switch {
	case os.IsNotExist(err):
		if !confirm(cfg, "Directory %q does not exist; should I create it?", cfg.Destination) {
			return fmt.Errorf("aborted")
		}
		return os.MkdirAll(cfg.Destination, 0o755)
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%q is not a directory", cfg.Destination)
	}

	entries, err := os.ReadDir(cfg.Destination)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		if !confirm(cfg, "Directory %q is not empty; should I empty it?", cfg.Destination) {
			return fmt.Errorf("aborted")
		}
		if err := os.RemoveAll(cfg.Destination); err != nil {
			return err
		}
		return os.MkdirAll(cfg.Destination, 0o755)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}

func run(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}
	if cfg.ShowVersion {
		fmt.Printf("termindex %s\n", termindex.Version)
		return nil
	}

	backend, err := store.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}

	if err := prepareDestination(cfg); err != nil {
		return err
	}

	log, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	installer, err := termindex.New(
		termindex.WithServerURL(cfg.ServerURL),
		termindex.WithLanguage(cfg.Language),
		termindex.WithPageSize(cfg.PageSize),
		termindex.WithLowercase(cfg.Lowercase),
		termindex.WithNormalizeUnicode(cfg.NormalizeUnicode),
		termindex.WithBackend(backend),
		termindex.WithDefaultSemanticType(cfg.SemanticType),
		termindex.WithLogger(log),
	)
	if err != nil {
		return err
	}

	summary, err := installer.Install(context.Background(), cfg.ValueSetURL, cfg.Destination)
	if err != nil {
		fmt.Fprintf(os.Stderr, "installation failed; partial output in %q must be discarded\n", cfg.Destination)
		return err
	}

	fmt.Printf("COMPLETED: %d concepts, %d terms (%d distinct) in %.2fs\n",
		summary.Concepts, summary.Records, summary.DistinctTerms, summary.Elapsed.Seconds())
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

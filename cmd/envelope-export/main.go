package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/a3tai/mcp-envelope-editor/internal/config"
	"github.com/a3tai/mcp-envelope-editor/internal/documents"
	"github.com/a3tai/mcp-envelope-editor/internal/envelope"
	"github.com/a3tai/mcp-envelope-editor/internal/logging"
	"github.com/a3tai/mcp-envelope-editor/internal/payload"
	"github.com/a3tai/mcp-envelope-editor/internal/render"
)

type options struct {
	dir         string
	output      string
	engine      string
	logLevel    string
	maxFileSize int64
	embed       bool
	summary     bool
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, layoutPath, err := parseArgs(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeServer
	cfg.LogLevel = opts.logLevel
	log := logging.SetupWithOutput(cfg, stderr)

	counts, err := export(ctx, opts, layoutPath, stdin, stdout, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.summary {
		printSummary(stderr, counts)
	}
	return 0
}

func parseArgs(args []string, stderr io.Writer) (options, string, error) {
	var opts options
	fs := pflag.NewFlagSet("envelope-export", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.dir, "dir", "d", ".", "Directory the layout's document paths are relative to")
	fs.StringVarP(&opts.output, "output", "o", "-", "Output file (- for stdout)")
	fs.StringVar(&opts.engine, "engine", string(render.EngineAuto), "PDF engine: auto, pdfcpu or ledongthuc")
	fs.StringVar(&opts.logLevel, "loglevel", "warn", "Log level: debug, info, warn, error")
	fs.Int64Var(&opts.maxFileSize, "maxfilesize", config.DefaultMaxFileSize, "Maximum document size in bytes")
	fs.BoolVar(&opts.embed, "embed", false, "Embed document bytes as base64 instead of the placeholder")
	fs.BoolVar(&opts.summary, "summary", false, "Print tab counts to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: envelope-export [flags] <layout.yaml | ->\n\n")
		fmt.Fprintf(stderr, "Builds an envelope from a YAML layout and writes the envelope request JSON.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, "", err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return opts, "", fmt.Errorf("exactly one layout file is required")
	}
	return opts, fs.Arg(0), nil
}

func export(ctx context.Context, opts options, layoutPath string, stdin io.Reader, stdout io.Writer, log logrus.FieldLogger) (payload.Counts, error) {
	layout, err := readLayout(layoutPath, stdin)
	if err != nil {
		return payload.Counts{}, err
	}

	engine, err := render.ParseEngine(opts.engine)
	if err != nil {
		return payload.Counts{}, err
	}
	renderer, err := render.NewRenderer(engine, log)
	if err != nil {
		return payload.Counts{}, err
	}
	loader, err := documents.NewLoader(opts.dir, renderer, opts.maxFileSize, log)
	if err != nil {
		return payload.Counts{}, err
	}

	store, err := Build(ctx, layout, loader, log)
	if err != nil {
		return payload.Counts{}, err
	}

	env := payload.Generate(store.Snapshot())
	if opts.embed {
		embedDocuments(&env, store)
	}
	data, err := payload.Marshal(env)
	if err != nil {
		return payload.Counts{}, err
	}
	data = append(data, '\n')

	if opts.output == "-" {
		if _, err := stdout.Write(data); err != nil {
			return payload.Counts{}, fmt.Errorf("failed to write output: %w", err)
		}
	} else if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return payload.Counts{}, fmt.Errorf("failed to write output: %w", err)
	}

	log.WithField("output", opts.output).Info("envelope exported")
	return payload.Count(env), nil
}

func readLayout(path string, stdin io.Reader) (*Layout, error) {
	if path == "-" {
		return DecodeLayout(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout: %w", err)
	}
	defer f.Close()
	return DecodeLayout(f)
}

// embedDocuments swaps the content placeholder for the stored bytes. Wire
// document ids are 1-based positions in the snapshot.
func embedDocuments(env *payload.Envelope, store *envelope.Store) {
	docs := store.Documents()
	for i := range env.Documents {
		if i >= len(docs) {
			break
		}
		if data, ok := store.Binaries().Get(docs[i].ID); ok {
			env.Documents[i].DocumentBase64 = base64.StdEncoding.EncodeToString(data)
		}
	}
}

func printSummary(w io.Writer, c payload.Counts) {
	fmt.Fprintf(w, "Documents: %d\n", c.Documents)
	fmt.Fprintf(w, "Recipients: %d\n", c.Recipients)
	fmt.Fprintf(w, "Tabs: %d\n", c.Tabs)
	types := make([]string, 0, len(c.ByType))
	for t := range c.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "  %s: %d\n", t, c.ByType[t])
	}
}

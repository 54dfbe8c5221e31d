package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/a3tai/mcp-pdf-annot/internal/mcp"
	"github.com/a3tai/mcp-pdf-annot/internal/pdf"
	"github.com/spf13/pflag"
)

const maxFileSize = 500 * 1024 * 1024

type options struct {
	format     string
	page       int
	dir        string
	generate   bool
	write      string
	dirtyOnly  bool
	dump       bool
	printing   bool
	regenerate bool
	verbose    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	var opts options
	fs := pflag.NewFlagSet("pdf_annot_appearance", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.format, "format", "text", "Output format: text, json")
	fs.IntVar(&opts.page, "page", 0, "1-based page number, 0 for all pages")
	fs.StringVar(&opts.dir, "dir", "", "Directory that confines input and output (default: the file's directory)")
	fs.BoolVar(&opts.generate, "generate", false, "Synthesize form field appearances and report them")
	fs.StringVar(&opts.write, "write", "", "Store generated appearances and write the document to this file")
	fs.BoolVar(&opts.dirtyOnly, "dirty-only", false, "Only regenerate missing or stale appearances")
	fs.BoolVar(&opts.dump, "dump", false, "Print the appearance streams that would be drawn")
	fs.BoolVar(&opts.printing, "printing", false, "Use print visibility with --dump")
	fs.BoolVar(&opts.regenerate, "regenerate", false, "Regenerate field appearances before --dump")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "PDF Annot Appearance - inspect annotations and rebuild form field appearances\n\n")
		fmt.Fprintf(stderr, "USAGE:\n  pdf_annot_appearance [options] <pdf-file>\n\nOPTIONS:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(stderr, "  pdf_annot_appearance form.pdf                        # list annotations\n")
		fmt.Fprintf(stderr, "  pdf_annot_appearance --write filled.pdf form.pdf     # rebuild and save appearances\n")
		fmt.Fprintf(stderr, "  pdf_annot_appearance --dump --printing form.pdf      # show what prints\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if opts.format != "text" && opts.format != "json" {
		return nil, nil, fmt.Errorf("unknown format %q", opts.format)
	}
	if opts.dump && (opts.generate || opts.write != "") {
		return nil, nil, errors.New("--dump cannot be combined with --generate or --write")
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, nil, errors.New("PDF file path required")
	}
	return &opts, fs.Args(), nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, rest, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	path, err := filepath.Abs(rest[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	dir := opts.dir
	if dir == "" {
		dir = filepath.Dir(path)
	}

	logger := log.New(io.Discard, "", 0)
	if opts.verbose {
		logger = log.New(stderr, "", log.LstdFlags)
	}
	svc, err := pdf.NewService(maxFileSize, dir, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var result any
	var text string
	switch {
	case opts.dump:
		r, err := svc.DumpAppearances(pdf.DumpAppearancesRequest{
			Path: path, Page: opts.page, Printing: opts.printing, Regenerate: opts.regenerate,
		})
		if err != nil {
			fmt.Fprintf(stderr, "Error dumping appearances: %v\n", err)
			return 1
		}
		result, text = r, mcp.FormatDumpAppearances(r)
	case opts.generate || opts.write != "":
		output := opts.write
		if output != "" {
			if output, err = filepath.Abs(output); err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return 1
			}
		}
		r, err := svc.RegenerateAppearances(pdf.GenerateAppearancesRequest{
			Path: path, Page: opts.page, Output: output, DirtyOnly: opts.dirtyOnly,
		})
		if err != nil {
			fmt.Fprintf(stderr, "Error generating appearances: %v\n", err)
			return 1
		}
		result, text = r, mcp.FormatGenerateAppearances(r)
	default:
		r, err := svc.ListAnnotations(pdf.AnnotationsRequest{Path: path, Page: opts.page})
		if err != nil {
			fmt.Fprintf(stderr, "Error listing annotations: %v\n", err)
			return 1
		}
		result, text = r, mcp.FormatListAnnotations(r)
	}

	if opts.format == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(stderr, "Error encoding JSON: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Fprint(stdout, text)
	return 0
}

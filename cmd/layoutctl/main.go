package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/peterbourgon/ff/v3"

	"github.com/dnswlt/layoutctl/internal/config"
	"github.com/dnswlt/layoutctl/internal/gitclient"
	"github.com/dnswlt/layoutctl/internal/ir"
	"github.com/dnswlt/layoutctl/internal/layout"
	"github.com/dnswlt/layoutctl/internal/report"
	"github.com/dnswlt/layoutctl/internal/store"
	"github.com/dnswlt/layoutctl/internal/svgrender"
)

var (
	// Version is the application version.
	// It is set at build time via -ldflags "-X main.Version=...".
	Version = "dev"
)

// Options contains program options that can be set via command-line flags or environment variables.
type Options struct {
	RootDir       string
	GitURL        string
	GitRevision   string
	Input         string
	ConfigFile    string
	Output        string
	ExplainFormat string
	ExplainOutput string
}

func gitClientAuthFromEnv() *gitclient.Auth {
	user := os.Getenv("LAYOUTCTL_GIT_USER")
	if user == "" {
		return nil
	}
	pass := os.Getenv("LAYOUTCTL_GIT_PASSWORD")
	return &gitclient.Auth{
		Username: user,
		Password: pass,
	}
}

func openStore(opts Options) (store.Store, error) {
	if opts.GitURL != "" {
		auth := gitClientAuthFromEnv()
		log.Printf("Retrieving diagram from git URL %s at revision %s", opts.GitURL, opts.GitRevision)
		return store.NewGitStore(opts.GitURL, opts.GitRevision, auth)
	}
	log.Printf("Using local store at %s", opts.RootDir)
	return store.NewDiskStore(opts.RootDir)
}

func loadGraph(st store.Store, path string) (*ir.Graph, error) {
	data, err := st.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read diagram %q: %w", path, err)
	}
	g, err := ir.DecodeGraph(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not decode diagram %q: %w", path, err)
	}
	return g, nil
}

func loadBundle(st store.Store, configPath string) (*config.Bundle, error) {
	bundle, err := config.Load(st, configPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Config file %q not found, using defaults", configPath)
		b := config.DefaultBundle()
		return &b, nil
	}
	return bundle, err
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func main() {
	var opts Options
	fs := flag.NewFlagSet("layoutctl", flag.ContinueOnError)
	fs.StringVar(&opts.RootDir, "root-dir", ".", "Root directory of the local diagram store")
	fs.StringVar(&opts.GitURL, "git-url", "", "URL of the git repository to read the diagram from")
	fs.StringVar(&opts.GitRevision, "git-revision", "", "Git revision (branch, tag or commit) to read the diagram at")
	fs.StringVar(&opts.Input, "input", "", "Path (relative to the store root) of the diagram JSON file to render")
	fs.StringVar(&opts.ConfigFile, "config", "layoutctl.yaml", "Path (relative to the store root) of the layout/theme config file")
	fs.StringVar(&opts.Output, "output", "-", "Path to write the rendered SVG to (\"-\" for stdout)")
	fs.StringVar(&opts.ExplainFormat, "explain", "", "Render a layout explain report alongside the SVG: \"markdown\" or \"html\"")
	fs.StringVar(&opts.ExplainOutput, "explain-output", "-", "Path to write the explain report to (\"-\" for stdout)")

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("LAYOUTCTL")); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		os.Exit(1)
	}
	if len(fs.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Unexpected positional arguments: %v\n", fs.Args())
		os.Exit(1)
	}
	if opts.Input == "" {
		fmt.Fprintln(os.Stderr, "Flag error: -input is required")
		os.Exit(1)
	}
	log.Printf("Using config from flags/env vars: %+v", opts)

	st, err := openStore(opts)
	if err != nil {
		log.Fatalf("Could not open diagram store: %v", err)
	}

	bundle, err := loadBundle(st, opts.ConfigFile)
	if err != nil {
		log.Fatalf("Could not load config %q: %v", opts.ConfigFile, err)
	}

	graph, err := loadGraph(st, opts.Input)
	if err != nil {
		log.Fatalf("%v", err)
	}

	l := layout.Compute(graph, bundle.Theme.Resolve(), bundle.Layout)

	svg, err := svgrender.Render(l, bundle.Theme.Resolve())
	if err != nil {
		log.Fatalf("Could not render SVG: %v", err)
	}
	if err := writeOutput(opts.Output, svg); err != nil {
		log.Fatalf("Could not write SVG to %s: %v", opts.Output, err)
	}

	if opts.ExplainFormat == "" {
		return
	}
	stats := report.Explain(l)
	var out []byte
	switch opts.ExplainFormat {
	case "markdown", "md":
		md, err := report.Markdown(stats)
		if err != nil {
			log.Fatalf("Could not render explain report: %v", err)
		}
		out = []byte(md)
	case "html":
		out, err = report.HTML(stats)
		if err != nil {
			log.Fatalf("Could not render explain report: %v", err)
		}
	default:
		log.Fatalf("Unknown -explain format %q, want \"markdown\" or \"html\"", opts.ExplainFormat)
	}
	if err := writeOutput(opts.ExplainOutput, out); err != nil {
		log.Fatalf("Could not write explain report to %s: %v", opts.ExplainOutput, err)
	}
}

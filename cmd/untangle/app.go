package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/untangle/internal/config"
	"github.com/dusk-indust/untangle/internal/graph"
	"github.com/dusk-indust/untangle/internal/ident"
	"github.com/dusk-indust/untangle/internal/lister"
	"github.com/dusk-indust/untangle/internal/strategy"
	"github.com/dusk-indust/untangle/internal/workspace"
)

// globalFlags are shared by every subcommand. Values only override the
// config file when set explicitly.
type globalFlags struct {
	ProjectRoot    string
	ScanMode       string
	Naming         string
	Workers        int
	ExtractTimeout time.Duration
	GraphDB        string
	Verbose        bool
}

func (f *globalFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.ProjectRoot, "project-root", ".", "path to the working copy")
	pf.StringVar(&f.ScanMode, "scan-mode", "", "how to find conflicted files: jj-cli or file-scan")
	pf.StringVar(&f.Naming, "naming", "", "strategy names: jj-native or git-friendly")
	pf.IntVar(&f.Workers, "workers", 0, "parallel identifier extractions")
	pf.DurationVar(&f.ExtractTimeout, "extract-timeout", 0, "timeout for one identifier extraction")
	pf.StringVar(&f.GraphDB, "db", "", "persist the relation graph to a kuzu database at this path")
	pf.BoolVarP(&f.Verbose, "verbose", "v", false, "enable verbose output")
}

// loadConfig reads the project config and applies explicitly set flags.
func (f *globalFlags) loadConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	cfg, err := config.Load(f.ProjectRoot)
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if changed("scan-mode") {
		cfg.ScanMode = lister.Mode(f.ScanMode)
	}
	if changed("naming") {
		cfg.NamingConvention = strategy.Naming(f.Naming)
	}
	if changed("workers") {
		cfg.Workers = f.Workers
	}
	if changed("extract-timeout") {
		cfg.ExtractTimeout = f.ExtractTimeout
	}
	if changed("db") {
		cfg.GraphDB = f.GraphDB
	}
	if changed("verbose") {
		cfg.Verbose = f.Verbose
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// session is a workspace plus the resources it holds.
type session struct {
	cfg   *config.ProjectConfig
	ws    *workspace.Workspace
	store graph.Store
	ts    *ident.TreeSitter
}

// Close releases the parser registry and graph store.
func (s *session) Close() {
	if err := s.ts.Close(); err != nil {
		log.Printf("untangle: close parsers: %v", err)
	}
	if err := s.store.Close(); err != nil {
		log.Printf("untangle: close graph store: %v", err)
	}
}

// openSession builds a workspace for the configured project. onProgress may
// be nil.
func (f *globalFlags) openSession(cmd *cobra.Command, onProgress func(workspace.ProgressEvent)) (*session, error) {
	cfg, err := f.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	ls, err := lister.New(cfg.ScanMode, cfg.ExcludeDirs)
	if err != nil {
		return nil, err
	}

	var store graph.Store = graph.NewMemStore()
	if cfg.GraphDB != "" {
		path := cfg.GraphDB
		if !filepath.IsAbs(path) {
			path = filepath.Join(f.ProjectRoot, path)
		}
		if store, err = openGraphStore(path); err != nil {
			return nil, err
		}
	}
	if err := store.InitSchema(cmd.Context()); err != nil {
		store.Close()
		return nil, fmt.Errorf("init graph schema: %w", err)
	}

	ts := ident.NewTreeSitter(cfg.LanguageSet()...)
	ws, err := workspace.New(f.ProjectRoot, workspace.Options{
		Lister:    ls,
		Extractor: ts,
		Store:     store,
		Build: graph.BuildOptions{
			SimilarityThreshold: cfg.SimilarityThreshold,
			NestingWeight:       cfg.NestingWeight,
		},
		Naming:         cfg.NamingConvention,
		Workers:        cfg.Workers,
		ExtractTimeout: cfg.ExtractTimeout,
		OnProgress:     onProgress,
	})
	if err != nil {
		ts.Close()
		store.Close()
		return nil, err
	}
	return &session{cfg: cfg, ws: ws, store: store, ts: ts}, nil
}

// scanned opens a session and runs one scan.
func (f *globalFlags) scanned(cmd *cobra.Command) (*session, *workspace.ScanResult, error) {
	s, err := f.openSession(cmd, nil)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.ws.Scan(cmd.Context())
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	reportFileErrors(cmd, res)
	return s, res, nil
}

func reportFileErrors(cmd *cobra.Command, res *workspace.ScanResult) {
	for _, fe := range res.Errors {
		warnColor.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", fe.Error())
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"msngraph/internal/attribution"
	"msngraph/internal/chronology"
	"msngraph/internal/dot"
	"msngraph/internal/msnlog"
	"msngraph/pkg/config"
	pkgerrors "msngraph/pkg/errors"
	"msngraph/pkg/logger"
)

// msngraph reads a directory of MSN Messenger chat log exports and writes
// an introduction graph in Graphviz DOT form to stdout:
//
//	msngraph -i path_to_logs -m main_users_email > output.dot
//	sfdp -x -T png -o output.png output.dot
func main() {
	// Load configuration (flags override env)
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	flag.StringVar(&cfg.InputDir, "i", cfg.InputDir, "location of MSN chat logs (XML or Messenger Plus! HTML)")
	flag.StringVar(&cfg.MainUser, "m", cfg.MainUser, "main user's email")
	flag.StringVar(&cfg.FontName, "font", cfg.FontName, "fontname for the emitted graph")
	flag.BoolVar(&cfg.IncludeMainUser, "include-main-user", cfg.IncludeMainUser, "emit the main user as a distinguished root node")
	flag.Parse()

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		if pkgerrors.IsErrorType(err, pkgerrors.ErrorTypeConfig) {
			flag.Usage()
		}
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	// Load and normalize the chat logs
	ds, err := msnlog.LoadDirectory(context.Background(), cfg.InputDir, cfg.MainUser, log)
	if err != nil {
		log.Fatal("Failed to load chat logs", zap.Error(err))
	}
	log.Info("Chat logs loaded",
		zap.Int("conversations", len(ds.Conversations)),
		zap.Int("participants", len(ds.Participants)),
	)

	// Build the first-post index and attribute introductions
	idx := chronology.BuildIndex(ds)
	edges := attribution.NewEngine(ds, idx, log).Attribute()
	log.Info("Attribution complete", zap.Int("edges", len(edges)))

	// Emit the graph description on stdout
	opts := dot.Options{FontName: cfg.FontName, IncludeMainUser: cfg.IncludeMainUser}
	if err := dot.Write(os.Stdout, ds, edges, opts); err != nil {
		log.Fatal("Failed to write graph", zap.Error(pkgerrors.NewEmitFailed(err)))
	}

	log.Info("Done")
}

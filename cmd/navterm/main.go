// Command navterm runs the SID/STAR/approach procedure merge-and-emit pipeline
// against a source navigation database and a Permanent/Supplemental file tree.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"navterm/internal/concur"
	"navterm/internal/config"
	"navterm/internal/merge"
	"navterm/internal/mirror"
	"navterm/internal/model"
	"navterm/internal/navlog"
	"navterm/internal/procfile"
	"navterm/internal/revision"
	"navterm/internal/sourcedb"
)

func main() {
	cfg, err := parseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := navlog.New(cfg.LogDir, cfg.LogLevel)
	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("pipeline failed", "err", err)
		os.Exit(1)
	}
	log.Info("pipeline complete", "elapsed", log.Elapsed().String())
}

func parseFlags() (config.Run, error) {
	var cfg config.Run
	flag.StringVar(&cfg.DBPath, "db", "", "path to the read-only source database")
	flag.StringVar(&cfg.NavDataDir, "navdata", "", "directory containing Permanent/ and Supplemental/")
	flag.Int64Var(&cfg.StartID, "start", 0, "inclusive lower bound on terminal id")
	flag.Int64Var(&cfg.EndID, "end", 0, "inclusive upper bound on terminal id")
	flag.StringVar(&cfg.LogDir, "log-dir", "navterm-logs", "directory for rotated log files")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug|info|warn|error")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return config.Run{}, err
	}
	return cfg, nil
}

// run wires C1 through C7 together: load the source relations, merge them into
// the enriched leg stream, mirror the Permanent tree, write procedure lists and
// leg details against every Supplemental file, and stamp the identity file.
func run(ctx context.Context, cfg config.Run, log *navlog.Logger) error {
	permanentDir := filepath.Join(cfg.NavDataDir, "Permanent")
	supplementalDir := filepath.Join(cfg.NavDataDir, "Supplemental")

	db, err := sourcedb.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	rel, err := db.Load(ctx, cfg.StartID, cfg.EndID)
	if err != nil {
		return err
	}
	log.Debug("loaded source relations",
		"airports", len(rel.Airports), "terminals", len(rel.Terminals), "legs", len(rel.Legs))

	if err := db.Close(); err != nil {
		return &model.DatabaseError{Op: "close", Err: err}
	}

	records := merge.Merge(rel, log)
	log.Debug("merged leg records", "count", len(records))

	if err := mirror.Mirror(ctx, permanentDir, supplementalDir); err != nil {
		return err
	}

	terminalRecs := merge.DeriveTransitionTerminals(rel.Terminals, records)
	if err := writeLists(ctx, cfg.NavDataDir, terminalRecs); err != nil {
		return err
	}

	if err := emitLegs(ctx, supplementalDir, records); err != nil {
		return err
	}

	return revision.Stamp(supplementalDir, time.Now())
}

// writeLists runs C4 over every (icao, proc) pair that has at least one record,
// per the concurrency model in spec §5: output files are disjoint, so pairs run
// concurrently.
func writeLists(ctx context.Context, navdataDir string, records []model.TerminalRecord) error {
	grouped := make(map[[2]string][]model.TerminalRecord)
	var order [][2]string
	for _, r := range records {
		for _, proc := range []string{"1", "2", "3", "6", "A"} {
			if r.Proc != proc {
				continue
			}
			key := [2]string{r.ICAO, proc}
			if _, ok := grouped[key]; !ok {
				order = append(order, key)
			}
			grouped[key] = append(grouped[key], r)
		}
	}

	return concur.Each(ctx, order, 0, func(_ context.Context, key [2]string) error {
		return procfile.WriteList(navdataDir, key[0], key[1], grouped[key])
	})
}

// emitLegs runs C6 over every file under Supplemental, per spec §5: per-file
// leg emission parallelizes over disjoint Supplemental files.
func emitLegs(ctx context.Context, supplementalDir string, records []model.MergedRecord) error {
	var files []string
	err := filepath.Walk(supplementalDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return &model.IoError{Op: "walk", Path: path, Err: err}
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return concur.Each(ctx, files, 0, func(_ context.Context, path string) error {
		return procfile.EmitFile(path, records)
	})
}

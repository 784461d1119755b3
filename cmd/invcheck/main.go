// invcheck checks protocol constants against their algebraic invariants.
//
// Usage:
//
//	invcheck [options] [check]        Check the selected constants
//	invcheck [options] rules          List invariant rules
//	invcheck [options] history [n]    Show stored reports
//	invcheck --help                   Show help
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Klingon-tech/klingnet-invariants/config"
	"github.com/Klingon-tech/klingnet-invariants/internal/invariant"
	klog "github.com/Klingon-tech/klingnet-invariants/internal/log"
	"github.com/Klingon-tech/klingnet-invariants/internal/report"
	"github.com/Klingon-tech/klingnet-invariants/internal/storage"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, flags, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if flags.Help {
		config.PrintUsage(stdout)
		return exitOK
	}
	if flags.Version {
		fmt.Fprintf(stdout, "invcheck version %s\n", config.Version)
		return exitOK
	}

	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fmt.Fprintf(stderr, "Error: init logging: %v\n", err)
		return exitUsage
	}

	cmd := "check"
	var cmdArgs []string
	if len(flags.Args) > 0 {
		cmd = flags.Args[0]
		cmdArgs = flags.Args[1:]
	}

	switch cmd {
	case "check":
		err = cmdCheck(cfg, stdout)
	case "rules":
		err = cmdRules(stdout)
	case "presets":
		err = cmdPresets(stdout)
	case "history":
		err = cmdHistory(cfg, cmdArgs, stdout)
	case "export":
		err = cmdExport(cfg, cmdArgs, stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", cmd)
		config.PrintUsage(stderr)
		return exitUsage
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInvariantsFailed):
		return exitFailed
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailed
	}
}

var errInvariantsFailed = errors.New("invariants failed")

func cmdCheck(cfg *config.Config, w io.Writer) error {
	preset, err := config.SelectPreset(cfg)
	if err != nil {
		return err
	}
	rev, err := invariant.ParseRevision(preset.Revision)
	if err != nil {
		return err
	}

	done := klog.Benchmark("check")
	rep := invariant.NewBuiltinChecker().Run(rev, preset.Configuration())
	done()
	rep.Preset = preset.Name

	fmt.Fprintf(w, "Revision: %s  Preset: %s  Config: %s\n", rep.Revision, rep.Preset, rep.ConfigHash.Short())
	if len(rep.Results) == 0 {
		fmt.Fprintf(w, "No invariants defined for %s\n", rep.Revision)
	}
	for _, res := range rep.Results {
		if res.Passed() {
			fmt.Fprintf(w, "  PASS  %-20s %s\n", res.Rule, res.Detail)
		} else {
			fmt.Fprintf(w, "  FAIL  %-20s %s\n", res.Rule, res.Error)
		}
	}

	if cfg.Store.Enabled {
		if err := saveReport(cfg, rep); err != nil {
			return err
		}
	}

	if !rep.Passed {
		fmt.Fprintf(w, "%d of %d invariants failed\n", len(rep.Failed()), len(rep.Results))
		return errInvariantsFailed
	}
	fmt.Fprintf(w, "All %d invariants hold\n", len(rep.Results))
	return nil
}

func openStore(cfg *config.Config) (*report.Store, func() error, error) {
	db, err := storage.NewBadger(cfg.ReportsDir())
	if err != nil {
		return nil, nil, err
	}
	return report.NewStore(db), db.Close, nil
}

func saveReport(cfg *config.Config, rep *invariant.Report) error {
	store, closeFn, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := store.Save(rep); err != nil {
		return err
	}
	if cfg.Store.History > 0 {
		if _, err := store.Prune(rep.Revision, cfg.Store.History); err != nil {
			return err
		}
	}
	return nil
}

func cmdRules(w io.Writer) error {
	for _, r := range invariant.NewBuiltinChecker().Rules() {
		revs := make([]string, len(r.Revisions))
		for i, rev := range r.Revisions {
			revs[i] = rev.String()
		}
		if len(revs) == 0 {
			revs = []string{"all"}
		}
		fmt.Fprintf(w, "%s [%s]\n", r.Name, strings.Join(revs, ","))
		fmt.Fprintf(w, "  %s\n", r.Description)
		fmt.Fprintf(w, "  constants: %s\n", strings.Join(r.Constants, ", "))
	}
	return nil
}

func cmdPresets(w io.Writer) error {
	for _, name := range config.PresetNames() {
		fmt.Fprintln(w, name)
	}
	return nil
}

func cmdHistory(cfg *config.Config, args []string, w io.Writer) error {
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("history: invalid count %q", args[0])
		}
		limit = n
	}
	rev, err := invariant.ParseRevision(cfg.Check.Revision)
	if err != nil {
		return err
	}

	store, closeFn, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	reports, err := store.History(rev, limit)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Fprintf(w, "No reports for %s\n", rev)
		return nil
	}
	for _, r := range reports {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		var failed []string
		for _, res := range r.Failed() {
			failed = append(failed, res.Rule)
		}
		fmt.Fprintf(w, "%s  %s  %-8s %s  %s\n",
			r.CheckedAt.Format("2006-01-02 15:04:05"), r.ConfigHash.Short(), r.Preset, status, strings.Join(failed, ","))
	}
	return nil
}

func cmdExport(cfg *config.Config, args []string, w io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: invcheck export <path.json|path.yaml>")
	}
	preset, err := config.SelectPreset(cfg)
	if err != nil {
		return err
	}
	if err := preset.Save(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s/%s to %s\n", preset.Revision, preset.Name, args[0])
	return nil
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/YagoCrispim/pascal-interpreter/pkg/driver"
)

// entry is a resolved program file plus the manifest context it runs in.
type entry struct {
	path     string
	manifest *driver.Manifest
	target   *driver.TargetSpec
}

func newRunCommand(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run [target|file.pas]",
		Short: "Scan, parse and evaluate a program, then print its variables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntry(cmd, flags, args)
		},
	}
}

func newCheckCommand(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [target|file.pas]",
		Short: "Report declaration problems without evaluating",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ent, err := resolveEntry(cmd, args)
			if err != nil {
				return err
			}
			opts, err := resolveRunOptions(cmd, flags, ent)
			if err != nil {
				return err
			}
			src, err := driver.LoadSource(ent.path)
			if err != nil {
				return err
			}
			p := &driver.Pipeline{Options: opts, Trace: cmd.ErrOrStderr()}
			res, err := p.Check(ent.path, src)
			if reportFailure(cmd.ErrOrStderr(), ent.path, res, err) {
				return errReported
			}
			if len(res.Diagnostics) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no issues found\n", ent.path)
			}
			return nil
		},
	}
}

func newTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file.pas>",
		Short: "Print the token stream, one token per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := driver.LoadSource(args[0])
			if err != nil {
				return err
			}
			res, err := (&driver.Pipeline{}).Scan(args[0], src)
			if reportFailure(cmd.ErrOrStderr(), args[0], res, err) {
				return errReported
			}
			out := cmd.OutOrStdout()
			for _, tok := range res.Tokens {
				fmt.Fprintln(out, tok.String())
			}
			return nil
		},
	}
}

func newASTCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ast <file.pas>",
		Short: "Print the syntax tree as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := driver.LoadSource(args[0])
			if err != nil {
				return err
			}
			res, err := (&driver.Pipeline{}).Parse(args[0], src)
			if reportFailure(cmd.ErrOrStderr(), args[0], res, err) {
				return errReported
			}
			data, err := json.MarshalIndent(res.Program, "", "  ")
			if err != nil {
				return fmt.Errorf("encode syntax tree: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func runEntry(cmd *cobra.Command, flags *cliFlags, args []string) error {
	ent, err := resolveEntry(cmd, args)
	if err != nil {
		return err
	}
	opts, err := resolveRunOptions(cmd, flags, ent)
	if err != nil {
		return err
	}
	p := &driver.Pipeline{Options: opts, Trace: cmd.ErrOrStderr()}
	res, err := p.RunFile(ent.path)
	if reportFailure(cmd.ErrOrStderr(), ent.path, res, err) {
		return errReported
	}
	return driver.WriteSnapshot(cmd.OutOrStdout(), res.Snapshot, opts.Format)
}

// resolveEntry maps the optional argument to a program file. Manifest targets
// win over file names; without an argument the manifest's first target runs.
func resolveEntry(cmd *cobra.Command, args []string) (*entry, error) {
	manifest, manifestErr := loadManifestFrom("")
	if manifestErr != nil {
		switch {
		case errors.Is(manifestErr, errManifestNotFound):
			manifest = nil
		case len(args) == 1 && looksLikePathCandidate(args[0]):
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: unable to load manifest (%v); falling back to direct file execution\n", manifestErr)
			manifest = nil
		default:
			return nil, fmt.Errorf("failed to load manifest: %w", manifestErr)
		}
	}

	if len(args) == 0 {
		if manifest == nil {
			return nil, fmt.Errorf("%s requires a manifest target or source file (%s not found)", cmd.CommandPath(), driver.ManifestFileName)
		}
		target, err := manifest.DefaultTarget()
		if err != nil {
			return nil, err
		}
		return targetEntry(manifest, target)
	}

	candidate := args[0]
	if target, ok := manifest.FindTarget(candidate); ok {
		return targetEntry(manifest, target)
	}

	// A direct file still picks up defaults from the manifest next to it.
	ent := &entry{path: candidate}
	if abs, err := filepath.Abs(candidate); err == nil {
		nearby, err := loadManifestFrom(filepath.Dir(abs))
		switch {
		case err == nil:
			ent.manifest = nearby
		case !errors.Is(err, errManifestNotFound):
			return nil, fmt.Errorf("failed to read manifest for %s: %w", candidate, err)
		}
	}
	return ent, nil
}

func targetEntry(manifest *driver.Manifest, target *driver.TargetSpec) (*entry, error) {
	if !target.IsGit() {
		path, err := manifest.ResolveMain(target)
		if err != nil {
			return nil, err
		}
		return &entry{path: path, manifest: manifest, target: target}, nil
	}

	lock, err := loadLockfileForManifest(manifest)
	if err != nil {
		return nil, err
	}
	pinned, ok := lock.Find(target.Name)
	if !ok {
		return nil, fmt.Errorf("target %q is not pinned in %s; run `pascal fetch`", target.OriginalName, driver.LockfileName)
	}
	cacheDir, err := resolvePascalHome()
	if err != nil {
		return nil, err
	}
	_, path, err := driver.NewGitFetcher(cacheDir).Fetch(target, pinned)
	if err != nil {
		return nil, fmt.Errorf("fetch target %q: %w", target.OriginalName, err)
	}
	return &entry{path: path, manifest: manifest, target: target}, nil
}

// resolveRunOptions layers explicit flags over manifest options.
func resolveRunOptions(cmd *cobra.Command, flags *cliFlags, ent *entry) (driver.RunOptions, error) {
	opts, err := ent.manifest.ResolveOptions(ent.target)
	if err != nil {
		return driver.RunOptions{}, err
	}
	if cmd.Flags().Changed("format") {
		format, err := driver.ParseOutputFormat(flags.format)
		if err != nil {
			return driver.RunOptions{}, err
		}
		opts.Format = format
	}
	if cmd.Flags().Changed("check") {
		opts.Check = flags.check
	}
	if cmd.Flags().Changed("verbose") {
		opts.Verbose = flags.verbose
	}
	return opts, nil
}

// reportFailure prints checker findings and any failure, returning true when
// the run failed.
func reportFailure(w io.Writer, path string, res *driver.Result, err error) bool {
	if res != nil {
		for _, diag := range res.Diagnostics {
			fmt.Fprintln(w, driver.DescribeDiagnostic(diag))
		}
	}
	if err == nil {
		return false
	}
	if !errors.Is(err, driver.ErrCheckFailed) {
		fmt.Fprintln(w, driver.DescribeDiagnostic(driver.DiagnosticFromError(err, path)))
	}
	return true
}

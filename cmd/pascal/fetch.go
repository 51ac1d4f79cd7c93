package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YagoCrispim/pascal-interpreter/pkg/driver"
)

func newFetchCommand(flags *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Check out git targets and pin them in pascal.lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, flags.update)
		},
	}
	cmd.Flags().BoolVar(&flags.update, "update", false, "ignore existing pins and re-resolve every git target")
	return cmd
}

func runFetch(cmd *cobra.Command, update bool) error {
	out := cmd.OutOrStdout()
	manifest, err := loadManifestFrom("")
	if err != nil {
		return fmt.Errorf("unable to locate %s: %w", driver.ManifestFileName, err)
	}
	cacheDir, err := resolvePascalHome()
	if err != nil {
		return fmt.Errorf("failed to resolve PASCAL_HOME: %w", err)
	}

	targets := manifest.GitTargets()
	fmt.Fprintf(out, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(out, "Git targets: %d\n", len(targets))
	fmt.Fprintf(out, "Cache directory: %s\n", cacheDir)
	if len(targets) == 0 {
		return nil
	}

	lockPath := driver.LockfilePathFor(manifest)
	lock, err := driver.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			return fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lockCreated = true
	default:
		return fmt.Errorf("failed to read lockfile: %w", err)
	}
	lock.Tool = cliToolVersion

	fetcher := driver.NewGitFetcher(cacheDir)
	for _, target := range targets {
		var pinned *driver.LockedTarget
		if !update {
			pinned, _ = lock.Find(target.Name)
		}
		locked, _, err := fetcher.Fetch(target, pinned)
		if err != nil {
			return fmt.Errorf("fetch target %q: %w", target.OriginalName, err)
		}
		lock.Upsert(locked)
		fmt.Fprintf(out, "Fetched %s at %s\n", target.OriginalName, locked.Commit)
	}

	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		return fmt.Errorf("failed to write lockfile: %w", err)
	}
	action := "Updated"
	if lockCreated {
		action = "Created"
	}
	fmt.Fprintf(out, "%s %s: %s\n", action, driver.LockfileName, lock.Path)
	return nil
}

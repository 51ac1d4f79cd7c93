package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrChecksumMismatch reports a cached checkout that no longer matches its pin.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// GitFetcher checks out git targets under CacheDir/src/<target>/<version>.
type GitFetcher struct {
	CacheDir string
}

// NewGitFetcher returns nil when no cache directory is configured.
func NewGitFetcher(cacheDir string) *GitFetcher {
	if cacheDir == "" {
		return nil
	}
	return &GitFetcher{CacheDir: cacheDir}
}

// Fetch clones the target's repository, checks out the requested revision
// and returns the lock entry together with the absolute path of the entry
// file. A pinned entry, when given, overrides rev/tag/branch and its checksum
// must match the checkout.
func (g *GitFetcher) Fetch(target *TargetSpec, pinned *LockedTarget) (*LockedTarget, string, error) {
	if g == nil {
		return nil, "", errors.New("git fetcher unavailable")
	}
	if !target.IsGit() {
		return nil, "", fmt.Errorf("target %q: git URL required", target.OriginalName)
	}
	url := strings.TrimSpace(target.Git)

	revision, descriptor := gitRevisionFromTarget(target)
	if pinned != nil && pinned.Commit != "" {
		revision, descriptor = plumbing.Revision(pinned.Commit), pinned.Commit
	}

	baseDir := filepath.Join(g.CacheDir, "src", sanitizePathSegment(target.Name))
	version, commit, err := ensureGitCheckout(baseDir, url, revision, descriptor)
	if err != nil {
		return nil, "", err
	}

	checkoutDir := filepath.Join(baseDir, sanitizePathSegment(version))
	checksum, err := dirChecksum(checkoutDir)
	if err != nil {
		return nil, "", err
	}
	if pinned != nil && pinned.Checksum != "" && pinned.Checksum != checksum {
		return nil, "", fmt.Errorf("target %q: checkout %s: %w (locked %s, found %s)", target.OriginalName, checkoutDir, ErrChecksumMismatch, pinned.Checksum, checksum)
	}
	mainPath := filepath.Join(checkoutDir, filepath.FromSlash(target.Main))
	if _, err := os.Stat(mainPath); err != nil {
		return nil, "", fmt.Errorf("target %q: main %s not found at %s: %w", target.OriginalName, target.Main, commit, err)
	}

	return &LockedTarget{
		Name:     target.Name,
		Source:   fmt.Sprintf("git+%s@%s", url, commit),
		Commit:   commit,
		Main:     target.Main,
		Checksum: checksum,
	}, mainPath, nil
}

func ensureGitCheckout(baseDir, url string, revision plumbing.Revision, descriptor string) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	if plumbing.IsHash(descriptor) {
		existing := filepath.Join(baseDir, sanitizePathSegment(descriptor))
		if _, err := os.Stat(existing); err == nil {
			return descriptor, descriptor, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:               url,
		Tags:              git.AllTags,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return version, hash.String(), nil
}

// gitRevisionFromTarget defaults to the remote HEAD. Branches resolve through
// the remote-tracking ref since a fresh clone only has the default branch
// locally.
func gitRevisionFromTarget(target *TargetSpec) (plumbing.Revision, string) {
	if rev := strings.TrimSpace(target.Rev); rev != "" {
		return plumbing.Revision(rev), rev
	}
	if tag := strings.TrimSpace(target.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag
	}
	if branch := strings.TrimSpace(target.Branch); branch != "" {
		return plumbing.Revision("refs/remotes/origin/" + branch), branch
	}
	return plumbing.Revision(plumbing.HEAD), ""
}

func gitPinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

// dirChecksum hashes file names and contents, skipping git metadata.
func dirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	result := b.String()
	if result == "." || result == ".." {
		return "_"
	}
	return result
}

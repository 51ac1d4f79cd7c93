package driver

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func commitAll(t *testing.T, repo *git.Repository, dir, message string) string {
	t.Helper()
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Pascal CLI",
			Email: "pascal@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func initGitRepo(t *testing.T, dir string) (*git.Repository, string) {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return repo, commitAll(t, repo, dir, "init")
}

func TestGitFetcherChecksOutHead(t *testing.T) {
	remote := t.TempDir()
	writeFile(t, filepath.Join(remote, "part10.pas"), canonicalProgram)
	_, commit := initGitRepo(t, remote)

	cache := t.TempDir()
	fetcher := NewGitFetcher(cache)
	target := &TargetSpec{Name: "remote", OriginalName: "remote", Git: remote, Main: "part10.pas"}

	locked, mainPath, err := fetcher.Fetch(target, nil)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if locked.Commit != commit {
		t.Fatalf("expected commit %s, got %s", commit, locked.Commit)
	}
	if locked.Source != "git+"+remote+"@"+commit {
		t.Fatalf("unexpected source %s", locked.Source)
	}
	if locked.Checksum == "" {
		t.Fatalf("expected checksum")
	}
	wantMain := filepath.Join(cache, "src", "remote", commit, "part10.pas")
	if mainPath != wantMain {
		t.Fatalf("expected main %s, got %s", wantMain, mainPath)
	}

	res, err := (&Pipeline{}).RunFile(mainPath)
	if err != nil {
		t.Fatalf("run fetched program: %v", err)
	}
	if len(res.Snapshot) != 3 {
		t.Fatalf("expected 3 bindings, got %d", len(res.Snapshot))
	}
}

func TestGitFetcherHonoursTagAndPin(t *testing.T) {
	remote := t.TempDir()
	writeFile(t, filepath.Join(remote, "main.pas"), "PROGRAM P; BEGIN a := 1 END.")
	repo, first := initGitRepo(t, remote)
	if _, err := repo.CreateTag("v1", plumbing.NewHash(first), nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	writeFile(t, filepath.Join(remote, "main.pas"), "PROGRAM P; BEGIN a := 2 END.")
	second := commitAll(t, repo, remote, "second")

	cache := t.TempDir()
	fetcher := NewGitFetcher(cache)

	tagged := &TargetSpec{Name: "tagged", OriginalName: "tagged", Git: remote, Tag: "v1", Main: "main.pas"}
	locked, mainPath, err := fetcher.Fetch(tagged, nil)
	if err != nil {
		t.Fatalf("fetch tag: %v", err)
	}
	if locked.Commit != first {
		t.Fatalf("expected tag to resolve to %s, got %s", first, locked.Commit)
	}
	if want := filepath.Join(cache, "src", "tagged", "v1_"+first, "main.pas"); mainPath != want {
		t.Fatalf("expected %s, got %s", want, mainPath)
	}

	head := &TargetSpec{Name: "head", OriginalName: "head", Git: remote, Main: "main.pas"}
	locked, _, err = fetcher.Fetch(head, &LockedTarget{Name: "head", Commit: first})
	if err != nil {
		t.Fatalf("fetch pinned: %v", err)
	}
	if locked.Commit != first {
		t.Fatalf("expected pin %s to win over HEAD %s, got %s", first, second, locked.Commit)
	}

	locked, _, err = fetcher.Fetch(head, nil)
	if err != nil {
		t.Fatalf("fetch head: %v", err)
	}
	if locked.Commit != second {
		t.Fatalf("expected HEAD %s, got %s", second, locked.Commit)
	}
}

func TestGitFetcherMissingMain(t *testing.T) {
	remote := t.TempDir()
	writeFile(t, filepath.Join(remote, "other.pas"), "PROGRAM P; BEGIN END.")
	initGitRepo(t, remote)

	fetcher := NewGitFetcher(t.TempDir())
	target := &TargetSpec{Name: "r", OriginalName: "r", Git: remote, Main: "main.pas"}
	if _, _, err := fetcher.Fetch(target, nil); err == nil || !strings.Contains(err.Error(), "main main.pas not found") {
		t.Fatalf("expected missing main error, got %v", err)
	}
}

func TestGitFetcherRejectsModifiedCheckout(t *testing.T) {
	remote := t.TempDir()
	writeFile(t, filepath.Join(remote, "main.pas"), "PROGRAM P; BEGIN a := 1 END.")
	initGitRepo(t, remote)

	fetcher := NewGitFetcher(t.TempDir())
	target := &TargetSpec{Name: "r", OriginalName: "r", Git: remote, Main: "main.pas"}
	locked, mainPath, err := fetcher.Fetch(target, nil)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, again, err := fetcher.Fetch(target, locked); err != nil || again != mainPath {
		t.Fatalf("expected untouched pin to reuse %s, got %s (%v)", mainPath, again, err)
	}

	writeFile(t, mainPath, "PROGRAM P; BEGIN a := 99 END.")
	_, _, err = fetcher.Fetch(target, locked)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), `target "r"`) {
		t.Fatalf("expected target name in error, got %v", err)
	}

	if err := os.RemoveAll(filepath.Dir(mainPath)); err != nil {
		t.Fatalf("remove checkout: %v", err)
	}
	if _, _, err := fetcher.Fetch(target, locked); err != nil {
		t.Fatalf("expected a fresh checkout to match the pin, got %v", err)
	}
}

func TestNewGitFetcherRequiresCache(t *testing.T) {
	fetcher := NewGitFetcher("")
	if fetcher != nil {
		t.Fatalf("expected nil fetcher")
	}
	if _, _, err := fetcher.Fetch(&TargetSpec{Git: "x", Main: "m.pas"}, nil); err == nil {
		t.Fatalf("expected error from nil fetcher")
	}
}

func TestGitPinnedVersion(t *testing.T) {
	cases := []struct {
		descriptor, commit, want string
	}{
		{"", "abc", "abc"},
		{"abc", "abc", "abc"},
		{"v1", "abc", "v1@abc"},
		{"v1", "", "v1"},
	}
	for _, tc := range cases {
		if got := gitPinnedVersion(tc.descriptor, tc.commit); got != tc.want {
			t.Fatalf("gitPinnedVersion(%q, %q) = %q, want %q", tc.descriptor, tc.commit, got, tc.want)
		}
	}
}

func TestSanitizePathSegment(t *testing.T) {
	cases := map[string]string{
		"":              "head",
		"feature/x":     "feature_x",
		"..":            "_",
		"v1.2.3@abc":    "v1.2.3_abc",
		" spaced name ": "spaced_name",
	}
	for in, want := range cases {
		if got := sanitizePathSegment(in); got != want {
			t.Fatalf("sanitizePathSegment(%q) = %q, want %q", in, got, want)
		}
	}
}

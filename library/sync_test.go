package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/netforge-io/netforge/config"
	"github.com/netforge-io/netforge/faults"
)

func TestSyncClonesAndRefreshes(t *testing.T) {
	t.Parallel()

	remoteDir, seedRepo, seedDir := createLibraryRemote(t)
	baseDir := filepath.Join(t.TempDir(), "checkout")

	syncer := mustSyncer(t, config.Library{
		RepositoryURL: remoteDir,
		Branch:        "master",
		BaseDir:       baseDir,
	})

	report, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("initial Sync returned error: %v", err)
	}
	if !report.Cloned || !report.Updated {
		t.Fatalf("expected clone on first sync, got %+v", report)
	}
	if report.Commit == "" {
		t.Fatal("expected head commit in report")
	}

	seedPath := filepath.Join(baseDir, "device-types", "Cisco", "c9300-24t.yaml")
	if _, err := os.Stat(seedPath); err != nil {
		t.Fatalf("expected definition in checkout: %v", err)
	}

	// Nothing new upstream; the second sync is a no-op refresh.
	report, err = syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("refresh Sync returned error: %v", err)
	}
	if report.Cloned || report.Updated {
		t.Fatalf("expected up-to-date refresh, got %+v", report)
	}

	commitLibraryFile(t, seedRepo, seedDir, "device-types/Juniper/mx204.yaml", routerYAML, "add mx204")
	pushLibraryMaster(t, seedRepo)

	report, err = syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync after upstream commit returned error: %v", err)
	}
	if report.Updated {
		if _, err := os.Stat(filepath.Join(baseDir, "device-types", "Juniper", "mx204.yaml")); err != nil {
			t.Fatalf("expected new definition in checkout: %v", err)
		}
	} else {
		t.Fatalf("expected update after upstream commit, got %+v", report)
	}
}

func TestSyncDiscardsLocalEdits(t *testing.T) {
	t.Parallel()

	remoteDir, _, _ := createLibraryRemote(t)
	baseDir := filepath.Join(t.TempDir(), "checkout")

	syncer := mustSyncer(t, config.Library{
		RepositoryURL: remoteDir,
		Branch:        "master",
		BaseDir:       baseDir,
	})
	if _, err := syncer.Sync(context.Background()); err != nil {
		t.Fatalf("initial Sync returned error: %v", err)
	}

	editedPath := filepath.Join(baseDir, "device-types", "Cisco", "c9300-24t.yaml")
	if err := os.WriteFile(editedPath, []byte("model: tampered\n"), 0o600); err != nil {
		t.Fatalf("failed to edit checkout: %v", err)
	}

	if _, err := syncer.Sync(context.Background()); err != nil {
		t.Fatalf("Sync over local edit returned error: %v", err)
	}

	restored, err := os.ReadFile(editedPath)
	if err != nil {
		t.Fatalf("failed to read restored file: %v", err)
	}
	if string(restored) != switchYAML {
		t.Fatal("expected local edit discarded by sync")
	}
}

func TestSyncUnreachableRemote(t *testing.T) {
	t.Parallel()

	syncer := mustSyncer(t, config.Library{
		RepositoryURL: filepath.Join(t.TempDir(), "absent"),
		Branch:        "master",
		BaseDir:       filepath.Join(t.TempDir(), "checkout"),
	})

	_, err := syncer.Sync(context.Background())
	if err == nil {
		t.Fatal("expected error for unreachable remote")
	}
	if faults.CategoryOf(err) == faults.ValidationError {
		t.Fatalf("expected a remote-side category, got %v", err)
	}
}

func mustSyncer(t *testing.T, cfg config.Library) *Syncer {
	t.Helper()
	syncer, err := NewSyncer(cfg, nil)
	if err != nil {
		t.Fatalf("NewSyncer returned error: %v", err)
	}
	return syncer
}

// createLibraryRemote builds a bare remote holding one seed definition on
// master, plus the seed worktree used to push follow-up commits.
func createLibraryRemote(t *testing.T) (remoteDir string, seedRepo *gogit.Repository, seedDir string) {
	t.Helper()

	remoteDir = t.TempDir()
	if _, err := gogit.PlainInit(remoteDir, true); err != nil {
		t.Fatalf("failed to init bare remote: %v", err)
	}

	seedDir = t.TempDir()
	seedRepo, err := gogit.PlainInit(seedDir, false)
	if err != nil {
		t.Fatalf("failed to init seed repo: %v", err)
	}
	commitLibraryFile(t, seedRepo, seedDir, "device-types/Cisco/c9300-24t.yaml", switchYAML, "seed library")

	if _, err := seedRepo.CreateRemote(&gitcfg.RemoteConfig{
		Name: "origin",
		URLs: []string{remoteDir},
	}); err != nil {
		t.Fatalf("failed to create seed remote: %v", err)
	}
	pushLibraryMaster(t, seedRepo)

	return remoteDir, seedRepo, seedDir
}

func commitLibraryFile(t *testing.T, repo *gogit.Repository, repoDir, relPath, content, message string) {
	t.Helper()

	fullPath := filepath.Join(repoDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("failed to create commit directory: %v", err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write commit file: %v", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to open worktree: %v", err)
	}
	if _, err := worktree.Add(filepath.ToSlash(relPath)); err != nil {
		t.Fatalf("failed to add file: %v", err)
	}
	if _, err := worktree.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "netforge-test",
			Email: "netforge@example.com",
			When:  time.Unix(0, 0),
		},
	}); err != nil {
		t.Fatalf("failed to commit file: %v", err)
	}
}

func pushLibraryMaster(t *testing.T, repo *gogit.Repository) {
	t.Helper()

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("failed to resolve head branch: %v", err)
	}
	if err := repo.Push(&gogit.PushOptions{
		RemoteName: "origin",
		RefSpecs: []gitcfg.RefSpec{
			gitcfg.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/master", head.Name().Short())),
		},
	}); err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		t.Fatalf("failed to push seed commit: %v", err)
	}
}

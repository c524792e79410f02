package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/netforge-io/netforge/config"
	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/telemetry"
)

const remoteName = "origin"

// Syncer keeps a local devicetype-library checkout aligned with its remote.
// Local edits are discarded on every sync; the checkout is a mirror, not a
// working copy.
type Syncer struct {
	repositoryURL string
	branch        string
	baseDir       string
	log           *telemetry.Logger
}

func NewSyncer(cfg config.Library, log *telemetry.Logger) (*Syncer, error) {
	baseDir, err := resolveBaseDir(cfg.BaseDirOrDefault())
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = telemetry.Nop()
	}
	return &Syncer{
		repositoryURL: cfg.RepositoryURLOrDefault(),
		branch:        cfg.BranchOrDefault(),
		baseDir:       baseDir,
		log:           log.NewComponentLogger("library-sync"),
	}, nil
}

// SyncReport describes what a sync did.
type SyncReport struct {
	Path    string
	Branch  string
	Commit  string
	Cloned  bool
	Updated bool
}

// Sync clones the library on first use and fast-forwards the checkout to
// the remote branch head on every later run, discarding local changes.
func (s *Syncer) Sync(ctx context.Context) (SyncReport, error) {
	if s == nil {
		return SyncReport{}, internalError("library syncer is not configured", nil)
	}
	if err := ctx.Err(); err != nil {
		return SyncReport{}, err
	}

	report := SyncReport{Path: s.baseDir, Branch: s.branch}

	repo, err := gogit.PlainOpen(s.baseDir)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return s.clone(report)
	}
	if err != nil {
		return SyncReport{}, internalError("failed to open library checkout", err)
	}

	return s.refresh(repo, report)
}

func (s *Syncer) clone(report SyncReport) (SyncReport, error) {
	s.log.Infof("cloning %s (branch %s) into %s", s.repositoryURL, s.branch, s.baseDir)

	repo, err := gogit.PlainClone(s.baseDir, false, &gogit.CloneOptions{
		URL:           s.repositoryURL,
		ReferenceName: plumbing.NewBranchReferenceName(s.branch),
		SingleBranch:  true,
	})
	if err != nil {
		return SyncReport{}, classifyRemoteError("failed to clone device-type library", err)
	}

	head, err := repo.Head()
	if err != nil {
		return SyncReport{}, internalError("failed to resolve library head after clone", err)
	}

	report.Cloned = true
	report.Updated = true
	report.Commit = head.Hash().String()
	return report, nil
}

func (s *Syncer) refresh(repo *gogit.Repository, report SyncReport) (SyncReport, error) {
	if err := s.ensureRemote(repo); err != nil {
		return SyncReport{}, err
	}

	fetchErr := repo.Fetch(&gogit.FetchOptions{
		RemoteName: remoteName,
		RefSpecs: []gitcfg.RefSpec{
			gitcfg.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", s.branch, remoteName, s.branch)),
		},
		Force: true,
	})
	if fetchErr != nil && !errors.Is(fetchErr, gogit.NoErrAlreadyUpToDate) {
		return SyncReport{}, classifyRemoteError("failed to fetch device-type library", fetchErr)
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName(remoteName, s.branch), true)
	if err != nil {
		return SyncReport{}, internalError(fmt.Sprintf("remote branch %s is missing after fetch", s.branch), err)
	}

	headHash := plumbing.ZeroHash
	if head, headErr := repo.Head(); headErr == nil {
		headHash = head.Hash()
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return SyncReport{}, internalError("failed to open library worktree", err)
	}
	if err := worktree.Reset(&gogit.ResetOptions{
		Mode:   gogit.HardReset,
		Commit: remoteRef.Hash(),
	}); err != nil {
		return SyncReport{}, internalError("failed to reset library checkout", err)
	}

	report.Updated = headHash != remoteRef.Hash()
	report.Commit = remoteRef.Hash().String()
	if report.Updated {
		s.log.Infof("library updated to %s", report.Commit)
	} else {
		s.log.Debugf("library already at %s", report.Commit)
	}
	return report, nil
}

func (s *Syncer) ensureRemote(repo *gogit.Repository) error {
	_, err := repo.CreateRemote(&gitcfg.RemoteConfig{
		Name: remoteName,
		URLs: []string{s.repositoryURL},
	})
	if err == nil {
		return nil
	}
	if !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return internalError("failed to configure library remote", err)
	}

	cfg, cfgErr := repo.Config()
	if cfgErr != nil {
		return internalError("failed to load library git config", cfgErr)
	}
	cfg.Remotes[remoteName] = &gitcfg.RemoteConfig{
		Name: remoteName,
		URLs: []string{s.repositoryURL},
	}
	if setErr := repo.Storer.SetConfig(cfg); setErr != nil {
		return internalError("failed to update library remote config", setErr)
	}
	return nil
}

func classifyRemoteError(message string, err error) error {
	lower := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, transport.ErrAuthenticationRequired) ||
		strings.Contains(lower, "authentication") ||
		strings.Contains(lower, "permission denied"):
		return faults.Auth(message, err)
	case strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "tls") ||
		strings.Contains(lower, "connection") ||
		strings.Contains(lower, "network") ||
		strings.Contains(lower, "no such host"):
		return transportError(message, err)
	case strings.Contains(lower, "not found") ||
		strings.Contains(lower, "does not exist"):
		return notFoundError(message, err)
	default:
		return internalError(message, err)
	}
}

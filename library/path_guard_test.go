package library

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsPathUnderRoot(t *testing.T) {
	t.Parallel()

	root := filepath.Clean("/tmp/root")
	if !isPathUnderRoot(root, filepath.Join(root, "device-types", "Cisco", "C9300-24T.yaml")) {
		t.Fatal("expected child path to be under root")
	}
	if isPathUnderRoot(root, filepath.Clean("/tmp/other/file")) {
		t.Fatal("expected unrelated path to be outside root")
	}
	if isPathUnderRoot(root, filepath.Join(root, "..", "escape.yaml")) {
		t.Fatal("expected dot-dot path to be outside root")
	}
}

func TestIsPathUnderRootRejectsSymlinkEscape(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outside := t.TempDir()

	linkPath := filepath.Join(root, "link")
	if err := os.Symlink(outside, linkPath); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	candidate := filepath.Join(linkPath, "escaped.yaml")
	if isPathUnderRoot(root, candidate) {
		t.Fatalf("expected symlinked path %q to be rejected under root %q", candidate, root)
	}
}

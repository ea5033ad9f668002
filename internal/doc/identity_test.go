package doc

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestResolveIdentityStableAcrossCalls(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	first, err := ResolveIdentity(path)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := ResolveIdentity(path)
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("identity changed between calls: %s vs %s", first.ID, second.ID)
	}
	if first.ID == "" {
		t.Error("empty identity")
	}
	if !filepath.IsAbs(first.Path) {
		t.Errorf("expected absolute canonical path, got %s", first.Path)
	}
}

func TestResolveIdentityFollowsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks unsupported on windows test runners")
	}
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "real.pdf")
	if err := os.WriteFile(target, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	link := filepath.Join(tmpDir, "alias.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlink unavailable: %v", err)
	}

	direct, err := ResolveIdentity(target)
	if err != nil {
		t.Fatalf("resolve target: %v", err)
	}
	viaLink, err := ResolveIdentity(link)
	if err != nil {
		t.Fatalf("resolve link: %v", err)
	}

	if direct.ID != viaLink.ID {
		t.Errorf("symlink produced a different identity: %s vs %s", direct.ID, viaLink.ID)
	}
}

func TestResolveIdentityDistinctFiles(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.pdf")
	b := filepath.Join(tmpDir, "b.pdf")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("%PDF-1.4"), 0644); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}

	idA, err := ResolveIdentity(a)
	if err != nil {
		t.Fatalf("resolve a: %v", err)
	}
	idB, err := ResolveIdentity(b)
	if err != nil {
		t.Fatalf("resolve b: %v", err)
	}
	if idA.ID == idB.ID {
		t.Error("different files share an identity")
	}
}

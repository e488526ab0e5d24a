package cli

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestInitGitRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}

	dir := t.TempDir()
	if err := initGitRepo(dir); err != nil {
		t.Fatalf("initGitRepo: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		t.Fatalf("no .git after init: %v", err)
	}
	if !info.IsDir() {
		t.Error(".git is not a directory")
	}
}

package safety_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/petasbytes/sasa/internal/safety"
)

func resolvedTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	// Normalise to avoid /var vs /private/var mismatches on macOS
	if r, err := filepath.EvalSymlinks(dir); err == nil {
		dir = r
	}
	return dir
}

func TestConfine_RelativeJoinedToRoot(t *testing.T) {
	root := resolvedTempDir(t)
	_ = os.MkdirAll(filepath.Join(root, "sub"), 0o755)

	p, err := safety.Confine(root, "sub/new.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(p, root+string(filepath.Separator)) {
		t.Fatalf("resolved path %q not under root %q", p, root)
	}
}

func TestConfine_AbsoluteInsideRootAllowed(t *testing.T) {
	root := resolvedTempDir(t)
	want := filepath.Join(root, "a.txt")
	got, err := safety.Confine(root, want)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestConfine_Rejections(t *testing.T) {
	root := resolvedTempDir(t)
	cases := []struct {
		name string
		path string
		code string
	}{
		{"parent traversal", "../../x", safety.CodeOutsideRoot},
		{"absolute outside", "/etc/passwd", safety.CodeOutsideRoot},
		{"empty", "  ", safety.CodeInvalidPath},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := safety.Confine(root, tc.path)
			var te safety.ToolError
			if !errors.As(err, &te) {
				t.Fatalf("expected ToolError, got %T: %v", err, err)
			}
			if te.Code != tc.code {
				t.Fatalf("unexpected code: %s", te.Code)
			}
		})
	}
}

func TestConfine_SymlinkEscapeOnNewFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test skipped on Windows")
	}
	root := resolvedTempDir(t)
	outside := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(root, "out")); err != nil {
		t.Skipf("symlink not allowed on this FS: %v", err)
	}

	// Leaf does not exist; parent is a symlink pointing outside
	if _, err := safety.Confine(root, "out/newfile.txt"); err == nil {
		t.Fatal("expected reject for symlink escape via ancestor")
	} else if !strings.Contains(err.Error(), safety.CodeOutsideRoot) {
		t.Fatalf("expected %s, got %v", safety.CodeOutsideRoot, err)
	}
}

func TestToolError_CompactJSON(t *testing.T) {
	err := safety.ToolError{Code: "ERR_X", Message: "nope"}
	if got := err.Error(); got != `{"code":"ERR_X","message":"nope"}` {
		t.Fatalf("unexpected encoding: %s", got)
	}
}

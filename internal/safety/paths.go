// Package safety holds the execution policy applied to tool calls and the
// path confinement helpers used when a root is configured.
package safety

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// ToolError is a machine-readable error body for surfacing back to the model as JSON.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string to keep tool_result payloads small.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

const (
	CodeOutsideRoot = "ERR_PATH_OUTSIDE_ROOT"
	CodeDeniedShell = "ERR_DENIED_SHELL"
	CodeDeniedHTTP  = "ERR_DENIED_HTTP"
	CodeDeniedWrite = "ERR_DENIED_WRITE"
	CodeInvalidPath = "ERR_INVALID_PATH"
)

// ResolveRoot makes root absolute and resolves symlinks where possible so
// later boundary checks are reliable. An empty root stays empty (no confinement).
func ResolveRoot(root string) (string, error) {
	if root == "" {
		return "", nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("abs(root): %w", err)
	}
	// If EvalSymlinks fails (e.g. non-existent), fall back to the absolute path as-is.
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	return abs, nil
}

// Confine resolves p against absRoot and returns an absolute path inside it.
// Relative inputs are joined to the root; absolute inputs must already lie
// beneath it. Parent traversal and symlink escapes are rejected with a ToolError.
func Confine(absRoot, p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", ToolError{Code: CodeInvalidPath, Message: "path is empty"}
	}

	candidate := p
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(absRoot, candidate)
	}
	candidate = filepath.Clean(candidate)

	// Best-effort symlink resolution.
	// 1) Resolve the whole candidate if it exists.
	// 2) Otherwise resolve the parent and rejoin the final segment. This
	//    reveals escapes via a symlinked parent for files not yet created.
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else {
		parent := filepath.Dir(candidate)
		if resolvedParent, err2 := filepath.EvalSymlinks(parent); err2 == nil {
			candidate = filepath.Join(resolvedParent, filepath.Base(candidate))
		}
	}

	// Boundary check using filepath.Rel (robust against partial prefix matches)
	rel, err := filepath.Rel(absRoot, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", ToolError{Code: CodeOutsideRoot, Message: "requested path resolves outside the configured root"}
	}
	return candidate, nil
}

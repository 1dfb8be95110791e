package safety

import "strings"

// Policy is the capability configuration consulted before every side-effecting
// tool runs. The zero value denies shell, HTTP and writes; use Unrestricted for
// the permissive default.
type Policy struct {
	AllowShell bool   `yaml:"allow_shell" env:"SASA_ALLOW_SHELL"`
	AllowHTTP  bool   `yaml:"allow_http" env:"SASA_ALLOW_HTTP"`
	AllowWrite bool   `yaml:"allow_write" env:"SASA_ALLOW_WRITE"`
	Root       string `yaml:"root" env:"SASA_ROOT"`
}

// Unrestricted allows every tool and every path. Commands, URLs and paths are
// passed through exactly as the model supplied them.
func Unrestricted() Policy {
	return Policy{AllowShell: true, AllowHTTP: true, AllowWrite: true}
}

// Confined reports whether file tools are restricted to Root.
func (p Policy) Confined() bool { return strings.TrimSpace(p.Root) != "" }

// ReadPath returns the path a read-side file tool should touch.
func (p Policy) ReadPath(path string) (string, error) {
	if !p.Confined() {
		return path, nil
	}
	root, err := ResolveRoot(p.Root)
	if err != nil {
		return "", err
	}
	return Confine(root, path)
}

// WritePath returns the path write_file should touch, or a ToolError when writes are disabled.
func (p Policy) WritePath(path string) (string, error) {
	if !p.AllowWrite {
		return "", ToolError{Code: CodeDeniedWrite, Message: "file writes are disabled by policy"}
	}
	return p.ReadPath(path)
}

// CheckShell returns a ToolError when shell execution is disabled.
func (p Policy) CheckShell() error {
	if !p.AllowShell {
		return ToolError{Code: CodeDeniedShell, Message: "shell execution is disabled by policy"}
	}
	return nil
}

// CheckHTTP returns a ToolError when outbound HTTP is disabled.
func (p Policy) CheckHTTP() error {
	if !p.AllowHTTP {
		return ToolError{Code: CodeDeniedHTTP, Message: "http requests are disabled by policy"}
	}
	return nil
}

package fsops

import (
	"os"

	"github.com/petasbytes/sasa/internal/safety"
)

// WriteFile replaces the contents of path with content, creating the file
// if needed. Parent directories are not created.
func WriteFile(p safety.Policy, path, content string) error {
	absPath, err := p.WritePath(path)
	if err != nil {
		return err
	}
	return os.WriteFile(absPath, []byte(content), 0o644)
}

package bootstrap

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed static
var staticAssets embed.FS

// CollectStatic copies the embedded static assets into root, creating it if
// needed. Existing files are overwritten so redeploys pick up asset changes.
func CollectStatic(root string) (int, error) {
	if root == "" {
		return 0, fmt.Errorf("static root not configured")
	}

	sub, err := fs.Sub(staticAssets, "static")
	if err != nil {
		return 0, err
	}

	count := 0
	err = fs.WalkDir(sub, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		dest := filepath.Join(root, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}
		data, err := fs.ReadFile(sub, p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, nil
}

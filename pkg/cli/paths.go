package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// hostPath turns a FILE argument into the path os.Open needs. "~" and
// relative paths resolve against the runtime. When the runtime is jailed the
// result is mapped under the jail directory.
func hostPath(rt *toolkit.Runtime, path string) (string, error) {
	expanded, err := toolkit.ExpandPath(rt, path)
	if err != nil {
		return "", fmt.Errorf("expand path %q: %w", path, err)
	}
	if expanded != "" && !filepath.IsAbs(expanded) {
		wd, err := rt.Getwd()
		if err != nil {
			return "", fmt.Errorf("unable to determine working directory: %w", err)
		}
		expanded = filepath.Join(wd, expanded)
	}

	jail := strings.TrimSpace(rt.GetJail())
	if jail == "" || expanded == "" || strings.HasPrefix(expanded, filepath.Clean(jail)+string(filepath.Separator)) {
		return expanded, nil
	}
	trimmed := strings.TrimPrefix(expanded, string(filepath.Separator))
	return filepath.Join(jail, trimmed), nil
}

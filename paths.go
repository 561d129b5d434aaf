package highlights

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/samber/lo"
)

// ExpandInputs resolves file patterns into existing file paths.
//
// A leading ~ is expanded to the home directory. Patterns are matched with filepath.Glob;
// a pattern without matches that names an existing file is used as is.
// Directories are skipped and repeated paths are kept once, in first-seen order.
func ExpandInputs(patterns []string) []string {
	var paths []string
	for _, pattern := range patterns {
		if expanded, err := homedir.Expand(pattern); err == nil {
			pattern = expanded
		}
		matches, err := filepath.Glob(pattern)
		if err != nil || len(matches) == 0 {
			matches = []string{pattern}
		}
		paths = append(paths, lo.Filter(matches, func(m string, _ int) bool {
			return isFile(m)
		})...)
	}
	return lo.Uniq(paths)
}

// OutputPath derives <dir>/<stem><suffix><ext> from an input path.
// Dir defaults to the input's directory, ext defaults to .jpg.
func OutputPath(in, outDir, suffix string) string {
	name := filepath.Base(in)
	ext := filepath.Ext(name)
	if ext == name {
		// Dot files have no extension.
		ext = ""
	}
	stem := strings.TrimSuffix(name, ext)
	if ext == "" {
		ext = defaultExt
	}
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(in)
	}
	return filepath.Join(dir, stem+suffix+ext)
}

func isFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

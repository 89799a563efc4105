package indexer

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/knowgraph/knowgraph/internal/lang"
)

// ignoreDirs are directory names always skipped during discovery.
var ignoreDirs = map[string]bool{
	".cache": true, ".git": true, ".hg": true, ".idea": true,
	".mypy_cache": true, ".pytest_cache": true, ".ruff_cache": true,
	".svn": true, ".tox": true, ".venv": true, ".vscode": true,
	"__pycache__": true, "bin": true, "bower_components": true,
	"build": true, "coverage": true, "dist": true, "node_modules": true,
	"obj": true, "out": true, "target": true, "tmp": true,
	"vendor": true, "venv": true,
}

// ignoreSuffixes are file suffixes always skipped.
var ignoreSuffixes = []string{
	".tmp", "~", ".pyc", ".pyo", ".o", ".a", ".so", ".dll", ".class",
	".min.js",
}

// FileInfo is one discovered source file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // slash-separated, relative to the indexed root
	Language lang.Language // detected from the file extension
}

// DiscoverOptions narrows the walk beyond the built-in ignore sets.
type DiscoverOptions struct {
	// Include globs, matched against RelPath. Empty means every
	// supported file.
	Include []string
	// Exclude globs, matched against RelPath and directory names.
	Exclude []string
	// IgnoreFile is the path to a .kgignore file; when empty, the root's
	// own .kgignore is used if present.
	IgnoreFile string
}

// Discover walks a directory tree and returns all annotatable source files.
func Discover(ctx context.Context, root string, opts *DiscoverOptions) ([]FileInfo, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &DiscoverOptions{}
	}

	exclude := opts.Exclude
	ignPath := opts.IgnoreFile
	if ignPath == "" {
		ignPath = filepath.Join(root, ".kgignore")
	}
	if extra, err := loadIgnoreFile(ignPath); err == nil {
		exclude = append(exclude, extra...)
	}

	var files []FileInfo
	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return filepath.SkipDir
		}

		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel != "." && shouldSkipDir(info.Name(), rel, exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		for _, suffix := range ignoreSuffixes {
			if strings.HasSuffix(path, suffix) {
				return nil
			}
		}
		if excluded(rel, info.Name(), exclude) {
			return nil
		}
		if len(opts.Include) > 0 && !matchesAny(rel, info.Name(), opts.Include) {
			return nil
		}

		l, ok := lang.LanguageForExtension(filepath.Ext(path))
		if !ok {
			return nil
		}
		files = append(files, FileInfo{Path: path, RelPath: rel, Language: l})
		return nil
	})
	return files, err
}

func shouldSkipDir(name, rel string, exclude []string) bool {
	if ignoreDirs[name] {
		return true
	}
	return excluded(rel, name, exclude)
}

func excluded(rel, name string, patterns []string) bool {
	return matchesAny(rel, name, patterns)
}

func matchesAny(rel, name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
		// "dir/**" style prefixes
		if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
			if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
				return true
			}
		}
	}
	return false
}

func loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}

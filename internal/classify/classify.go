// Package classify decides whether a filesystem path sits inside a
// protected structure: a VCS root, a package/project root, or an
// application bundle. The organizer never moves protected paths; the scan
// pipeline and sync count protected files and do not analyze or index them.
package classify

import (
	"os"
	"path/filepath"
	"strings"
)

// vcsRootMarkers are directory names that, on their own, mark a VCS or
// ecosystem root that must not be reorganized.
var vcsRootMarkers = map[string]bool{
	".git":          true,
	".hg":           true,
	".svn":          true,
	".bzr":          true,
	"CVS":           true,
	".fossil":       true,
	"node_modules":  true,
	"target":        true,
	"dist":          true,
	"build":         true,
	".gradle":       true,
	".mvn":          true,
	"venv":          true,
	".venv":         true,
	"__pycache__":   true,
	".pytest_cache": true,
	".tox":          true,
	".mypy_cache":   true,
}

// bundleExtensions are suffixes that mark an application bundle directory
// regardless of its base name.
var bundleExtensions = []string{
	".app",
	".framework",
	".plugin",
	".bundle",
	".kext",
	".xcarchive",
	".dSYM",
	".xcodeproj",
	".xcworkspace",
}

// manifestFiles are files whose presence inside a directory marks that
// directory as a protected project root.
var manifestFiles = []string{
	"package.json",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"Cargo.toml",
	"Cargo.lock",
	"go.mod",
	"go.sum",
	"requirements.txt",
	"setup.py",
	"pyproject.toml",
	"pom.xml",
	"build.gradle",
	"composer.json",
	"Gemfile",
	"docker-compose.yml",
	"Dockerfile",
	".gitignore",
	".gitattributes",
}

// protectedDirPatterns are child-directory names (inside a candidate
// directory) whose mere presence protects the candidate directory.
var protectedDirPatterns = []string{
	".git", ".hg", ".svn", ".bzr", ".fossil", "CVS",
	".app", ".framework", ".plugin", ".bundle", ".kext",
	".xcarchive", ".dSYM", ".xcodeproj", ".xcworkspace",
}

// maxWalkDepth bounds the ancestor walk so a pathological tree cannot make
// classification run unbounded.
const maxWalkDepth = 20

// IsBundle reports whether name carries one of the known bundle suffixes.
func IsBundle(name string) bool {
	for _, ext := range bundleExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// matchesRootMarker reports whether dir's own name is a VCS/ecosystem root
// marker or ends with a bundle extension.
func matchesRootMarker(dir string) bool {
	name := filepath.Base(dir)
	if vcsRootMarkers[name] {
		return true
	}
	return IsBundle(name)
}

// containsManifest reports whether dir directly contains a project
// manifest file or a VCS directory.
func containsManifest(dir string) bool {
	for _, m := range manifestFiles {
		if fileExists(filepath.Join(dir, m)) {
			return true
		}
	}
	for _, p := range protectedDirPatterns {
		candidate := filepath.Join(dir, p)
		if fileExists(candidate) {
			return true
		}
	}
	// A child directory ending with a bundle extension also protects dir.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() && IsBundle(e.Name()) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsProtected walks from path's containing directory up to (but not past)
// base, returning true if any ancestor matches a protected-structure rule.
// base should already be an absolute, canonicalized directory.
func IsProtected(path, base string) bool {
	info, err := os.Stat(path)
	current := path
	if err == nil && !info.IsDir() {
		current = filepath.Dir(path)
	} else if err != nil {
		current = filepath.Dir(path)
	}

	baseAbs, err := filepath.Abs(base)
	if err != nil {
		baseAbs = base
	}
	baseAbs = filepath.Clean(baseAbs)

	for depth := 0; depth < maxWalkDepth; depth++ {
		currentClean := filepath.Clean(current)

		if !strings.HasPrefix(currentClean, baseAbs) {
			return false
		}

		if matchesRootMarker(currentClean) || containsManifest(currentClean) {
			return true
		}
		if currentClean == baseAbs {
			return false
		}

		parent := filepath.Dir(currentClean)
		if parent == currentClean {
			return false
		}
		current = parent
	}
	return false
}

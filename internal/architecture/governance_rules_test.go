// Package architecture holds repo-wide governance tests: import direction
// between layers and build-tag hygiene. The rules live here as data so a
// violation message can say which direction was broken.
package architecture_test

import (
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const modulePath = "userctl"

type layerRule struct {
	sourcePrefix string
	forbidden    []string
	hint         string
}

var architectureRules = []layerRule{
	{
		sourcePrefix: modulePath + "/internal/ece",
		forbidden: []string{
			modulePath + "/internal/audit",
			modulePath + "/internal/batch",
			modulePath + "/internal/confirm",
			modulePath + "/internal/ecesim",
			modulePath + "/internal/middleware",
			modulePath + "/internal/provenance",
			modulePath + "/internal/report",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "ece is the wire layer and imports nothing above it",
	},
	{
		sourcePrefix: modulePath + "/internal/provenance",
		forbidden: []string{
			modulePath + "/internal/audit",
			modulePath + "/internal/batch",
			modulePath + "/internal/confirm",
			modulePath + "/internal/ecesim",
			modulePath + "/internal/middleware",
			modulePath + "/internal/report",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "provenance should depend on ece and provenance-local packages",
	},
	{
		sourcePrefix: modulePath + "/internal/batch",
		forbidden: []string{
			modulePath + "/internal/audit",
			modulePath + "/internal/confirm",
			modulePath + "/internal/ecesim",
			modulePath + "/internal/middleware",
			modulePath + "/internal/provenance",
			modulePath + "/internal/report",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "batch should depend on ece and batch-local packages",
	},
	{
		sourcePrefix: modulePath + "/internal/report",
		forbidden: []string{
			modulePath + "/internal/audit",
			modulePath + "/internal/confirm",
			modulePath + "/internal/ecesim",
			modulePath + "/internal/middleware",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "report renders ece, provenance, and batch results",
	},
	{
		sourcePrefix: modulePath + "/internal/audit",
		forbidden: []string{
			modulePath + "/internal/confirm",
			modulePath + "/internal/ecesim",
			modulePath + "/internal/middleware",
			modulePath + "/internal/provenance",
			modulePath + "/internal/report",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "audit records batch outcomes and nothing else",
	},
	{
		sourcePrefix: modulePath + "/internal/confirm",
		forbidden: []string{
			modulePath + "/internal",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "confirm is self-contained",
	},
	{
		sourcePrefix: modulePath + "/internal/middleware",
		forbidden: []string{
			modulePath + "/internal",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "middleware is self-contained",
	},
	{
		sourcePrefix: modulePath + "/internal/ecesim",
		forbidden: []string{
			modulePath + "/internal/audit",
			modulePath + "/internal/batch",
			modulePath + "/internal/confirm",
			modulePath + "/internal/provenance",
			modulePath + "/internal/report",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "the simulator serves ece wire types behind shared middleware",
	},
	{
		sourcePrefix: modulePath + "/pkg/cli",
		forbidden: []string{
			modulePath + "/internal/ecesim",
		},
		hint: "the CLI reaches the platform over HTTP and never embeds the simulator",
	},
}

func collectGoFiles(root string) ([]string, error) {
	files := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".go") {
			files = append(files, filepath.ToSlash(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func repoRootDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "."
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

func sourceRoots() []string {
	return []string{
		filepath.Join(repoRootDir(), "internal"),
		filepath.Join(repoRootDir(), "pkg"),
	}
}

func collectSourceFiles(t *testing.T) []string {
	t.Helper()

	files := make([]string, 0)
	for _, root := range sourceRoots() {
		found, err := collectGoFiles(root)
		require.NoError(t, err)
		files = append(files, found...)
	}
	return files
}

func findRule(sourcePkg string) (layerRule, bool) {
	for _, rule := range architectureRules {
		if hasPathPrefix(sourcePkg, rule.sourcePrefix) {
			return rule, true
		}
	}
	return layerRule{}, false
}

func matchingForbiddenPrefix(importPath string, forbidden []string) string {
	for _, prefix := range forbidden {
		if hasPathPrefix(importPath, prefix) {
			return prefix
		}
	}
	return ""
}

func hasPathPrefix(value string, prefix string) bool {
	return value == prefix || strings.HasPrefix(value, prefix+"/")
}

func packageImportPath(file string) string {
	path := filepath.ToSlash(file)
	for _, marker := range []string{"/internal/", "/pkg/"} {
		if idx := strings.Index(path, marker); idx >= 0 {
			return modulePath + filepath.ToSlash(filepath.Dir(path[idx:]))
		}
	}
	return modulePath
}

func isTestFile(path string) bool {
	return strings.HasSuffix(filepath.Base(path), "_test.go")
}

func parseImports(t *testing.T, file string) []string {
	t.Helper()

	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, file, nil, parser.ImportsOnly)
	require.NoErrorf(t, err, "parse imports for %s", file)

	imports := make([]string, 0, len(parsed.Imports))
	for _, imp := range parsed.Imports {
		imports = append(imports, strings.Trim(imp.Path.Value, "\""))
	}
	return imports
}

func relToRepoRoot(path string) string {
	rel, err := filepath.Rel(repoRootDir(), path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func hasIntegrationBuildTag(filePath string) bool {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return false
	}
	return strings.Contains(string(content), "//go:build integration")
}

package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "tokengate"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerPolicy lists the import prefixes a layer may use beyond the standard
// library.
type layerPolicy struct {
	local      []string
	thirdParty []string
}

var policies = map[string]layerPolicy{
	"domain": {
		local: []string{"/domain"},
		thirdParty: []string{
			"github.com/mr-tron/base58",
			"github.com/shopspring/decimal",
		},
	},
	"application": {
		local: []string{"/application", "/domain", "/ports"},
		thirdParty: []string{
			modulePath + "/contracts",
			"go.opentelemetry.io/otel",
		},
	},
	"ports": {
		local: []string{"/domain"},
		thirdParty: []string{
			modulePath + "/contracts",
		},
	},
}

func main() {
	root := "contexts"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}
	violations, err := collectViolations(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "boundary check failed: %v\n", err)
		os.Exit(2)
	}
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectViolations walks root, which must be laid out as
// <root>/<context>/<service>/<layer>/..., and returns sorted violations.
func collectViolations(root string) ([]violation, error) {
	var violations []violation

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 4 {
			return nil
		}

		servicePrefix := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[0], parts[1])
		violations = append(violations, validateFile(path, filepath.ToSlash(path), parts[2], servicePrefix)...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File == violations[j].File {
			if violations[i].Line == violations[j].Line {
				return violations[i].Import < violations[j].Import
			}
			return violations[i].Line < violations[j].Line
		}
		return violations[i].File < violations[j].File
	})
	return violations, nil
}

func validateFile(path string, normalizedPath string, layer string, servicePrefix string) []violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: normalizedPath, Line: 1, Rule: "file must parse"}}
	}

	var violations []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		v := violation{File: normalizedPath, Line: fset.Position(imp.Pos()).Line, Import: importPath}

		if hasPrefix(importPath, modulePath+"/contexts") && !hasPrefix(importPath, servicePrefix) {
			v.Rule = "cross-module imports are forbidden"
			violations = append(violations, v)
			continue
		}

		policy, ok := policies[layer]
		if !ok || isStdlib(importPath) {
			continue
		}
		switch {
		case strings.Contains(importPath, "/adapters/") || strings.HasSuffix(importPath, "/adapters"):
			v.Rule = layer + " must not import adapters"
		case hasPrefix(importPath, modulePath+"/internal"):
			v.Rule = layer + " must not import runtime infrastructure"
		case !policy.allows(importPath, servicePrefix):
			v.Rule = layer + " import is outside explicit allowlist"
		default:
			continue
		}
		violations = append(violations, v)
	}
	return violations
}

func (p layerPolicy) allows(importPath string, servicePrefix string) bool {
	for _, local := range p.local {
		if hasPrefix(importPath, servicePrefix+local) {
			return true
		}
	}
	for _, prefix := range p.thirdParty {
		if hasPrefix(importPath, prefix) {
			return true
		}
	}
	return false
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}

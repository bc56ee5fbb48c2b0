// Package manifest reads the dependency manifest (requirements.txt
// format): one specifier per line, hash comments, blank lines ignored.
// Resolution semantics belong to the package installer; this package
// only normalizes what the build forwards to it.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dkaya/portside/internal/core/domain"
)

// Constraint operators, longest first so ">=" wins over ">".
var operators = []string{"==", ">=", "<=", "~=", "!=", ">", "<"}

// ParseFile reads and parses the manifest at path.
func ParseFile(path string) (domain.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()
	m, err := Parse(f)
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse reads one specifier per line, preserving declaration order.
// Duplicate package names are rejected: the installer would resolve
// them nondeterministically, which breaks rebuild identity.
func Parse(r io.Reader) (domain.Manifest, error) {
	var m domain.Manifest
	seen := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		dep, err := parseSpecifier(line)
		if err != nil {
			return domain.Manifest{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		key := strings.ToLower(dep.Name)
		if prev, ok := seen[key]; ok {
			return domain.Manifest{}, fmt.Errorf("line %d: duplicate dependency %q (first declared on line %d)", lineNo, dep.Name, prev)
		}
		seen[key] = lineNo
		m.Dependencies = append(m.Dependencies, dep)
	}
	if err := scanner.Err(); err != nil {
		return domain.Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	return m, nil
}

func parseSpecifier(line string) (domain.Dependency, error) {
	// Collapse internal whitespace so "flask >= 2.0" and "flask>=2.0"
	// produce the same dependency.
	line = strings.Join(strings.Fields(line), "")

	for _, op := range operators {
		if i := strings.Index(line, op); i >= 0 {
			name, constraint := line[:i], line[i:]
			if name == "" {
				return domain.Dependency{}, fmt.Errorf("specifier %q has no package name", line)
			}
			if constraint == op {
				return domain.Dependency{}, fmt.Errorf("specifier %q has an empty version constraint", line)
			}
			return domain.Dependency{Name: name, Constraint: constraint}, nil
		}
	}
	return domain.Dependency{Name: line}, nil
}

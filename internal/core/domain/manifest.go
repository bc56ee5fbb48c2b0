package domain

// Dependency is one line of the dependency manifest: a package name and
// an optional version constraint, forwarded verbatim to the installer.
type Dependency struct {
	Name       string `json:"name"`
	Constraint string `json:"constraint,omitempty"`
}

// Specifier reassembles the line the installer will see.
func (d Dependency) Specifier() string {
	return d.Name + d.Constraint
}

// Manifest is the ordered dependency list, read once at build time and
// immutable for the life of the image.
type Manifest struct {
	Dependencies []Dependency `json:"dependencies"`
}

// IsEmpty reports whether the build needs a dependency-install layer at
// all. An empty manifest is a valid build input.
func (m Manifest) IsEmpty() bool {
	return len(m.Dependencies) == 0
}

// Specifiers returns the manifest lines in declaration order.
func (m Manifest) Specifiers() []string {
	out := make([]string, 0, len(m.Dependencies))
	for _, d := range m.Dependencies {
		out = append(out, d.Specifier())
	}
	return out
}

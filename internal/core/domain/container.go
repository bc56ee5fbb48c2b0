package domain

// Container represents a container in the system (Docker, K8s, etc.)
type Container struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Status    string `json:"status"`
	State     string `json:"state"` // running, exited, etc.
	IPAddress string `json:"ip_address,omitempty"`
	// Port is the declared application port recovered from the image
	// label. Zero when the container was not built by this harness.
	Port int `json:"port,omitempty"`
}

// BuildResult is what a finished build reports back: the image identity
// plus the contract metadata stamped onto it.
type BuildResult struct {
	ImageID      string       `json:"image_id"`
	Tag          string       `json:"tag"`
	Fingerprint  string       `json:"fingerprint"`
	Port         int          `json:"port"`
	Command      []string     `json:"command"`
	Dependencies []Dependency `json:"dependencies"`
}

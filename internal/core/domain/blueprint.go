package domain

import (
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"
)

// Image labels written at build time. Containers inherit them from the
// image, so the proxy and the API can recover the declared port without
// re-reading the blueprint.
const (
	LabelManaged     = "sh.portside.managed"
	LabelFingerprint = "sh.portside.fingerprint"
	LabelPort        = "sh.portside.port"
	LabelCommand     = "sh.portside.command"
)

// Blueprint is the immutable build record: everything the harness needs
// to produce an image and nothing about what the application does.
// It is constructed once per build, validated, and passed by value into
// the build pipeline; nothing mutates it afterwards.
type Blueprint struct {
	BaseImage    string `json:"base_image"`
	WorkDir      string `json:"work_dir"`
	ManifestName string `json:"manifest_name"`
	EntryFile    string `json:"entry_file"`
	Interpreter  string `json:"interpreter"`
	Port         int    `json:"port"`
	UpgradeOS    bool   `json:"upgrade_os"`
}

// Validate checks the blueprint before any build step runs, so a bad
// record fails fast instead of at some step deep in the pipeline.
func (b Blueprint) Validate() error {
	if b.BaseImage == "" {
		return fmt.Errorf("blueprint: base image is required")
	}
	if !strings.HasPrefix(b.WorkDir, "/") {
		return fmt.Errorf("blueprint: work dir %q must be an absolute path", b.WorkDir)
	}
	if err := validateRootFile("manifest", b.ManifestName); err != nil {
		return err
	}
	if err := validateRootFile("entry file", b.EntryFile); err != nil {
		return err
	}
	if b.Interpreter == "" {
		return fmt.Errorf("blueprint: interpreter is required")
	}
	if b.Port < 1 || b.Port > 65535 {
		return fmt.Errorf("blueprint: port %d out of range", b.Port)
	}
	return nil
}

// Both the manifest and the entry file live at the project root; a path
// with separators would silently change the build context layout.
func validateRootFile(what, name string) error {
	if name == "" {
		return fmt.Errorf("blueprint: %s name is required", what)
	}
	if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return fmt.Errorf("blueprint: %s name %q must be a bare file name", what, name)
	}
	return nil
}

// Command returns the launch command exactly as the container will run
// it: interpreter then entry file, no extra arguments.
func (b Blueprint) Command() []string {
	return []string{b.Interpreter, b.EntryFile}
}

// Fingerprint digests the blueprint together with the manifest and
// entry file contents. Identical inputs always produce the identical
// digest, which is stamped on the image and compared across rebuilds.
func (b Blueprint) Fingerprint(manifest, entry []byte) digest.Digest {
	var sb strings.Builder
	fmt.Fprintf(&sb, "base=%s\nworkdir=%s\nmanifest=%s\nentry=%s\ninterpreter=%s\nport=%d\nupgrade=%t\n",
		b.BaseImage, b.WorkDir, b.ManifestName, b.EntryFile, b.Interpreter, b.Port, b.UpgradeOS)
	fmt.Fprintf(&sb, "manifest-bytes=%d\n", len(manifest))
	sb.Write(manifest)
	fmt.Fprintf(&sb, "\nentry-bytes=%d\n", len(entry))
	sb.Write(entry)
	return digest.FromString(sb.String())
}

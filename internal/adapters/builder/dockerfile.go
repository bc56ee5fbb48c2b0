package builder

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/dkaya/portside/internal/core/domain"
)

// dockerfileTemplate is the whole provisioning pipeline: base runtime,
// working directory, OS patching, dependency install, entry file, port
// metadata, launch command. The OS index cache and the installer cache
// are both discarded in the same layer that creates them so they never
// reach the image.
const dockerfileTemplate = `FROM {{.BaseImage}}
WORKDIR {{.WorkDir}}
{{- if .UpgradeOS}}
RUN apt-get update && apt-get upgrade -y && rm -rf /var/lib/apt/lists/*
{{- end}}
COPY {{.ManifestName}} .
{{- if .HasDependencies}}
RUN pip install --no-cache-dir -r {{.ManifestName}}
{{- end}}
COPY {{.EntryFile}} .
EXPOSE {{.Port}}
CMD ["{{.Interpreter}}", "{{.EntryFile}}"]
`

var dockerfileTmpl = template.Must(template.New("dockerfile").Parse(dockerfileTemplate))

// RenderDockerfile produces the build file for a blueprint. Rendering
// is pure: the same blueprint and manifest always yield byte-identical
// output. The dependency-install layer is omitted entirely when the
// manifest is empty.
func RenderDockerfile(bp domain.Blueprint, m domain.Manifest) (string, error) {
	data := struct {
		domain.Blueprint
		HasDependencies bool
	}{bp, !m.IsEmpty()}

	var sb strings.Builder
	if err := dockerfileTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render dockerfile: %w", err)
	}
	return sb.String(), nil
}

package module

import (
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// BuildDescriptorFileName is the build-system declaration of a module.
const BuildDescriptorFileName = "Android.bp"

const buildDescriptorTemplate = `{{ range .License }}//{{ if . }} {{ . }}{{ end }}
{{ end }}
// {{ .Marker }}

csuite_config {
    name: {{ .ModuleName | quote }},
}
`

var buildTemplate = template.Must(
	template.New(BuildDescriptorFileName).Funcs(sprig.TxtFuncMap()).Parse(buildDescriptorTemplate),
)

type buildData struct {
	License    []string
	Marker     string
	ModuleName string
}

// WriteBuildDescriptor renders the build descriptor for pkg to w.
func (t Template) WriteBuildDescriptor(w io.Writer, pkg string) error {
	return buildTemplate.Execute(w, buildData{
		License:    licenseLines,
		Marker:     AutoGeneratedMarker,
		ModuleName: t.ModuleName(pkg),
	})
}

// BuildDescriptor returns the build descriptor for pkg as a string.
func (t Template) BuildDescriptor(pkg string) (string, error) {
	var sb strings.Builder
	if err := t.WriteBuildDescriptor(&sb, pkg); err != nil {
		return "", err
	}
	return sb.String(), nil
}

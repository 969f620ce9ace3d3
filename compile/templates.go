package compile

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"xcss/config"
	"xcss/source"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Name       string // document name, may be empty
	SourceFile string // source file name without extension
	Style      string
}

func expandTemplate(f *source.File, name config.TemplateFieldName, field string, cfg *config.Config) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Name:       f.Name,
		SourceFile: strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path)),
		Style:      cfg.Compiler.Output.Style.String(),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

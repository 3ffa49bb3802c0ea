package convert

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"u2s/config"
	"u2s/rules"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context string
	// Name is the domain or configured label for global rules
	Name   string
	Domain string
	Global bool
	Format string
	Rules  int
}

func styleValues(name config.TemplateFieldName, key, globalName string, rs []rules.Rule, format string) Values {
	v := Values{
		Context: string(name),
		Name:    key,
		Domain:  key,
		Format:  format,
		Rules:   len(rs),
	}
	if key == rules.Global {
		v.Name, v.Global = globalName, true
	}
	return v
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values.Context = string(name)

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

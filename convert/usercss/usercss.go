// Package usercss renders grouped cosmetic rules as UserCSS documents which
// could be installed by Stylus and other userstyle managers.
package usercss

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"u2s/rules"
)

const indent = "    "

// Header is UserCSS metadata block. Empty optional fields are omitted.
type Header struct {
	Name        string
	Namespace   string
	Version     string
	Description string
	Author      string
	License     string
}

func (h *Header) writeTo(b *strings.Builder) {
	b.WriteString("/* ==UserStyle==\n")
	for _, f := range [...]struct{ key, value string }{
		{"name", h.Name},
		{"namespace", h.Namespace},
		{"version", h.Version},
		{"description", h.Description},
		{"author", h.Author},
		{"license", h.License},
	} {
		if len(f.value) == 0 {
			continue
		}
		// header values are single line
		fmt.Fprintf(b, "@%-15s%s\n", f.key, strings.Join(strings.Fields(f.value), " "))
	}
	b.WriteString("==/UserStyle== */\n")
}

// Document is single rendered user style.
type Document struct {
	Key  string // domain or rules.Global
	Name string
	Code string
}

// Render produces UserCSS text for rules of a single key. Domain rules are
// wrapped into domain() section, global rules into section matching every
// URL.
func Render(h Header, key string, rs []rules.Rule, merge bool) string {
	var b strings.Builder
	h.writeTo(&b)
	b.WriteString("\n")

	if key == rules.Global {
		b.WriteString(`@-moz-document regexp(".*") {`)
	} else {
		b.WriteString(`@-moz-document domain("` + quote(key) + `") {`)
	}
	b.WriteString("\n")
	for _, r := range rules.CSS(rs, merge) {
		b.WriteString(r.Format(indent))
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// quote escapes text for use inside double quoted CSS string.
func quote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// Generator renders documents for every key of a group.
type Generator struct {
	// Header fields shared by all documents, Name is produced by NameFor.
	Header         Header
	MergeSelectors bool
	// NameFor returns style name for the key.
	NameFor func(key string, rs []rules.Rule) (string, error)
}

// Generate renders documents in group key order, global style is the last
// one.
func (g *Generator) Generate(ctx context.Context, group *rules.Group, log *zap.Logger) ([]Document, error) {
	docs := make([]Document, 0, group.Len())
	for key, rs := range group.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, err := g.NameFor(key, rs)
		if err != nil {
			return nil, fmt.Errorf("unable to prepare name for %q: %w", key, err)
		}
		h := g.Header
		h.Name = name
		docs = append(docs, Document{Key: key, Name: name, Code: Render(h, key, rs, g.MergeSelectors)})
		log.Debug("User style generated", zap.String("name", name), zap.Int("rules", len(rs)))
	}
	return docs, nil
}

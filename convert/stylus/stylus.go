// Package stylus produces Stylus backup (JSON) which could be imported into
// the extension in one go.
package stylus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"u2s/rules"
)

const (
	globalComment = "/* Global rules converted from uBlock Origin */"
	wwwPrefix     = "www."
)

// Settings is opaque settings object Stylus expects as the first element of
// backup. Values are fixed.
type Settings struct {
	Settings struct {
		DisableAll        bool   `json:"disableAll"`
		ExposeIframes     bool   `json:"exposeIframes"`
		NewStyleAsUsercss bool   `json:"newStyleAsUsercss"`
		OpenEditInWindow  bool   `json:"openEditInWindow"`
		ShowBadge         bool   `json:"show-badge"`
		StyleViaASS       bool   `json:"styleViaASS"`
		URLInstaller      bool   `json:"urlInstaller"`
		SyncEnabled       string `json:"sync.enabled"`
		UpdateInterval    int    `json:"updateInterval"`
	} `json:"settings"`
	Order struct {
		Main []string `json:"main"`
		Prio []string `json:"prio"`
	} `json:"order"`
}

func defaultSettings() *Settings {
	s := &Settings{}
	s.Settings.ShowBadge = true
	s.Settings.URLInstaller = true
	s.Settings.SyncEnabled = "none"
	s.Settings.UpdateInterval = 24
	s.Order.Main, s.Order.Prio = []string{}, []string{}
	return s
}

// Section is part of the style applied to listed domains, empty list means
// everywhere.
type Section struct {
	Code    string   `json:"code"`
	Domains []string `json:"domains"`
}

// Style is single style entry of the backup.
type Style struct {
	Enabled     bool      `json:"enabled"`
	InstallDate int64     `json:"installDate"`
	Name        string    `json:"name"`
	Sections    []Section `json:"sections"`
	UpdateDate  int64     `json:"updateDate"`
	UID         string    `json:"_id"`
	Rev         int64     `json:"_rev"`
	ID          int       `json:"id"`
}

// Exporter builds backups from grouped rules.
type Exporter struct {
	// GlobalName is the name of style with global rules.
	GlobalName     string
	MergeSelectors bool

	// replaceable for testing
	Now   func() time.Time
	NewID func() (uuid.UUID, error)
}

// NewExporter returns exporter which uses wall clock and random UUIDs.
func NewExporter(globalName string, merge bool) *Exporter {
	return &Exporter{
		GlobalName:     globalName,
		MergeSelectors: merge,
		Now:            time.Now,
		NewID:          uuid.NewRandom,
	}
}

// Domains lists domains style for the key applies to. Bare domains get their
// "www." variant, global key applies everywhere.
func Domains(key string) []string {
	switch {
	case key == rules.Global:
		return []string{}
	case strings.HasPrefix(key, wwwPrefix):
		return []string{key}
	default:
		return []string{key, wwwPrefix + key}
	}
}

// Code renders section code: leading comment naming the domain, empty line
// and rules one per line.
func Code(key string, rs []rules.Rule, merge bool) string {
	var b strings.Builder
	if key == rules.Global {
		b.WriteString(globalComment)
	} else {
		b.WriteString("/* Rules for " + strings.ReplaceAll(key, "*/", "*_/") + " */")
	}
	b.WriteString("\n\n")
	for i, r := range rules.CSS(rs, merge) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.String())
	}
	return b.String()
}

// Build returns backup entries: settings followed by one style per key in
// group order. Style ids are sequential starting with 1.
func (e *Exporter) Build(ctx context.Context, g *rules.Group, log *zap.Logger) (*Settings, []Style, error) {
	now := e.Now().UnixMilli()
	styles := make([]Style, 0, g.Len())
	for key, rs := range g.All() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		id, err := e.NewID()
		if err != nil {
			return nil, nil, fmt.Errorf("unable to generate style id: %w", err)
		}
		name := key
		if key == rules.Global {
			name = e.GlobalName
		}
		styles = append(styles, Style{
			Enabled:     true,
			InstallDate: now,
			Name:        name,
			Sections:    []Section{{Code: Code(key, rs, e.MergeSelectors), Domains: Domains(key)}},
			UpdateDate:  now,
			UID:         id.String(),
			Rev:         now,
			ID:          len(styles) + 1,
		})
		log.Debug("Stylus style prepared", zap.String("name", name), zap.Int("rules", len(rs)))
	}
	return defaultSettings(), styles, nil
}

// Marshal produces backup JSON, pretty printed with 2 spaces indentation.
func (e *Exporter) Marshal(ctx context.Context, g *rules.Group, log *zap.Logger) ([]byte, error) {
	settings, styles, err := e.Build(ctx, g, log)
	if err != nil {
		return nil, err
	}

	backup := make([]any, 0, len(styles)+1)
	backup = append(backup, settings)
	for _, s := range styles {
		backup = append(backup, s)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// selectors are full of '>' and '&'
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(backup); err != nil {
		return nil, fmt.Errorf("unable to encode stylus backup: %w", err)
	}
	return buf.Bytes(), nil
}

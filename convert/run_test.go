package convert

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"u2s/common"
)

func TestProcess_UserCSS(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := writeList(t, t.TempDir(), "list.txt", exampleList)
	dst := filepath.Join(t.TempDir(), "styles")

	if err := process(ctx, []string{src}, dst, common.OutputFmtUsercss, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	entries, err := os.ReadDir(dst)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if diff := cmp.Diff([]string{"Global_Rules.user.css", "example.com.user.css"}, names); diff != "" {
		t.Errorf("output files mismatch (-want +got):\n%s", diff)
	}

	doc := readFile(t, filepath.Join(dst, "example.com.user.css"))
	for _, want := range []string{
		"@name           example.com - Cleanup\n",
		"@namespace      ublock-to-stylus-converter\n",
		"@-moz-document domain(\"example.com\") {\n",
		"    .ad-banner { display: none !important; }\n",
		"    .popup { display: none !important; opacity: 0; }\n",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("example.com document does not contain %q:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "tracking.com") || strings.Contains(doc, "global-advertisement") {
		t.Errorf("example.com document contains foreign rules:\n%s", doc)
	}

	global := readFile(t, filepath.Join(dst, "Global_Rules.user.css"))
	if !strings.Contains(global, "@name           Global Rules - Cleanup\n") ||
		!strings.Contains(global, "@-moz-document regexp(\".*\") {\n    .global-advertisement { display: none !important; }\n}\n") {
		t.Errorf("unexpected global document:\n%s", global)
	}
}

func TestProcess_Overwrite(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := writeList(t, t.TempDir(), "list.txt", "a.com##.x\nb.com##.y\n")
	dst := t.TempDir()
	writeList(t, dst, "a.com.user.css", "old")

	err := process(ctx, []string{src}, dst, common.OutputFmtUsercss, env.Log)
	if err == nil || !strings.Contains(err.Error(), "unable to export user styles") {
		t.Fatalf("process() error = %v, want export error", err)
	}
	// other files are still written
	if _, err := os.Stat(filepath.Join(dst, "b.com.user.css")); err != nil {
		t.Errorf("b.com.user.css should be written: %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "a.com.user.css")); got != "old" {
		t.Errorf("existing file was replaced without overwrite")
	}

	env.Overwrite = true
	if err := process(ctx, []string{src}, dst, common.OutputFmtUsercss, env.Log); err != nil {
		t.Fatalf("process() with overwrite error = %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "a.com.user.css")); !strings.Contains(got, ".x { display: none !important; }") {
		t.Errorf("a.com.user.css was not replaced:\n%s", got)
	}
}

func TestProcess_Zip(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Output.FixZip = true
	src := writeList(t, t.TempDir(), "list.txt", exampleList+"a:b.com##.z\n")
	dst := filepath.Join(t.TempDir(), "bundle.zip")

	if err := process(ctx, []string{src}, dst, common.OutputFmtZip, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	r, err := zip.OpenReader(dst)
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
		if f.Name != "example.com.user.css" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		if !strings.Contains(string(data), "    .popup { display: none !important; opacity: 0; }\n") {
			t.Errorf("unexpected document in archive:\n%s", data)
		}
	}
	want := []string{"example.com.user.css", "a_b.com.user.css", "Global_Rules.user.css"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("archive entries mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_JSON(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := writeList(t, t.TempDir(), "list.txt", exampleList)
	dst := t.TempDir()

	if err := process(ctx, []string{src}, dst, common.OutputFmtJson, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dst, "stylus_import_*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected single backup file, got %v (%v)", matches, err)
	}

	var backup []struct {
		Name     string `json:"name"`
		ID       int    `json:"id"`
		Sections []struct {
			Code    string   `json:"code"`
			Domains []string `json:"domains"`
		} `json:"sections"`
	}
	if err := json.Unmarshal([]byte(readFile(t, matches[0])), &backup); err != nil {
		t.Fatalf("invalid backup: %v", err)
	}
	if len(backup) != 3 {
		t.Fatalf("backup has %d elements, want 3", len(backup))
	}

	domain, global := backup[1], backup[2]
	if domain.Name != "example.com" || domain.ID != 1 {
		t.Errorf("unexpected domain style: %+v", domain)
	}
	if diff := cmp.Diff([]string{"example.com", "www.example.com"}, domain.Sections[0].Domains); diff != "" {
		t.Errorf("domains mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(domain.Sections[0].Code, "/* Rules for example.com */\n\n") {
		t.Errorf("unexpected code: %q", domain.Sections[0].Code)
	}
	if global.Name != "Global" || global.ID != 2 || global.Sections[0].Domains == nil || len(global.Sections[0].Domains) != 0 {
		t.Errorf("unexpected global style: %+v", global)
	}
}

func TestProcess_NoRules(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := writeList(t, t.TempDir(), "list.txt", "! only comments\n||ads.example.com^\n")

	err := process(ctx, []string{src}, t.TempDir(), common.OutputFmtUsercss, env.Log)
	if !errors.Is(err, ErrNoRules) {
		t.Errorf("process() error = %v, want %v", err, ErrNoRules)
	}
}

func TestProcess_MissingSource(t *testing.T) {
	ctx, env := setupTestEnv(t)
	err := process(ctx, []string{filepath.Join(t.TempDir(), "absent.txt")}, t.TempDir(), common.OutputFmtUsercss, env.Log)
	if err == nil {
		t.Error("process() expected error for missing source")
	}
}

func TestPrepare_Options(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := writeList(t, t.TempDir(), "list.txt", "b10.com##.x\nb9.com##.x\nb9.com##.x\n##.g\n")

	env.Cfg.Conversion.Dedupe = false
	_, group, _, err := prepare(ctx, []string{src}, env.Log)
	if err != nil {
		t.Fatalf("prepare() error = %v", err)
	}
	if n := len(group.Rules("b9.com")); n != 2 {
		t.Errorf("without dedupe b9.com has %d rules, want 2", n)
	}
	if diff := cmp.Diff([]string{"b10.com", "b9.com", ""}, group.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	env.Cfg.Conversion.Dedupe, env.Cfg.Conversion.SortDomains = true, true
	_, group, _, err = prepare(ctx, []string{src}, env.Log)
	if err != nil {
		t.Fatalf("prepare() error = %v", err)
	}
	if n := len(group.Rules("b9.com")); n != 1 {
		t.Errorf("with dedupe b9.com has %d rules, want 1", n)
	}
	if diff := cmp.Diff([]string{"b9.com", "b10.com", ""}, group.Keys()); diff != "" {
		t.Errorf("sorted keys mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepare_Stdin(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Stdin = strings.NewReader(exampleList)

	in, group, stats, err := prepare(ctx, []string{"-"}, env.Log)
	if err != nil {
		t.Fatalf("prepare() error = %v", err)
	}
	if in.Len() != 4 || stats.Rules != 3 || stats.Network != 1 {
		t.Errorf("unexpected result: lines=%d stats=%+v", in.Len(), stats)
	}
	keys := group.Keys()
	sort.Strings(keys)
	if diff := cmp.Diff([]string{"", "example.com"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepare_NegatedDomain(t *testing.T) {
	ctx, env := setupTestEnv(t)
	core, logs := observer.New(zap.DebugLevel)
	env.Log = zap.New(core)
	env.Stdin = strings.NewReader("a.com,~sub.a.com##.x\nb.com##.y\n")

	_, group, stats, err := prepare(ctx, []string{"-"}, env.Log)
	if err != nil {
		t.Fatalf("prepare() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a.com", "~sub.a.com", "b.com"}, group.Domains()); diff != "" {
		t.Errorf("domains mismatch (-want +got):\n%s", diff)
	}
	if stats.Domains != 3 {
		t.Errorf("stats.Domains = %d, want 3", stats.Domains)
	}

	negated := logs.FilterMessage("Negated domain used as is").All()
	if len(negated) != 1 {
		t.Fatalf("expected single negated domain entry, got %d", len(negated))
	}
	if d := negated[0].ContextMap()["domain"]; d != "~sub.a.com" {
		t.Errorf("logged domain = %v, want ~sub.a.com", d)
	}
}

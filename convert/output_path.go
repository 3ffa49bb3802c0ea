package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"u2s/common"
	"u2s/config"
	"u2s/rules"
	"u2s/state"
)

// globalFileBase is reserved file name for global rules.
const globalFileBase = "Global_Rules"

var fallbackNames = map[common.OutputFmt]string{
	common.OutputFmtZip:  "stylus_filters",
	common.OutputFmtJson: "stylus_import",
}

// portableName replaces characters which are not allowed in file names on
// any of the supported systems, so bundles could be unpacked everywhere.
func portableName(in string) string {
	return strings.Map(func(sym rune) rune {
		if sym < ' ' || sym == 0x7f || strings.ContainsRune(`<>:"/\|?*`, sym) {
			return '_'
		}
		return sym
	}, in)
}

func cleanName(name string, transliterate bool) string {
	if transliterate {
		name = slug.Make(name)
	}
	return config.CleanFileName(portableName(name))
}

// styleFileNames maps every key of the group to a unique file name with
// extension ext. Global rules always get reserved name. Names are compared
// case insensitively, later keys get "-2", "-3"... suffixes.
func styleFileNames(keys []string, ext string, transliterate bool) map[string]string {
	names := make(map[string]string, len(keys))
	taken := make(map[string]struct{}, len(keys))
	if slices.Contains(keys, rules.Global) {
		names[rules.Global] = globalFileBase + ext
		taken[strings.ToLower(globalFileBase+ext)] = struct{}{}
	}
	for _, key := range keys {
		if key == rules.Global {
			continue
		}
		base := cleanName(key, transliterate)
		name := base + ext
		for n := 2; ; n++ {
			if _, ok := taken[strings.ToLower(name)]; !ok {
				break
			}
			name = base + "-" + strconv.Itoa(n) + ext
		}
		taken[strings.ToLower(name)] = struct{}{}
		names[key] = name
	}
	return names
}

// resolveDestination returns absolute destination: command line value,
// configured output directory or working directory, in that order.
func resolveDestination(dst string, env *state.LocalEnv) (string, error) {
	if len(dst) == 0 {
		dst = env.Cfg.Output.Directory
	}
	if len(dst) == 0 {
		var err error
		if dst, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	return filepath.Abs(dst)
}

// buildOutputPath returns output file for single file formats. Destination
// which is an existing directory or does not have format extension is
// treated as directory and file name is produced from template.
func buildOutputPath(dst string, format common.OutputFmt, env *state.LocalEnv) (string, error) {
	ext := format.Ext()
	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		return filepath.Join(dst, defaultOutputName(format, env)+ext), nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if strings.EqualFold(filepath.Ext(dst), ext) {
		return dst, nil
	}
	return filepath.Join(dst, defaultOutputName(format, env)+ext), nil
}

func defaultOutputName(format common.OutputFmt, env *state.LocalEnv) string {
	field, tmpl := config.ArchiveNameTemplateFieldName, env.Cfg.Output.ArchiveNameTemplate
	if format == common.OutputFmtJson {
		field, tmpl = config.JSONNameTemplateFieldName, env.Cfg.Output.JSONNameTemplate
	}

	name, err := expandTemplate(field, tmpl, Values{Format: format.String()})
	if err == nil {
		name = strings.TrimSpace(name)
	}
	if err != nil || len(name) == 0 {
		env.Log.Warn("Unable to prepare output filename, using default", zap.String("template", tmpl), zap.Error(err))
		name = fallbackNames[format]
	}
	return cleanName(name, env.Cfg.Output.FileNameTransliterate)
}

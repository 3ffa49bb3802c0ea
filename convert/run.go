// Package convert implements program commands: reading filter lists,
// grouping cosmetic rules and exporting them in requested format.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"u2s/common"
	"u2s/config"
	"u2s/content"
	"u2s/convert/bundle"
	"u2s/convert/stylus"
	"u2s/convert/usercss"
	"u2s/filter"
	"u2s/misc"
	"u2s/rules"
	"u2s/state"
)

// ErrNoRules is returned when there is nothing to export.
var ErrNoRules = errors.New("no valid cosmetic (##) rules found")

// Run is the action of "convert" command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	format, err := common.ParseOutputFmt(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown output format requested, switching to usercss", zap.Error(err))
		format = common.OutputFmtUsercss
	}
	env.Overwrite = cmd.Bool("overwrite")
	if cp := cmd.String("input-cp"); len(cp) > 0 {
		env.Cfg.Input.CodePage = cp
	}

	dst, err := resolveDestination(cmd.String("out"), env)
	if err != nil {
		return err
	}
	sources := cmd.Args().Slice()

	log.Info("Processing starting", zap.Strings("sources", sources), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, sources, dst, format, log)
}

// process handles the core conversion logic independently of CLI framework.
func process(ctx context.Context, sources []string, dst string, format common.OutputFmt, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	_, group, stats, err := prepare(ctx, sources, log)
	if err != nil {
		return err
	}
	if group.Empty() {
		return ErrNoRules
	}

	var outputs []string
	switch format {
	case common.OutputFmtUsercss:
		outputs, err = exportUserCSS(ctx, group, dst, log)
	case common.OutputFmtZip:
		outputs, err = exportBundle(ctx, group, dst, log)
	case common.OutputFmtJson:
		outputs, err = exportStylus(ctx, group, dst, log)
	}
	styles := len(outputs)
	if format.SingleFile() {
		styles = group.Len()
	}

	// outputs may be replaced by later runs, report keeps their copies
	for _, name := range outputs {
		if er := env.Rpt.StoreCopy(filepath.Join("output", filepath.Base(name)), name); er != nil {
			log.Warn("Unable to add output to debug report", zap.String("file", name), zap.Error(er))
		}
	}
	if err != nil {
		return err
	}

	log.Info("Conversion completed",
		zap.Int("styles", styles), zap.Int("rules", group.RuleCount()),
		zap.Int("invalid", stats.Invalid), zap.Int("network", stats.Network),
		zap.Strings("output", outputs))
	return nil
}

// prepare loads all sources, computes statistics and groups cosmetic rules
// applying configured post-processing.
func prepare(ctx context.Context, sources []string, log *zap.Logger) (*content.Input, *rules.Group, filter.Stats, error) {
	env := state.EnvFromContext(ctx)

	loader, err := content.NewLoader(env.Cfg.Input.MaxSize, env.Cfg.Input.CodePage, log)
	if err != nil {
		return nil, nil, filter.Stats{}, err
	}
	loader.Stdin = env.Stdin

	in, err := loader.Load(ctx, sources...)
	if err != nil {
		return nil, nil, filter.Stats{}, fmt.Errorf("unable to load filters: %w", err)
	}

	for i, list := range in.Lists {
		env.Rpt.StoreData(fmt.Sprintf("input/%03d-%s", i+1, config.CleanFileName(filepath.Base(list.Source))), []byte(strings.Join(list.Lines, "\n")))
	}

	stats := filter.ComputeStats(in.Lines())
	for line, res := range in.Classified() {
		switch res.Kind {
		case filter.KindInvalid:
			log.Debug("Invalid filter skipped",
				zap.String("source", line.Source), zap.Int("line", line.Num), zap.String("reason", res.Reason), zap.String("text", line.Text))
		case filter.KindNetwork:
			log.Debug("Network filter skipped",
				zap.String("source", line.Source), zap.Int("line", line.Num), zap.String("reason", res.Reason))
		case filter.KindDomain:
			// negation could not be expressed in domain(), entry is used verbatim
			for _, d := range res.Domains {
				if strings.HasPrefix(d, "~") {
					log.Debug("Negated domain used as is",
						zap.String("source", line.Source), zap.Int("line", line.Num), zap.String("domain", d))
				}
			}
		}
	}
	group := rules.Build(in.Results())
	if env.Cfg.Conversion.Dedupe {
		group.Dedupe()
	}
	if env.Cfg.Conversion.SortDomains {
		group.SortDomains()
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("rules.txt", []byte(group.String()))
	}

	log.Debug("Filters classified",
		zap.Int("lines", in.Len()), zap.Int("rules", stats.Rules), zap.Int("domains", stats.Domains),
		zap.Int("global", stats.Global), zap.Int("styles", stats.Styles),
		zap.Int("network", stats.Network), zap.Int("invalid", stats.Invalid))
	return in, group, stats, nil
}

func userStyleGenerator(format common.OutputFmt, env *state.LocalEnv) *usercss.Generator {
	cfg := &env.Cfg.UserCSS
	return &usercss.Generator{
		Header: usercss.Header{
			Namespace:   cfg.Namespace,
			Version:     cfg.Version,
			Description: cfg.Description,
			Author:      cfg.Author,
			License:     cfg.License,
		},
		MergeSelectors: env.Cfg.Conversion.MergeSelectors,
		NameFor: func(key string, rs []rules.Rule) (string, error) {
			values := styleValues(config.UserStyleNameTemplateFieldName, key, cfg.GlobalName, rs, format.String())
			name, err := expandTemplate(config.UserStyleNameTemplateFieldName, cfg.NameTemplate, values)
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(name), nil
		},
	}
}

// exportUserCSS writes one UserCSS file per key into directory dst. All
// files are attempted, failures are reported together.
func exportUserCSS(ctx context.Context, group *rules.Group, dst string, log *zap.Logger) (outputs []string, err error) {
	env := state.EnvFromContext(ctx)

	docs, err := userStyleGenerator(common.OutputFmtUsercss, env).Generate(ctx, group, log)
	if err != nil {
		return nil, err
	}
	names := styleFileNames(group.Keys(), common.OutputFmtUsercss.Ext(), env.Cfg.Output.FileNameTransliterate)

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return outputs, err
		}
		name := filepath.Join(dst, names[doc.Key])
		if er := writeFile(name, []byte(doc.Code), env.Overwrite, log); er != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", names[doc.Key], er))
			continue
		}
		log.Debug("User style written", zap.String("name", doc.Name), zap.String("file", name))
		outputs = append(outputs, name)
	}
	if err != nil {
		return outputs, fmt.Errorf("unable to export user styles: %w", err)
	}
	return outputs, nil
}

// exportBundle writes all UserCSS documents into single zip archive.
func exportBundle(ctx context.Context, group *rules.Group, dst string, log *zap.Logger) ([]string, error) {
	env := state.EnvFromContext(ctx)

	outputName, err := buildOutputPath(dst, common.OutputFmtZip, env)
	if err != nil {
		return nil, err
	}
	docs, err := userStyleGenerator(common.OutputFmtZip, env).Generate(ctx, group, log)
	if err != nil {
		return nil, err
	}
	names := styleFileNames(group.Keys(), common.OutputFmtUsercss.Ext(), env.Cfg.Output.FileNameTransliterate)

	entries := make([]bundle.Entry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, bundle.Entry{Name: names[doc.Key], Data: []byte(doc.Code)})
	}

	if err := checkDestination(outputName, env.Overwrite, log); err != nil {
		return nil, fmt.Errorf("unable to export archive: %w", err)
	}
	workDir, err := os.MkdirTemp("", misc.GetAppName()+"-")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	err = createFile(outputName, func(w io.Writer) error {
		return bundle.Generate(ctx, entries, w, workDir, time.Now(), env.Cfg.Output.FixZip, log)
	})
	if err != nil {
		return nil, fmt.Errorf("unable to export archive: %w", err)
	}
	return []string{outputName}, nil
}

// exportStylus writes Stylus backup.
func exportStylus(ctx context.Context, group *rules.Group, dst string, log *zap.Logger) ([]string, error) {
	env := state.EnvFromContext(ctx)

	outputName, err := buildOutputPath(dst, common.OutputFmtJson, env)
	if err != nil {
		return nil, err
	}
	data, err := stylus.NewExporter(env.Cfg.Stylus.GlobalName, env.Cfg.Conversion.MergeSelectors).Marshal(ctx, group, log)
	if err != nil {
		return nil, err
	}
	if err := writeFile(outputName, data, env.Overwrite, log); err != nil {
		return nil, fmt.Errorf("unable to export stylus backup: %w", err)
	}
	return []string{outputName}, nil
}

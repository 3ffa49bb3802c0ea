package convert

import (
	"context"
	"fmt"
	"io"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"u2s/content"
	"u2s/filter"
	"u2s/state"
)

// Stats is the action of "stats" command.
func Stats(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("stats")

	if cp := cmd.String("input-cp"); len(cp) > 0 {
		env.Cfg.Input.CodePage = cp
	}
	defer func(start time.Time) {
		log.Debug("Statistics completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	in, _, stats, err := prepare(ctx, cmd.Args().Slice(), log)
	if err != nil {
		return err
	}
	return writeStats(env.Stdout, in, stats, cmd.Bool("verbose"))
}

// writeStats prints counters and, when verbose, every skipped line with the
// reason it was skipped.
func writeStats(w io.Writer, in *content.Input, stats filter.Stats, verbose bool) error {
	ew := &errWriter{w: w}
	ew.printf("rules:   %d\n", stats.Rules)
	ew.printf("domains: %d\n", stats.Domains)
	ew.printf("global:  %d\n", stats.Global)
	ew.printf("styles:  %d\n", stats.Styles)
	ew.printf("network: %d\n", stats.Network)
	ew.printf("invalid: %d\n", stats.Invalid)

	if verbose && stats.Invalid+stats.Network > 0 {
		ew.printf("\n")
		for line, res := range in.Classified() {
			if res.Kind != filter.KindInvalid && res.Kind != filter.KindNetwork {
				continue
			}
			ew.printf("%s:%d: %s: %s: %s\n", line.Source, line.Num, res.Kind, res.Reason, line.Text)
		}
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

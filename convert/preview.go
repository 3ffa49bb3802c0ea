package convert

import (
	"context"
	"fmt"
	"io"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"u2s/common"
	"u2s/rules"
	"u2s/state"
)

// Preview is the action of "preview" command: it shows what the first domain
// style and global style would look like without exporting anything.
func Preview(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("preview")

	if cp := cmd.String("input-cp"); len(cp) > 0 {
		env.Cfg.Input.CodePage = cp
	}

	_, group, _, err := prepare(ctx, cmd.Args().Slice(), log)
	if err != nil {
		return err
	}
	if group.Empty() {
		return ErrNoRules
	}

	text, err := preview(ctx, group, log)
	if err != nil {
		return err
	}

	fname := cmd.String("out")
	if len(fname) == 0 {
		log.Debug("Writing preview", zap.String("file", "STDOUT"))
		if _, err := io.WriteString(env.Stdout, text); err != nil {
			return fmt.Errorf("unable to write preview: %w", err)
		}
		return nil
	}

	env.Overwrite = cmd.Bool("overwrite")
	log.Debug("Writing preview", zap.String("file", fname))
	if err := writeFile(fname, []byte(text), env.Overwrite, log); err != nil {
		return fmt.Errorf("unable to write preview: %w", err)
	}
	return nil
}

// preview renders first domain and global documents with file name banners.
func preview(ctx context.Context, group *rules.Group, log *zap.Logger) (string, error) {
	env := state.EnvFromContext(ctx)

	keys := group.Keys()
	names := styleFileNames(keys, common.OutputFmtUsercss.Ext(), env.Cfg.Output.FileNameTransliterate)
	docs, err := userStyleGenerator(common.OutputFmtUsercss, env).Generate(ctx, group, log)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if domains := group.Domains(); len(domains) > 0 {
		doc := docs[0]
		fmt.Fprintf(&b, "/* === %s === */\n\n", names[doc.Key])
		b.WriteString(doc.Code)
		if len(domains) > 1 {
			fmt.Fprintf(&b, "\n/* ... and %d more domain files */\n", len(domains)-1)
		}
	}
	if group.HasGlobal() {
		doc := docs[len(docs)-1]
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "/* === %s === */\n\n", names[doc.Key])
		b.WriteString(doc.Code)
	}
	return b.String(), nil
}

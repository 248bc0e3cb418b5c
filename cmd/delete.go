package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"kmadmin/internal/action"
	"kmadmin/internal/db"
	"kmadmin/internal/model"
)

// ErrNotInteractive is returned when a delete needs a confirmation but
// stdin is not a terminal.
var ErrNotInteractive = errors.New("refusing to delete without a terminal; pass --yes to confirm")

func newDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete one user, file version or config entry",
		Long: `Delete one record after confirmation. Users are identified by username,
files by id and configs by key.`,
		Example: `  kmadmin delete users alice
  kmadmin delete files 42 --yes`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(args[0])
			if err != nil {
				return err
			}
			cfg, err := getConfig(cmd.Context())
			if err != nil {
				return err
			}

			var confirmer action.Confirmer
			switch {
			case yes:
				confirmer = action.Always(true)
			case stdinIsTerminal():
				confirmer = promptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
			default:
				return ErrNotInteractive
			}

			database, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			return runDelete(cmd.Context(), cmd.OutOrStdout(), database, confirmer, kind, args[1])
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func runDelete(ctx context.Context, w io.Writer, q db.Querier, c action.Confirmer, kind model.Kind, id string) error {
	if !action.HasRowActions(kind) {
		return fmt.Errorf("delete %s: %w", kind, db.ErrUnsupportedKind)
	}
	if _, err := db.GetRecord(ctx, q, kind, id); err != nil {
		return err
	}

	prompt := fmt.Sprintf("%s Delete %s %q", action.DefaultPrompt, kind, id)
	outcome, err := action.ConfirmDelete(ctx, c, prompt, id, func(ctx context.Context, id string) error {
		return db.DeleteRecord(ctx, q, kind, id)
	})
	if err != nil {
		return err
	}
	if outcome == action.OutcomeDeclined {
		_, _ = fmt.Fprintln(w, "Delete cancelled")
		return nil
	}
	_, _ = fmt.Fprintf(w, "Deleted %s %q\n", kind, id)
	return nil
}

// promptConfirmer asks on out and reads a y/N answer from in. Anything
// but y or yes declines.
func promptConfirmer(in io.Reader, out io.Writer) action.Confirmer {
	reader := bufio.NewReader(in)
	return action.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, nil
		}
		if _, err := fmt.Fprintf(out, "%s [y/N] ", prompt); err != nil {
			return false, err
		}
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("failed to read answer: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}

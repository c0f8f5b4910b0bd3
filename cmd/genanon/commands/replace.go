package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/primed-bio/genanon/pkg/replace"
	"github.com/primed-bio/genanon/pkg/replacemap"
)

// NewReplaceCmd creates the replace command: in-process substitution over a
// single text file, without spawning a pipeline.
func NewReplaceCmd() *cobra.Command {
	var (
		inPath          string
		outPath         string
		oldString       string
		newString       string
		replacementFile string
		tokenLength     int
	)

	cmd := &cobra.Command{
		Use:   "replace",
		Short: "Replace strings in a single text file in-process",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "replace").Logger().WithContext(ctx)

			if (replacementFile != "") == (oldString != "") {
				return errors.New("specify either --replacement-file or --old/--new, not both")
			}

			var m *replacemap.Map
			if replacementFile != "" {
				loaded, err := replacemap.Load(ctx, replacementFile, tokenLength)
				if err != nil {
					return err
				}
				m = loaded
			} else {
				m = replacemap.New()
				m.Set(oldString, newString)
			}

			if err := replace.InFile(ctx, inPath, outPath, m); err != nil {
				return errors.Errorf("replacing strings: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "path to the input file")
	cmd.Flags().StringVar(&outPath, "out", "", "path to the output file (overwritten if present)")
	cmd.Flags().StringVar(&oldString, "old", "", "single string to replace")
	cmd.Flags().StringVar(&newString, "new", "", "replacement for --old")
	cmd.Flags().StringVar(&replacementFile, "replacement-file", "", "two-column TSV of original and replacement strings")
	cmd.Flags().IntVar(&tokenLength, "token-length", 0, "length of generated anonymous tokens")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

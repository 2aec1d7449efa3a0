package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/RackPlan/internal/editor"
)

func newApplyCmd(opts *globalOptions) *cobra.Command {
	var dryRun, keepGoing bool

	cmd := &cobra.Command{
		Use:   "apply SCRIPT",
		Short: "Apply a JSON or YAML script of editing commands",
		Long: `Apply a list of editing commands to the layout, in order.

Each command is an object with an "op" (place, remove, move, nudge, resize,
place-child, remove-child, delete-type, set-image, undo, redo) and the fields
that op needs, for example:

  [
    {"op": "place", "slug": "2u-server", "position": 10},
    {"op": "nudge", "index": 0, "direction": 1},
    {"op": "undo"}
  ]

Files ending in .yaml or .yml are read as YAML with the same field names:

  - op: place
    slug: 2u-server
    position: 10

Use "-" to read the script from stdin. The first rejected command stops the
script unless --keep-going is set; commands applied before it are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			script, err := readScript(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			s, err := opts.openSession(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			prog := newProgress(logger)
			applied, rejected := 0, 0
			for i, c := range script {
				res := s.editor.Apply(c)
				if res.Success {
					applied++
					detail := string(res.Reason)
					if res.Message != "" {
						detail = res.Message
					}
					printSuccess(w, "%d %s: %s", i+1, c.Op, detail)
					continue
				}
				rejected++
				printError(w, "%d %s: %s", i+1, c.Op, res.Message)
				if !keepGoing {
					break
				}
			}
			prog.done(fmt.Sprintf("Applied %d of %d commands", applied, len(script)))

			if dryRun {
				printInfo(w, "Dry run, %s left unchanged", s.path)
			} else if applied > 0 {
				if err := s.save(); err != nil {
					return err
				}
				opts.remember(ctx, s.path)
			}
			if rejected > 0 {
				return fmt.Errorf("%d commands rejected", rejected)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "apply the script without saving the layout")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "continue past rejected commands")
	return cmd
}

func readScript(stdin io.Reader, path string) ([]editor.Command, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	var script []editor.Command
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &script)
	default:
		err = json.Unmarshal(data, &script)
	}
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return script, nil
}

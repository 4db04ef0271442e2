package main

import (
	"fmt"

	"github.com/OCAP2/acmi/pkg/core"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newEntitiesCmd(a *app) *cobra.Command {
	var alive, removed bool

	cmd := &cobra.Command{
		Use:   "entities <file>",
		Short: "List the entities of each recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if alive && removed {
				return fmt.Errorf("--alive and --removed are mutually exclusive")
			}
			results, err := a.parse(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, r := range results {
				var list []*core.Entity
				switch {
				case alive:
					list = r.Recording.Alive()
				case removed:
					list = r.Recording.Removed()
				default:
					list = r.Recording.Entities()
				}

				data := pterm.TableData{{"ID", "Name", "Type", "Tags", "Removed"}}
				for _, e := range list {
					removedAt := ""
					if t, ok := e.RemovedAt(); ok {
						removedAt = formatSeconds(t)
					}
					data = append(data, []string{e.ID, e.Name, e.TypeLabel, e.Tags, removedAt})
				}

				if len(results) > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (%d entities)\n", r.Source, len(list))
				}
				if err := pterm.DefaultTable.
					WithHasHeader().
					WithWriter(cmd.OutOrStdout()).
					WithData(data).
					Render(); err != nil {
					return fmt.Errorf("error rendering table: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&alive, "alive", false, "only entities never removed")
	cmd.Flags().BoolVar(&removed, "removed", false, "only removed entities")
	return cmd
}

func formatSeconds(t float64) string {
	return core.Number(t).String()
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoValue = errors.New("no value")

func newQueryCmd(a *app) *cobra.Command {
	var at float64

	cmd := &cobra.Command{
		Use:   "query <file> <id> <property>",
		Short: "Print the value of an entity property",
		Long: `Print the most recent value of an entity property, or with --time the value
in effect at that timeframe (seconds from the reference time).`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, prop := args[1], args[2]
			results, err := a.parse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			timed := cmd.Flags().Changed("time")

			found := false
			for _, r := range results {
				v, ok := r.Recording.ValueOf(id, prop)
				if timed {
					v, ok = r.Recording.ValueAt(id, prop, at)
				}
				if !ok {
					continue
				}
				found = true
				if len(results) > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Source, v)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), v)
				}
			}
			if !found {
				return fmt.Errorf("%w for %s on entity %s", errNoValue, prop, id)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&at, "time", 0, "timeframe in seconds; latest value when omitted")
	return cmd
}

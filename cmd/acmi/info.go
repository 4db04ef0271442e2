package main

import (
	"encoding/json"
	"fmt"

	"github.com/OCAP2/acmi/internal/export"
	"github.com/OCAP2/acmi/pkg/core"
	"github.com/spf13/cobra"
)

// infoOutput is the summary of one recording plus its parse diagnostics.
type infoOutput struct {
	Source string `json:"Source"`
	export.Summary
	Diagnostics []core.Diagnostic `json:"Diagnostics"`
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print the global properties of each recording as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.parse(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := make([]infoOutput, 0, len(results))
			for _, r := range results {
				diags := r.Recording.Diagnostics()
				if diags == nil {
					diags = []core.Diagnostic{}
				}
				out = append(out, infoOutput{
					Source:      r.Source,
					Summary:     export.NewSummary(r.Recording),
					Diagnostics: diags,
				})
			}

			var v any = out
			if len(out) == 1 {
				v = out[0]
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(v); err != nil {
				return fmt.Errorf("error encoding summary: %w", err)
			}
			return nil
		},
	}
}

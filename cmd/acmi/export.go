package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/OCAP2/acmi/internal/config"
	"github.com/OCAP2/acmi/internal/export"
	"github.com/OCAP2/acmi/internal/parser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recordings as CSV or JSON",
	}
	cmd.AddCommand(newExportCSVCmd(a), newExportJSONCmd(a))
	return cmd
}

func newExportCSVCmd(a *app) *cobra.Command {
	var (
		output    string
		ids       []string
		keepEmpty bool
	)

	cmd := &cobra.Command{
		Use:   "csv <file>",
		Short: "Write one row per timeframe and entity",
		Long: `Write one CSV row per timeframe and entity holding the value of every
property in effect at that timeframe. Columns never written are dropped unless
--keep-empty is set or export.removeEmpty is false.

With -o - the CSV goes to stdout. Without -o, files are written to
export.outputDir as <file>.csv (one per archive entry).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.parse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			exportCfg := config.GetExportConfig()
			removeEmpty := exportCfg.RemoveEmpty && !keepEmpty

			if output == "-" {
				if len(results) != 1 {
					return fmt.Errorf("%s holds %d recordings; stdout takes one", args[0], len(results))
				}
				_, err := export.WriteCSV(cmd.OutOrStdout(), results[0].Recording, export.CSVOptions{
					RemoveEmpty: removeEmpty,
					IDs:         ids,
				})
				return err
			}

			for _, r := range results {
				path := csvPath(output, exportCfg.OutputDir, r, len(results))
				rows, err := writeCSVWithProgress(cmd.ErrOrStderr(), path, r, export.CSVOptions{
					RemoveEmpty: removeEmpty,
					IDs:         ids,
				})
				if err != nil {
					return err
				}
				a.logger.Info("CSV exported", "source", r.Source, "path", path, "rows", rows)
				pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("%s: %d rows written to %s", r.Source, rows, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "only these entity ids (comma separated)")
	cmd.Flags().BoolVar(&keepEmpty, "keep-empty", false, "keep columns never written")
	return cmd
}

func writeCSVWithProgress(w io.Writer, path string, r parser.Result, opts export.CSVOptions) (int, error) {
	total := len(r.Recording.Timeframes())
	if total == 0 {
		return export.WriteCSVFile(path, r.Recording, opts)
	}

	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(r.Source).
		WithWriter(w).
		WithRemoveWhenDone().
		Start()
	if err != nil {
		return 0, fmt.Errorf("error starting progress bar: %w", err)
	}
	last := 0
	opts.Progress = func(done, _ int) {
		bar.Add(done - last)
		last = done
	}

	rows, err := export.WriteCSVFile(path, r.Recording, opts)
	if _, stopErr := bar.Stop(); err == nil && stopErr != nil {
		err = stopErr
	}
	return rows, err
}

// csvPath picks the output path of one recording. An explicit output is used
// as is for a single recording and as a name prefix for archive entries.
func csvPath(output, outputDir string, r parser.Result, count int) string {
	entry := strings.TrimSuffix(filepath.Base(r.Source), filepath.Ext(r.Source))
	if output != "" {
		if count == 1 {
			return output
		}
		ext := filepath.Ext(output)
		return strings.TrimSuffix(output, ext) + "_" + entry + ext
	}
	return filepath.Join(outputDir, entry+".csv")
}

// jsonExport is the global summary plus one snapshot per entity.
type jsonExport struct {
	Source   string           `json:"Source"`
	Summary  export.Summary   `json:"Summary"`
	Entities []map[string]any `json:"Entities"`
}

func newExportJSONCmd(a *app) *cobra.Command {
	var (
		output string
		at     float64
	)

	cmd := &cobra.Command{
		Use:   "json <file>",
		Short: "Write the summary and a snapshot of every entity as JSON",
		Long: `Write the global summary and a snapshot of every entity: its latest values,
or with --time the values in effect at that timeframe. Output goes to stdout
unless -o is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.parse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var when *float64
			if cmd.Flags().Changed("time") {
				when = &at
			}

			docs := make([]jsonExport, 0, len(results))
			for _, r := range results {
				docs = append(docs, jsonExport{
					Source:   r.Source,
					Summary:  export.NewSummary(r.Recording),
					Entities: export.Snapshots(r.Recording, when),
				})
			}
			var v any = docs
			if len(docs) == 1 {
				v = docs[0]
			}

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create json file: %w", err)
				}
				defer f.Close()
				w = f
			}

			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(v); err != nil {
				return fmt.Errorf("error encoding json export: %w", err)
			}
			if output != "" && output != "-" {
				pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("JSON written to %s", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; stdout when omitted")
	cmd.Flags().Float64Var(&at, "time", 0, "timeframe in seconds; latest values when omitted")
	return cmd
}

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/OCAP2/acmi/internal/config"
	"github.com/OCAP2/acmi/internal/storage"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newStoredCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stored",
		Short: "Read recordings back from the sqlite or postgres storage",
	}
	cmd.AddCommand(newStoredListCmd(a), newStoredQueryCmd(a))
	return cmd
}

// openReader builds the configured backend and checks it can be queried.
func (a *app) openReader() (storage.Backend, storage.Reader, error) {
	storageCfg := config.GetStorageConfig()
	backend, err := storage.NewBackend(storageCfg, storage.Dependencies{
		Logger:   a.logger,
		LogLevel: a.level(),
		LogsDir:  viper.GetString("logsDir"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s storage: %w", storageCfg.Type, err)
	}
	reader, ok := backend.(storage.Reader)
	if !ok {
		backend.Close()
		return nil, nil, fmt.Errorf("%s storage cannot be read back", storageCfg.Type)
	}
	if err := backend.Init(); err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("failed to initialize %s storage: %w", storageCfg.Type, err)
	}
	return backend, reader, nil
}

func newStoredListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored recordings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, reader, err := a.openReader()
			if err != nil {
				return err
			}
			defer backend.Close()

			list, err := reader.Recordings(cmd.Context())
			if err != nil {
				return err
			}

			data := pterm.TableData{{"ID", "Source", "Title", "Reference time", "Objects", "Timeframes", "Diagnostics"}}
			for _, r := range list {
				ref := ""
				if r.ReferenceTime != nil {
					ref = r.ReferenceTime.UTC().Format(time.RFC3339)
				}
				data = append(data, []string{
					strconv.FormatUint(uint64(r.ID), 10),
					r.Source,
					r.Title,
					ref,
					strconv.Itoa(r.Objects),
					strconv.Itoa(r.TimeFrames),
					strconv.Itoa(len(r.Diagnostics)),
				})
			}
			return pterm.DefaultTable.
				WithHasHeader().
				WithWriter(cmd.OutOrStdout()).
				WithData(data).
				Render()
		},
	}
}

func newStoredQueryCmd(a *app) *cobra.Command {
	var at float64

	cmd := &cobra.Command{
		Use:   "query <recording-id> <id> <property>",
		Short: "Print a stored entity property value",
		Long: `Print the most recent stored value of an entity property, or with --time
the value in effect at that timeframe. Recording ids are listed by "stored list".`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			recordingID, err := strconv.ParseUint(args[0], 10, 0)
			if err != nil {
				return fmt.Errorf("invalid recording id %q: %w", args[0], err)
			}
			id, prop := args[1], args[2]

			backend, reader, err := a.openReader()
			if err != nil {
				return err
			}
			defer backend.Close()

			var when *float64
			if cmd.Flags().Changed("time") {
				when = &at
			}
			v, ok, err := reader.ValueAt(cmd.Context(), uint(recordingID), id, prop, when)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w for %s on entity %s of recording %d", errNoValue, prop, id, recordingID)
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	cmd.Flags().Float64Var(&at, "time", 0, "timeframe in seconds; latest value when omitted")
	return cmd
}

package main

import (
	"fmt"

	"github.com/OCAP2/acmi/internal/config"
	"github.com/OCAP2/acmi/internal/storage"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newStoreCmd(a *app) *cobra.Command {
	var snapshot string

	cmd := &cobra.Command{
		Use:   "store <file>",
		Short: "Write every recording of a file to the configured storage backend",
		Long: `Write every recording of a file to the backend selected by storage.type:
memory (JSON documents), sqlite, postgres or influx.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			results, err := a.parse(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			storageCfg := config.GetStorageConfig()
			backend, err := storage.NewBackend(storageCfg, storage.Dependencies{
				Logger:   a.logger,
				LogLevel: a.level(),
				LogsDir:  viper.GetString("logsDir"),
			})
			if err != nil {
				return fmt.Errorf("failed to create %s storage: %w", storageCfg.Type, err)
			}
			if err := backend.Init(); err != nil {
				backend.Close()
				return fmt.Errorf("failed to initialize %s storage: %w", storageCfg.Type, err)
			}
			defer func() {
				if cerr := backend.Close(); err == nil && cerr != nil {
					err = cerr
				}
			}()

			success := pterm.Success.WithWriter(cmd.ErrOrStderr())
			for _, r := range results {
				if err := backend.StoreRecording(cmd.Context(), r.Source, r.Recording); err != nil {
					return fmt.Errorf("%s: %w", r.Source, err)
				}
				if exp, ok := backend.(storage.Exporter); ok {
					success.Printfln("%s stored in %s", r.Source, exp.ExportedFilePath())
				} else {
					success.Printfln("%s stored in %s", r.Source, storageCfg.Type)
				}
			}

			if snapshot != "" {
				snap, ok := backend.(storage.Snapshotter)
				if !ok {
					return fmt.Errorf("%s storage cannot write snapshots", storageCfg.Type)
				}
				if err := snap.Snapshot(snapshot); err != nil {
					return err
				}
				success.Printfln("Snapshot written to %s", snapshot)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshot, "snapshot", "", "also copy the sqlite database into this file")
	return cmd
}

package kv

import (
	"github.com/ValentinKolb/uKV/cmd/util"
	"github.com/ValentinKolb/uKV/lib/storage"
	"github.com/spf13/cobra"
)

var (
	store storage.IStorage

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform key-value storage operations",
		PersistentPreRunE: setupStorage,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return store.Dispose()
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(hasCmd)
	KeyValueCommands.AddCommand(keysCmd)
	KeyValueCommands.AddCommand(clearCmd)
	KeyValueCommands.AddCommand(metaCmd)
	KeyValueCommands.AddCommand(setMetaCmd)
	KeyValueCommands.AddCommand(watchCmd)
	KeyValueCommands.AddCommand(snapshotCmd)
	KeyValueCommands.AddCommand(restoreCmd)
}

// setupStorage builds the storage instance from the configured drivers
func setupStorage(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	var err error
	store, err = util.GetStorage()
	return err
}

package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/uKV/cmd/kv"
	"github.com/ValentinKolb/uKV/cmd/serve"
	"github.com/ValentinKolb/uKV/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "ukv",
		Short: "unified key-value storage",
		Long: fmt.Sprintf(`uKV (v%s)

A unified key-value storage facade written in Go, routing keys to
pluggable backend drivers via mountpoints.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of uKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("uKV v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, raw)"))
	key = "root"
	RootCmd.PersistentFlags().String(key, "memory", util.WrapString("root driver (memory, fs:<dir>)"))
	key = "mount"
	RootCmd.PersistentFlags().StringArray(key, nil, util.WrapString("additional mounts in the format base=driver (e.g. cache/=memory, docs/=fs:./docs). Can be repeated"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

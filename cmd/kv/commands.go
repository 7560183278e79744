package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kvlib "github.com/ValentinKolb/uKV/lib/kv"
	"github.com/ValentinKolb/uKV/lib/storage"
	"github.com/spf13/cobra"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]
			if err := store.Set(key, value); err != nil {
				return err
			} else {
				fmt.Println("set successfully")
			}
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if value, err := store.Get(key); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, value=%v\n", key, value)
			}
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair (including its metadata)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := store.Remove(key, true); err != nil {
				return err
			} else {
				fmt.Println("delete successfully")
			}
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if found, err := store.Has(key); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, found=%t\n", key, found)
			}
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys [base]",
		Short: "Lists all keys below a base prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := ""
			if len(args) == 1 {
				base = args[0]
			}
			keys, err := store.Keys(base)
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Println(key)
			}
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear [base]",
		Short: "Removes all keys below a base prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := ""
			if len(args) == 1 {
				base = args[0]
			}
			if err := store.Clear(base); err != nil {
				return err
			}
			fmt.Println("clear successfully")
			return nil
		},
	}
	metaCmd = &cobra.Command{
		Use:   "meta [key]",
		Short: "Reads the metadata for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			nativeOnly, _ := cmd.Flags().GetBool("native")
			meta, err := store.Meta(key, nativeOnly)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(meta, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	setMetaCmd = &cobra.Command{
		Use:   "set-meta [key] [json]",
		Short: "Sets the metadata for a key from a JSON object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			var meta storage.Meta
			if err := json.Unmarshal([]byte(args[1]), &meta); err != nil {
				return fmt.Errorf("invalid metadata json: %w", err)
			}
			if err := store.SetMeta(key, meta); err != nil {
				return err
			}
			fmt.Println("set-meta successfully")
			return nil
		},
	}
	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Prints change events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := store.Watch(func(event kvlib.EventType, key string) {
				fmt.Printf("%s %s\n", event, key)
			})
			if err != nil {
				return err
			}

			// block until interrupted
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			return nil
		},
	}
	snapshotCmd = &cobra.Command{
		Use:   "snapshot [base]",
		Short: "Writes all key value pairs below a base as JSON to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := ""
			if len(args) == 1 {
				base = args[0]
			}
			snap, err := storage.Snapshot(store, base)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	restoreCmd = &cobra.Command{
		Use:   "restore [base]",
		Short: "Restores key value pairs below a base from JSON on stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := ""
			if len(args) == 1 {
				base = args[0]
			}
			var snap map[string]interface{}
			if err := json.NewDecoder(os.Stdin).Decode(&snap); err != nil {
				return fmt.Errorf("invalid snapshot json: %w", err)
			}
			if err := storage.RestoreSnapshot(store, snap, base); err != nil {
				return err
			}
			fmt.Println("restore successfully")
			return nil
		},
	}
)

func init() {
	metaCmd.Flags().Bool("native", false, "only return driver native metadata")
}

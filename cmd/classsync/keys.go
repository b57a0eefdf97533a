package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/kv"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/storage"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage stored API keys (gemini_api_key, anthropic_api_key)",
}

var keysDescription string

func init() {
	setCmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store a key",
		Args:  cobra.ExactArgs(2),
		RunE: withKV(func(ctx context.Context, svc *kv.Service, args []string) error {
			if err := svc.Set(ctx, args[0], args[1], keysDescription); err != nil {
				return err
			}
			fmt.Printf("Stored %s\n", args[0])
			return nil
		}),
	}
	setCmd.Flags().StringVarP(&keysDescription, "description", "d", "", "Description")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored keys with masked values",
		Args:  cobra.NoArgs,
		RunE: withKV(func(ctx context.Context, svc *kv.Service, args []string) error {
			pairs, err := svc.List(ctx)
			if err != nil {
				return err
			}
			for _, p := range pairs {
				fmt.Printf("%-24s %s  %s\n", p.Key, kv.MaskValue(p.Value), p.Description)
			}
			return nil
		}),
	}

	deleteCmd := &cobra.Command{
		Use:   "delete KEY",
		Short: "Delete a stored key",
		Args:  cobra.ExactArgs(1),
		RunE: withKV(func(ctx context.Context, svc *kv.Service, args []string) error {
			if err := svc.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		}),
	}

	keysCmd.AddCommand(setCmd, listCmd, deleteCmd)
}

// withKV opens storage for the duration of a keys subcommand
func withKV(fn func(ctx context.Context, svc *kv.Service, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		manager, err := storage.NewStorageManager(logger, config)
		if err != nil {
			return err
		}
		defer manager.Close()

		return fn(cmd.Context(), kv.NewService(manager.KeyValueStorage(), logger), args)
	}
}

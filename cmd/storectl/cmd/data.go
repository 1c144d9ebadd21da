package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed catalog data",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "subjects NAME...",
		Short: "Add subjects to the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			for _, name := range args {
				subject, err := a.SubjectService.Add(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Printf("%s\t%s\n", subject.ID, subject.Name)
			}
			return nil
		},
	})

	return cmd
}

func ExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [PATH]",
		Short: "Print the stored JSON under the root, or under PATH relative to it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			rel := ""
			if len(args) == 1 {
				rel = args[0]
			}
			raw, err := a.Store.Raw(cmd.Context(), rel)
			if err != nil {
				return err
			}
			if raw == nil {
				fmt.Println("null")
				return nil
			}

			var out bytes.Buffer
			err = json.Indent(&out, raw, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format export: %w", err)
			}
			out.WriteByte('\n')
			_, err = out.WriteTo(os.Stdout)
			return err
		},
	}
}

func LogsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the activity log, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			logs, err := a.ActivityService.List(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(logs) > limit {
				logs = logs[len(logs)-limit:]
			}
			for _, l := range logs {
				fmt.Printf("%s\t%s\t%s\t%d\n", l.Timestamp, l.Action, l.Details, l.Downloads)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "tail", "n", 0, "only print the last N entries")
	return cmd
}

func WipeCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete everything under the store root",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("refusing to wipe without --yes")
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			err = a.Store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", a.Store.Root())
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "confirm deleting all data")
	return cmd
}

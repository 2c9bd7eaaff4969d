package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Export records to an encrypted archive",
}

var archiveCreateCmd = &cobra.Command{
	Use:   "create PATH",
	Short: "Write the signed-in user's records to PATH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := readNewSecret("Archive passphrase: ")
		if err != nil {
			return err
		}

		a, err := newApp(cmd, "ExportArchive", args[0])
		if err != nil {
			return err
		}
		defer a.Close()

		archive, err := a.ExportArchive(cmd.Context(), args[0], passphrase)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d meals and %d trainings to %s\n", len(archive.Meals), len(archive.Trainings), args[0])
		return nil
	},
}

var archiveShowCmd = &cobra.Command{
	Use:   "show PATH",
	Short: "Summarize an archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := readSecret("Archive passphrase: ")
		if err != nil {
			return err
		}

		a, err := newApp(cmd, "OpenArchive", "")
		if err != nil {
			return err
		}
		defer a.Close()

		archive, err := a.OpenArchive(args[0], passphrase)
		if err != nil {
			return err
		}

		var photos int
		for _, m := range archive.Meals {
			photos += len(m.PhotoKeys)
		}
		fmt.Printf("Account:    %s\n", archive.Email)
		fmt.Printf("Exported:   %s\n", archive.ExportedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Meals:      %d (%d photos)\n", len(archive.Meals), photos)
		fmt.Printf("Trainings:  %d\n", len(archive.Trainings))
		return nil
	},
}

func addArchiveCommands(root *cobra.Command) {
	archiveCmd.AddCommand(archiveCreateCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	root.AddCommand(archiveCmd)
}

package cmd

import (
	"fmt"

	"github.com/rogersnm/plotline/internal/lockfile"
	"github.com/spf13/cobra"
)

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Inspect or clear a project's lock file",
}

var lockStatusCmd = &cobra.Command{
	Use:   "status [dir]",
	Short: "Show who holds the project lock",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := lockTarget(args)
		if err != nil {
			return err
		}
		owner, err := lockfile.Read(dir)
		if err != nil {
			return err
		}
		if owner == "" {
			fmt.Printf("%s is not locked\n", dir)
			return nil
		}
		fmt.Printf("%s is locked by %s\n", dir, owner)
		return nil
	},
}

var lockBreakCmd = &cobra.Command{
	Use:   "break [dir]",
	Short: "Remove a stale project lock",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := lockTarget(args)
		if err != nil {
			return err
		}
		if err := confirmDelete(cmd, "the lock on "+dir); err != nil {
			return err
		}
		if err := lockfile.Break(dir); err != nil {
			return err
		}
		fmt.Printf("Removed lock on %s\n", dir)
		return nil
	},
}

func lockTarget(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return resolveProjectDir()
}

func init() {
	lockBreakCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	lockCmd.AddCommand(lockStatusCmd)
	lockCmd.AddCommand(lockBreakCmd)
	rootCmd.AddCommand(lockCmd)
}

package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Log in and list the available task names",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		names, err := app.executor.ListTasks(cmd.Context())
		if err != nil {
			return app.handleError(err)
		}
		if len(names) == 0 {
			fmt.Println("No tasks listed.")
			return nil
		}

		fmt.Println()
		for i, name := range names {
			fmt.Printf("%3d. %s\n", i+1, name)
		}

		if copyNames, _ := cmd.Flags().GetBool("copy"); copyNames {
			// Ready to paste into the task prompt or --tasks
			if err := clipboard.WriteAll(strings.Join(names, ",")); err != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", err)
			}
			fmt.Println("\nTask names copied to the clipboard.")
		}
		return nil
	},
}

func init() {
	addRunFlags(tasksCmd)
	tasksCmd.Flags().Bool("copy", false, "Copy the names to the clipboard as a comma separated list")
}

package main

import (
	"fmt"

	appconfig "github.com/entrhq/coursepilot/pkg/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or reset the settings file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := openSettings(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("# %s\n", settingsPath(manager))
		for _, section := range manager.GetSections() {
			data, err := yaml.Marshal(map[string]interface{}{section.ID(): section.Data()})
			if err != nil {
				return fmt.Errorf("failed to render %s settings: %w", section.ID(), err)
			}
			fmt.Printf("\n# %s: %s\n%s", section.Title(), section.Description(), data)
		}
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := openSettings(cmd)
		if err != nil {
			return err
		}

		manager.ResetAll()
		if err := manager.SaveAll(); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Printf("Settings reset to defaults in %s\n", settingsPath(manager))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configResetCmd)
}

func openSettings(cmd *cobra.Command) (*appconfig.Manager, error) {
	path, _ := cmd.Flags().GetString("settings")
	manager, err := appconfig.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return manager, nil
}

func settingsPath(manager *appconfig.Manager) string {
	if fs, ok := manager.Store().(*appconfig.FileStore); ok {
		return fs.Path()
	}
	return "settings"
}

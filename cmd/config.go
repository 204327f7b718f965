package cmd

import (
	"fmt"

	"urlcopier/pkg/config"
	"urlcopier/pkg/errors"

	"github.com/spf13/cobra"
)

var (
	configProfileName string
	configDevToolsURL string
	configStorePath   string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage urlcopier configuration and profiles",
	Long: `Manage urlcopier configuration, including browser profiles for
copying from more than one browser.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration including environment overrides and the active profile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		output := NewOutputWriter(outputFormat)
		if output.IsStructured() {
			return output.Write(cfg)
		}

		fmt.Println("Current Configuration:")
		fmt.Println("======================")
		fmt.Printf("Active Profile: %s\n", func() string {
			if cfg.ActiveProfile == "" {
				return "(none)"
			}
			return cfg.ActiveProfile
		}())
		fmt.Println()
		fmt.Printf("DevTools URL: %s\n", cfg.Browser.DevToolsURL)
		fmt.Printf("Clipboard Helper: %s\n", cfg.Clipboard.Helper)
		fmt.Printf("Daemon Listen: %s\n", cfg.Daemon.Listen)
		fmt.Printf("Use Daemon: %t\n", cfg.Daemon.Use)
		fmt.Printf("Template Store: %s\n", cfg.StorePath())

		if len(cfg.Profiles) > 0 {
			fmt.Println()
			fmt.Println("Available Profiles:")
			for _, p := range cfg.Profiles {
				active := ""
				if cfg.IsProfileActive(p.Name) {
					active = " (active)"
				}
				fmt.Printf("  - %s%s\n", p.Name, active)
				fmt.Printf("      DevTools: %s\n", p.Browser.DevToolsURL)
			}
		}

		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		value, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in the config file",
	Example: `  # Read tabs from a browser on another port
  urlcopier config set browser.devtools_url http://127.0.0.1:9333

  # Route the palette through the daemon
  urlcopier config set daemon.use true`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Edit the file as written, without environment overrides.
		cfg, err := loadFileConfig()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

var configProfilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"profile"},
	Short:   "Manage configuration profiles",
	Long:    `List, add, remove, and switch between browser profiles.`,
}

var configProfilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		profiles := cfg.ListProfiles()
		if len(profiles) == 0 {
			fmt.Println("No profiles configured.")
			fmt.Println("Use 'urlcopier config profiles add --name <name>' to create one.")
			return nil
		}

		fmt.Println("Profiles:")
		for _, name := range profiles {
			profile, _ := cfg.GetProfile(name)
			active := ""
			if cfg.IsProfileActive(name) {
				active = " *active*"
			}
			fmt.Printf("  %s%s\n", name, active)
			fmt.Printf("    DevTools: %s\n", profile.Browser.DevToolsURL)
			if profile.Store.Path != "" {
				fmt.Printf("    Store: %s\n", profile.Store.Path)
			}
		}

		return nil
	},
}

var configProfilesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new profile",
	Example: `  # A second browser with its own debugging port and templates
  urlcopier config profiles add --name work --devtools-url http://127.0.0.1:9333 --store ~/.config/urlcopier/work.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configProfileName == "" {
			return errors.ConfigError("profile name is required (--name)")
		}
		if configDevToolsURL == "" {
			return errors.ConfigError("devtools URL is required (--devtools-url)")
		}

		cfg, err := loadFileConfig()
		if err != nil {
			cfg = &config.Config{}
		}

		profile := config.Profile{
			Name:    configProfileName,
			Browser: config.BrowserConfig{DevToolsURL: configDevToolsURL},
			Store:   config.StoreConfig{Path: configStorePath},
		}

		if err := cfg.AddProfile(profile); err != nil {
			return errors.ConfigError(err.Error())
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Printf("Profile '%s' added successfully.\n", configProfileName)
		fmt.Printf("Use 'urlcopier config profiles use --name %s' to activate it.\n", configProfileName)

		return nil
	},
}

var configProfilesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configProfileName == "" {
			return errors.ConfigError("profile name is required (--name)")
		}

		cfg, err := loadFileConfig()
		if err != nil {
			return err
		}

		if err := cfg.RemoveProfile(configProfileName); err != nil {
			return errors.ConfigError(err.Error())
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Printf("Profile '%s' removed successfully.\n", configProfileName)
		return nil
	},
}

var configProfilesUseCmd = &cobra.Command{
	Use:   "use",
	Short: "Switch to a profile",
	Long:  `Set the active profile for subsequent commands. An empty name clears it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadFileConfig()
		if err != nil {
			return err
		}

		if err := cfg.SetProfile(configProfileName); err != nil {
			return errors.ConfigError(err.Error())
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		if configProfileName == "" {
			fmt.Println("Active profile cleared.")
		} else {
			fmt.Printf("Switched to profile '%s'.\n", configProfileName)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func loadFileConfig() (*config.Config, error) {
	path, err := config.GetConfigPath()
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeConfig, "failed to get config path", err)
	}
	return config.LoadFile(path)
}

func init() {
	// Profile management flags
	configProfilesAddCmd.Flags().StringVar(&configProfileName, "name", "", "Profile name (required)")
	configProfilesAddCmd.Flags().StringVar(&configDevToolsURL, "devtools-url", "", "Browser DevTools endpoint (required)")
	configProfilesAddCmd.Flags().StringVar(&configStorePath, "store", "", "Template database for this profile (optional)")
	if err := configProfilesAddCmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}
	if err := configProfilesAddCmd.MarkFlagRequired("devtools-url"); err != nil {
		panic(err)
	}

	configProfilesRemoveCmd.Flags().StringVar(&configProfileName, "name", "", "Profile name (required)")
	if err := configProfilesRemoveCmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}

	configProfilesUseCmd.Flags().StringVar(&configProfileName, "name", "", "Profile name (empty to clear)")

	// Add commands
	configProfilesCmd.AddCommand(configProfilesListCmd)
	configProfilesCmd.AddCommand(configProfilesAddCmd)
	configProfilesCmd.AddCommand(configProfilesRemoveCmd)
	configProfilesCmd.AddCommand(configProfilesUseCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configProfilesCmd)
	configCmd.AddCommand(configPathCmd)
}

package main

import (
	"fmt"
	"os"
	"time"

	"savesync/internal/app"
	"savesync/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config from the default (or overridden) location.
func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:   "savesync",
	Short: "Synchronize save games across devices over FTP",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Save Folder: %s\n", cfg.SaveFolder)
		fmt.Printf("Backup Root: %s\n", cfg.BackupRoot)
		fmt.Println("Add your devices under [[devices]] before running sync.")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Save Folder:     %s\n", cfg.SaveFolder)
		fmt.Printf("Backup Root:     %s\n", cfg.BackupRoot)
		fmt.Printf("Max Backups:     %d\n", cfg.MaxBackups)
		fmt.Printf("Connect Timeout: %ds\n", cfg.ConnectTimeoutSeconds)
		fmt.Printf("Log Dir:         %s\n", cfg.LogDir)
		fmt.Printf("Devices:         %d\n", len(cfg.Devices))
		return nil
	},
}

// devices command
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List configured devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if len(cfg.Devices) == 0 {
			fmt.Println("No devices configured.")
			return nil
		}

		for _, d := range cfg.Devices {
			login := "anonymous"
			if d.Username != "" {
				login = d.Username
			}
			fmt.Printf("%-15s %s:%d  %s  (%s)\n", d.Name, d.Hostname, d.Port, d.RemotePath, login)
		}
		return nil
	},
}

// sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download, reconcile, and redistribute saves",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := app.PromptMissingPasswords(cfg); err != nil {
			return err
		}

		a, err := app.NewSyncApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.Sync()
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		fmt.Printf("Backup set: %s\n", summary.BackupSet)
		fmt.Printf("Downloaded %d file(s), published %d, uploaded %d\n",
			summary.Downloaded, len(summary.Published), summary.Uploaded)
		for _, o := range summary.Outcomes {
			if o.Failed() {
				fmt.Printf("  %-15s %s: %v\n", o.Device, o.Status, o.Err)
			} else {
				fmt.Printf("  %-15s synced (%d down, %d up)\n", o.Device, o.Downloaded, o.Uploaded)
			}
		}
		return nil
	},
}

// prune command
var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply the backup retention cap without syncing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := app.NewSyncApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := a.Prune()
		if err != nil {
			return fmt.Errorf("prune failed: %w", err)
		}

		if len(removed) == 0 {
			fmt.Println("Nothing to prune.")
			return nil
		}
		for _, name := range removed {
			fmt.Printf("Deleted backup set %s\n", name)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View sync run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := app.NewSyncApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.ListRuns(limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No sync runs recorded.")
			return nil
		}

		for _, r := range runs {
			duration := ""
			if !r.FinishedAt.IsZero() {
				duration = r.FinishedAt.Sub(r.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Printf("%s  %s  %-8s  down:%d up:%d  %s\n",
				r.ID[:8],
				r.StartedAt.Format("2006-01-02 15:04:05"),
				r.Status,
				r.Downloaded,
				r.Uploaded,
				duration,
			)
			devices, err := a.ListRunDevices(r.ID)
			if err != nil {
				return err
			}
			for _, d := range devices {
				line := fmt.Sprintf("  %-15s %s", d.Device, d.Status)
				if d.Detail != "" {
					line += ": " + d.Detail
				}
				fmt.Println(line)
			}
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show")
}

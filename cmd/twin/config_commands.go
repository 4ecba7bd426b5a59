package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Gaurav-Gosain/twin/internal/config"
)

// printConfigPath prints the config file path
func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

// configRows flattens cfg into setting/value rows.
func configRows(cfg *config.Config) [][]string {
	logFile := cfg.Log.File
	if logFile == "" {
		logFile, _ = config.DefaultLogPath()
		logFile += " (default)"
	}
	return [][]string{
		{"terminal.readable", strconv.FormatBool(cfg.Terminal.Readable)},
		{"terminal.fallback_rows", strconv.Itoa(cfg.Terminal.FallbackRows)},
		{"terminal.fallback_columns", strconv.Itoa(cfg.Terminal.FallbackColumns)},
		{"terminal.buffer_size", strconv.Itoa(cfg.Terminal.BufferSize)},
		{"log.level", cfg.Log.Level},
		{"log.file", logFile},
		{"demo.frame_delay", cfg.Demo.FrameDelay},
		{"demo.seed", strconv.FormatInt(cfg.Demo.Seed, 10)},
		{"demo.boxes", strconv.Itoa(cfg.Demo.Boxes)},
	}
}

// showConfig prints the effective configuration
func showConfig(f *globalFlags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	path, _ := config.GetConfigPath()

	fmt.Println()
	fmt.Println(titleStyle.Render("twin configuration"))
	fmt.Println(noteStyle.Render(path))
	fmt.Println()
	fmt.Println(newTable("Setting", "Value").Rows(configRows(cfg)...).Render())
	fmt.Println()
	return nil
}

// editConfigFile opens the config file in $EDITOR
func editConfigFile() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	// Ensure config file exists (create default if needed)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", configPath)
		if _, err := config.LoadUserConfig(); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "vi", "nano", "emacs"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Please set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	// Report mistakes now rather than at the next run.
	if _, err := config.Load(configPath); err != nil {
		fmt.Fprintln(os.Stderr, lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(err.Error()))
	}
	return nil
}

// resetConfigToDefaults resets the configuration file to default settings
func resetConfigToDefaults(assumeYes bool) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil && !assumeYes {
		fmt.Printf("Warning: This will overwrite your existing configuration at:\n")
		fmt.Printf("  %s\n\n", configPath)
		fmt.Printf("Are you sure you want to reset to defaults? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))

		if response != "yes" && response != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := config.Save(configPath, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Printf("Configuration reset to defaults\n")
	fmt.Printf("  Location: %s\n", configPath)
	fmt.Println("\nYou can customize it with: twin config edit")
	return nil
}

// keybindingRows returns one row per action with its bound keys.
func keybindingRows(keys *config.KeyMap) [][]string {
	var rows [][]string
	for _, action := range config.Actions {
		bound := keys.Keys(action)
		if len(bound) == 0 {
			continue
		}
		desc := config.ActionDescriptions[action]
		if desc == "" {
			desc = action
		}
		rows = append(rows, []string{strings.Join(bound, ", "), desc})
	}
	return rows
}

// listKeybindings prints all configured keybindings in a pretty table
func listKeybindings() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Using default keybindings...")
		userConfig = config.DefaultConfig()
	}
	keys := config.NewKeyMap(userConfig.Keys)

	fmt.Println()
	fmt.Println(titleStyle.Render("twin Keybindings"))
	fmt.Println()
	fmt.Println(newTable("Keys", "Action").Rows(keybindingRows(keys)...).Render())
	fmt.Println()
	fmt.Println(noteStyle.Render("Keys are read while the demo or a script is playing in a terminal."))
	fmt.Println()
	return nil
}

// Package main implements twin, a demo and script player for the twin text
// windows toolkit. twin draws nested, damage-tracked windows and renders
// only the changed cells to an ANSI terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// globalFlags holds the flags shared by every command that drives a terminal.
type globalFlags struct {
	debug        bool
	logFile      string
	readable     bool
	output       string
	fallbackSize string
	cpuProfile   string
}

func main() {
	var flags globalFlags
	var record string

	rootCmd := &cobra.Command{
		Use:   "twin",
		Short: "Text windows on an ANSI terminal",
		Long: `twin - Text WINdows

Draws nested windows of styled character cells and renders only the cells
that changed since the last frame. Without a subcommand twin runs the
built-in demo: a framed screen, an attribute sampler, a colour box, clipped
boxes and a stream of random boxes.`,
		Example: `  # Run the demo
  twin

  # Render the demo into a file instead of the terminal
  twin --output demo.out --fallback-size 24x80

  # Record the demo as a replayable script
  twin --record demo.tape

  # Play a script and replay it whenever it changes
  twin play demo.tape --watch

  # Show the line-drawing characters
  twin glyphs`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), &flags, record)
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Write logs to this file instead of the default state directory")
	rootCmd.PersistentFlags().BoolVar(&flags.readable, "readable", false, "Spell out control characters, one emitted cell per line")
	rootCmd.PersistentFlags().StringVar(&flags.output, "output", "", "Render into this file instead of the terminal")
	rootCmd.PersistentFlags().StringVar(&flags.fallbackSize, "fallback-size", "", "Size to use when the terminal size is unavailable, as ROWSxCOLUMNS")
	rootCmd.PersistentFlags().StringVar(&flags.cpuProfile, "cpuprofile", "", "Write CPU profile to file")

	rootCmd.Flags().StringVar(&record, "record", "", "Save the demo as a tape script")

	var watch bool
	playCmd := &cobra.Command{
		Use:   "play SCRIPT",
		Short: "Play a tape script",
		Long: `Play a tape script on the terminal

A script is a list of drawing commands, one per line:

  Window name row col rows cols   create a child of the selected window
  Select name | Free name | Show name | Hide name
  Attach name parent | Detach name
  Cursor row col | Text "string" | Style fg bg [Bold Dim Italic ...]
  Box row col rows cols | HLine row col length | VLine row col length
  Clear | Invalidate | Compose | Sync | Redraw | Sleep 500ms

Lines starting with # are comments.`,
		Example: `  # Play once
  twin play boxes.tape

  # Replay on every save
  twin play boxes.tape --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), &flags, args[0], watch)
		},
	}
	playCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Replay the script whenever the file changes")

	glyphsCmd := &cobra.Command{
		Use:   "glyphs",
		Short: "Show the line-drawing characters",
		Long: `Show every line-graphic code with the segments it joins, its preview
character and the DEC special graphics character sent to the terminal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printGlyphTable()
			return nil
		},
	}

	// Config command group
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage twin configuration",
		Long:  `Manage twin configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Long:  `Print the path to the twin configuration file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfigPath()
		},
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  `Show the configuration after command-line overrides are applied`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(&flags)
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the twin configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigFile()
		},
	}

	var assumeYes bool
	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the twin configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults(assumeYes)
		},
	}
	configResetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	configCmd.AddCommand(configPathCmd, configShowCmd, configEditCmd, configResetCmd)

	// Keybinds command group
	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
		Long:    `View the keys that control the demo and script player`,
	}

	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		Long:  `Display all configured keybindings in a formatted table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKeybindings()
		},
	}

	keybindsCmd.AddCommand(keybindsListCmd)

	var screenSize string
	inspectCmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show the screen recorded in an output file",
		Long: `Decode a file written with --output and print the screen it leaves
behind. The size defaults to the configured fallback size.`,
		Example: `  twin --output demo.out --fallback-size 24x80
  twin inspect demo.out --size 24x80`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectOutput(&flags, args[0], screenSize)
		},
	}
	inspectCmd.Flags().StringVar(&screenSize, "size", "", "Screen size as ROWSxCOLUMNS")

	rootCmd.AddCommand(playCmd, glyphsCmd, inspectCmd, configCmd, keybindsCmd)

	// Execute with fang
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/simonvc/ledgerbook/internal/logging"
	"github.com/simonvc/ledgerbook/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		rate, err := defaultRate()
		if err != nil {
			return err
		}

		// Log lines on stderr would draw over the screen.
		log := zerolog.Nop()
		if cfg.LogFile != "" {
			l, closer, err := logging.NewFile(cfg, cfg.LogFile)
			if err != nil {
				return err
			}
			defer closer.Close()
			log = l
		}

		c, done, err := connect(cmd, log)
		if err != nil {
			return err
		}
		defer done()

		app := tui.NewApp(c, rate)
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/resumelens/internal/tui"
)

const tuiLogFile = "resumelens.log"

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive resume view",
	Long:  "Opens the interactive view. Logs are discarded unless --debug is set, in which case they go to resumelens.log.",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The alt screen owns stdout, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if debug {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}

	s, err := newSession(logOut)
	if err != nil {
		return err
	}
	defer s.Close()

	return tui.Run(s.wf, tui.Options{
		StrictPDF: s.cfg.Validation.StrictPDF,
		OutputDir: s.cfg.Report.OutputDir,
	})
}

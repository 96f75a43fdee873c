package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/resumelens/internal/jobdesc"
	"github.com/amishk599/resumelens/internal/report"
	"github.com/amishk599/resumelens/internal/resume"
)

var (
	compareJobText   string
	compareJobFile   string
	compareJobURL    string
	compareReportDir string
	compareRaw       bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <resume>",
	Short: "Compare a resume against a job description",
	Long:  "Uploads the resume with a job description (text, file or URL) to the compare endpoint, prints the match and optionally saves the PDF report.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareJobText, "job-text", "", "job description text")
	compareCmd.Flags().StringVar(&compareJobFile, "job-file", "", "read the job description from a file (.html pages are reduced to text)")
	compareCmd.Flags().StringVar(&compareJobURL, "job-url", "", "job posting URL")
	compareCmd.Flags().StringVar(&compareReportDir, "report", "", "save "+report.FileName+" into this directory")
	compareCmd.Flags().BoolVar(&compareRaw, "raw", false, "also print the raw data payload")
	compareCmd.MarkFlagsMutuallyExclusive("job-text", "job-file")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	s, err := newSession(os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := resume.Load(args[0])
	if err != nil {
		return err
	}
	s.wf.SelectResume(f)

	text := compareJobText
	if compareJobFile != "" {
		text, err = jobdesc.Load(compareJobFile)
		if err != nil {
			return err
		}
	}
	s.wf.SetJobText(text)
	s.wf.SetJobURL(compareJobURL)

	return runOneShot(cmd, s, "Comparing "+f.Name+"...", s.wf.Compare, compareReportDir, compareRaw)
}

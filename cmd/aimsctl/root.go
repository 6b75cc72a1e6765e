// aimsctl is the companion CLI for working with activity reports offline:
// validating files before upload and generating sample documents.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "aimsctl",
	Short:         "Inspect and validate activity report files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("aimsctl: " + err.Error() + "\n")
		os.Exit(1)
	}
}

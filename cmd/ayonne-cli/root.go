package main

import (
	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "ayonne-cli",
	Short: "Photo quality assessment and streamed skin analysis client",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "analysis server base URL")
}

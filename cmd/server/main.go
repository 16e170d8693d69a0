package main

//	@title			pagedrop API
//	@version		1.0
//	@description	Upload single HTML files and serve them under short random slugs.
//	@schemes		http https
//	@BasePath		/

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCMD = &cobra.Command{
	Use:           "server",
	Short:         "pagedrop server",
	Long:          `HTML upload and hosting service`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runServe,
}

func main() {
	if err := rootCMD.Execute(); err != nil {
		os.Exit(1)
	}
}

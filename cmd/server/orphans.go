package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/samber/do"
	"github.com/slyt3/pagedrop/internal/bootstrap"
	"github.com/slyt3/pagedrop/internal/modules/service"
	"github.com/spf13/cobra"
)

var orphansCMD = &cobra.Command{
	Use:   "orphans",
	Short: "list projects without a file",
	Long:  `list projects that have no file row and can never be served`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inj := bootstrap.BuildContainer()
		svc, err := do.Invoke[service.ProjectService](inj)
		if err != nil {
			return err
		}

		orphans, err := svc.FindOrphans(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tNAME\tUPLOADED")
		for _, p := range orphans {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.Slug, p.Name, p.UploadedAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

func init() {
	rootCMD.AddCommand(orphansCMD)
}

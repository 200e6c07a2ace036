package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func digestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Trigger a digest run now",
		Example: `  digestctl digest
  digestctl digest --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			rpt, err := c.TriggerDigest(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(rpt)
			}
			return printReportDetail(rpt)
		},
	}
}

func reportsCmd() *cobra.Command {
	reportsRoot := &cobra.Command{
		Use:   "reports",
		Short: "Browse report history",
	}

	reportsRoot.AddCommand(
		reportsListCmd(),
		reportsLatestCmd(),
		reportsGetCmd(),
	)

	return reportsRoot
}

func reportsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent report runs",
		Example: `  digestctl reports list
  digestctl reports list --limit 10 --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			runs, err := c.ListReports(context.Background(), limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(runs)
			}
			if len(runs) == 0 {
				fmt.Println("No reports found.")
				return nil
			}
			return printReportRunsTable(runs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")
	return cmd
}

func reportsLatestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the latest report",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			rpt, err := c.LatestReport(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(rpt)
			}
			return printReportDetail(rpt)
		},
	}
}

func reportsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <report_id>",
		Short: "Show a report by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			rpt, err := c.GetReport(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(rpt)
			}
			return printReportDetail(rpt)
		},
	}
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/alert-digest/internal/config"
	"github.com/donaldgifford/alert-digest/internal/report"
	pkglogger "github.com/donaldgifford/alert-digest/pkg/logger"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a digest once and print it as markdown",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Stdout carries the report; keep engine logging out of it.
	slogger := pkglogger.Discard()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	eng, pg, err := buildEngine(ctx, cfg, slogger)
	if err != nil {
		return err
	}
	if pg != nil {
		defer pg.Close()
	}

	rpt, err := eng.Run(ctx)
	if err != nil {
		return fmt.Errorf("generating digest: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), report.RenderMarkdown(rpt))
	return nil
}

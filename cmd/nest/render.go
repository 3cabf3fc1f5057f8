package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"impractical.co/nest"
)

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render PAGE",
		Short: "Render a page file to stdout",
		Long: `Render the page file at PAGE using the component templates in the
templates directory, and write the result to stdout. Nothing is written if
rendering fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			page, err := loadPageFile(args[0])
			if err != nil {
				return err
			}
			host := nest.NewTemplateHost(newSite(a.cfg, a.log))
			err = nest.Render(ctx, cmd.OutOrStdout(), host, page, nest.WithTracer(a.tracing.tracer))
			if err != nil {
				return fmt.Errorf("rendering %q: %w", args[0], err)
			}
			return nil
		},
	}
}

package controller

import (
	"context"

	"github.com/spf13/cobra"

	"lot-backend/pkg/apperror"
)

type HealthController struct {
	ping func(ctx context.Context) error
}

func NewHealthController(ping func(ctx context.Context) error) *HealthController {
	return &HealthController{ping: ping}
}

func (c *HealthController) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the database is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ping(cmd.Context()); err != nil {
				return apperror.New(apperror.Database, "database is unreachable")
			}
			return render(cmd.OutOrStdout(), map[string]string{"status": "ok"})
		},
	}
}

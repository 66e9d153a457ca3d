package cmd

import (
	"fmt"

	"github.com/benbeisheim/gridchess-backend/internal/model"
	"github.com/spf13/cobra"
)

// gridchess render
func Render() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Print the starting board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), model.Render(model.NewBoard()))
			return err
		},
	}
}

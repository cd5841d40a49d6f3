package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanoboard/types"
)

func (cli *CLI) workspaceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "List and create workspaces",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			workspaces := svc.Graph().Workspaces
			return cli.outputResult(workspaces, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNAME\tBOARDS")
				for _, ws := range workspaces {
					fmt.Fprintf(w, "%s\t%s\t%d\n", ws.ID, ws.Name, len(ws.Boards))
				}
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create an empty workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			ws, err := svc.AddWorkspace(cmd.Context(), args[0])
			if err != nil {
				return WrapError("add workspace", err)
			}
			return cli.message(ws, "Created workspace %q (%s)", ws.Name, ws.ID)
		},
	})

	return cmd
}

// defaultWorkspace picks the workspace named by id, or the first one
func defaultWorkspace(g *types.Graph, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	if len(g.Workspaces) == 0 {
		return "", NewConfigError("pick a workspace", "the store has no workspace", "Create one with 'nanoboard workspace add'")
	}
	return g.Workspaces[0].ID, nil
}

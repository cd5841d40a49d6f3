package main

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanoboard/nanoboard/graph"
)

func (cli *CLI) groupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage the groups of a board",
	}

	var color string
	add := &cobra.Command{
		Use:   "add <board-id> <name>",
		Short: "Append a group to a board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			g, err := svc.AddGroup(cmd.Context(), args[0], args[1], color)
			if err != nil {
				return WrapError("add group", err)
			}
			return cli.message(g, "Created group %q (%s)", g.Name, g.ID)
		},
	}
	add.Flags().StringVarP(&color, "color", "c", "", "Hex color (default: "+graph.DefaultGroupColor+")")

	var name, newColor string
	update := &cobra.Command{
		Use:   "update <board-id> <group-id>",
		Short: "Rename or recolor a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			var patch graph.GroupPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("color") {
				patch.Color = &newColor
			}
			if err := svc.UpdateGroup(cmd.Context(), args[0], args[1], patch); err != nil {
				return WrapError("update group", err)
			}
			return cli.message(map[string]string{"board": args[0], "group": args[1]}, "Updated group %s", args[1])
		},
	}
	update.Flags().StringVarP(&name, "name", "n", "", "New name")
	update.Flags().StringVarP(&newColor, "color", "c", "", "New hex color")

	del := &cobra.Command{
		Use:   "delete <board-id> <group-id>",
		Short: "Delete a group and its items",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.DeleteGroup(cmd.Context(), args[0], args[1]); err != nil {
				return WrapError("delete group", err)
			}
			return cli.message(map[string]string{"deleted": args[1]}, "Deleted group %s", args[1])
		},
	}

	cmd.AddCommand(add, update, del)
	return cmd
}

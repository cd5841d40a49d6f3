package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanoboard/nanoboard/flow"
	"github.com/arthur-debert/nanoboard/types"
)

func (cli *CLI) flowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Build automation flows from templates and marketplace nodes",
	}
	cmd.AddCommand(
		cli.flowListCommand(),
		cli.flowShowCommand(),
		cli.flowTemplatesCommand(),
		cli.flowMarketplaceCommand(),
		cli.flowCreateCommand(),
		cli.flowInstantiateCommand(),
		cli.flowAppendCommand(),
		cli.flowMoveNodeCommand(),
		cli.flowRemoveNodeCommand(),
		cli.flowStatusCommand(),
		cli.flowDeleteCommand(),
		cli.flowExportCommand(),
		cli.flowImportCommand(),
	)
	return cmd
}

func writeFlowTable(w io.Writer, flows []types.AutomationFlow) {
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tNODES")
	for _, f := range flows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", f.ID, f.Name, f.Status, len(f.Nodes))
	}
}

func (cli *CLI) flowListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved flows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			flows := svc.Flows()
			return cli.outputResult(flows, func(w io.Writer) { writeFlowTable(w, flows) })
		},
	}
}

func (cli *CLI) flowShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <flow-id>",
		Short: "Show a flow's nodes in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			f, err := svc.Flow(args[0])
			if err != nil {
				return WrapError("show flow", err)
			}
			return cli.outputResult(f, func(w io.Writer) {
				fmt.Fprintf(w, "%s (%s, %s)\n", f.Name, f.ID, f.Status)
				fmt.Fprintln(w, "#\tID\tTYPE\tLABEL\tMATERIALS")
				for i, n := range f.Nodes {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", i, n.ID, n.Type, n.Label, len(n.Materials))
				}
			})
		},
	}
}

func (cli *CLI) flowTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in flow templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := flow.Templates()
			if err != nil {
				return WrapError("list templates", err)
			}
			return cli.outputResult(templates, func(w io.Writer) { writeFlowTable(w, templates) })
		},
	}
}

func (cli *CLI) flowMarketplaceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "marketplace",
		Short: "List the nodes that can be appended to a flow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := flow.Marketplace()
			if err != nil {
				return WrapError("list marketplace", err)
			}
			return cli.outputResult(nodes, func(w io.Writer) {
				fmt.Fprintln(w, "TYPE\tLABEL\tDESCRIPTION")
				for _, n := range nodes {
					fmt.Fprintf(w, "%s\t%s\t%s\n", n.Type, n.Label, n.Description)
				}
			})
		},
	}
}

func (cli *CLI) flowCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty draft flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			f, err := svc.CreateFlow(cmd.Context(), args[0])
			if err != nil {
				return WrapError("create flow", err)
			}
			return cli.message(f, "Created flow %q (%s)", f.Name, f.ID)
		},
	}
}

func (cli *CLI) flowInstantiateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "instantiate <template-id>",
		Short: "Save an editable draft copy of a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := flow.Template(args[0])
			if err != nil {
				return NewNotFoundError("instantiate template", "template", args[0], "Run 'nanoboard flow templates' to see the templates")
			}
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			f, err := svc.InstantiateTemplate(cmd.Context(), tpl)
			if err != nil {
				return WrapError("instantiate template", err)
			}
			return cli.message(f, "Created flow %q (%s) from %s", f.Name, f.ID, tpl.ID)
		},
	}
}

func (cli *CLI) flowAppendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "append <flow-id> <marketplace-label>",
		Short: "Append a marketplace node to the end of a flow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := flow.MarketplaceNode(args[1])
			if err != nil {
				return NewNotFoundError("append node", "marketplace node", args[1], "Run 'nanoboard flow marketplace' to see the nodes")
			}
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			n, err := svc.AppendNode(cmd.Context(), args[0], tpl)
			if err != nil {
				return WrapError("append node", err)
			}
			return cli.message(n, "Appended %q (%s)", n.Label, n.ID)
		},
	}
}

func (cli *CLI) flowMoveNodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move-node <flow-id> <node-id> <index>",
		Short: "Move a node to a position; out of range indexes are clamped",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return NewValidationError("move node", "index", args[2])
			}
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.MoveNode(cmd.Context(), args[0], args[1], index); err != nil {
				return WrapError("move node", err)
			}
			return cli.message(map[string]string{"flow": args[0], "node": args[1]}, "Moved node %s", args[1])
		},
	}
}

func (cli *CLI) flowRemoveNodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-node <flow-id> <node-id>",
		Short: "Remove a node from a flow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.RemoveNode(cmd.Context(), args[0], args[1]); err != nil {
				return WrapError("remove node", err)
			}
			return cli.message(map[string]string{"flow": args[0], "removed": args[1]}, "Removed node %s", args[1])
		},
	}
}

func (cli *CLI) flowStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <flow-id> <Active|Paused|Draft>",
		Short: "Change a flow's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := types.ParseFlowStatus(args[1])
			if err != nil {
				return NewValidationError("set flow status", "status", args[1], "Use Active, Paused or Draft")
			}
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.SetFlowStatus(cmd.Context(), args[0], status); err != nil {
				return WrapError("set flow status", err)
			}
			return cli.message(map[string]string{"flow": args[0], "status": string(status)}, "Flow %s is now %s", args[0], status)
		},
	}
}

func (cli *CLI) flowDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <flow-id>",
		Short: "Delete a flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.DeleteFlow(cmd.Context(), args[0]); err != nil {
				return WrapError("delete flow", err)
			}
			return cli.message(map[string]string{"deleted": args[0]}, "Deleted flow %s", args[0])
		},
	}
}

func (cli *CLI) flowExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export [flow-id...]",
		Short: "Write flows as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			flows := svc.Flows()
			if len(args) > 0 {
				flows = make([]types.AutomationFlow, 0, len(args))
				for _, id := range args {
					f, err := svc.Flow(id)
					if err != nil {
						return WrapError("export flows", err)
					}
					flows = append(flows, f)
				}
			}
			data, err := flow.ExportYAML(flows)
			if err != nil {
				return WrapError("export flows", err)
			}
			if output == "" {
				_, err := cli.out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return WrapError("export flows", err, CommonSuggestions.CheckPerms)
			}
			return cli.message(map[string]interface{}{"file": output, "flows": len(flows)}, "Wrote %d flows to %s", len(flows), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default: stdout)")
	return cmd
}

func (cli *CLI) flowImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Save the flows of a YAML file, replacing flows with the same id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return WrapError("import flows", err, CommonSuggestions.CheckPerms)
			}
			flows, err := flow.ImportYAML(data)
			if err != nil {
				return &CLIError{Operation: "import flows", Cause: "the file does not hold valid flows", Details: err.Error(), Underlying: err}
			}
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			for _, f := range flows {
				if err := svc.SaveFlow(cmd.Context(), f); err != nil {
					return WrapError("import flows", err)
				}
			}
			return cli.message(map[string]int{"imported": len(flows)}, "Imported %d flows", len(flows))
		},
	}
}

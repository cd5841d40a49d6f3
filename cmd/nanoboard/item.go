package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanoboard/nanoboard/graph"
	"github.com/arthur-debert/nanoboard/nanoboard/workspace"
	"github.com/arthur-debert/nanoboard/search"
	"github.com/arthur-debert/nanoboard/types"
)

func (cli *CLI) itemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage items, their comments and subtasks",
		Long: `Manage items. Items are addressed by id alone; the board and group are
looked up.`,
	}
	cmd.AddCommand(
		cli.itemListCommand(),
		cli.itemAddCommand(),
		cli.itemShowCommand(),
		cli.itemUpdateCommand(),
		cli.itemMoveCommand(),
		cli.itemDeleteCommand(),
		cli.itemCommentCommand(),
		cli.itemLikeCommand(),
		cli.subtaskCommand(),
		cli.itemSearchCommand(),
	)
	return cmd
}

// locate resolves an item id to its full address
func (cli *CLI) locate(ctx context.Context, operation, itemID string) (*workspace.Service, graph.ItemRef, error) {
	svc, err := cli.service(ctx)
	if err != nil {
		return nil, graph.ItemRef{}, err
	}
	ref, ok := graph.Locate(svc.Graph(), itemID)
	if !ok {
		return nil, graph.ItemRef{}, NewNotFoundError(operation, "item", itemID, CommonSuggestions.CheckID)
	}
	return svc, ref, nil
}

// itemRow is the listing shape of an item
type itemRow struct {
	Group string      `json:"group" yaml:"group"`
	Item  *types.Item `json:"item" yaml:"item"`
}

func (cli *CLI) itemListCommand() *cobra.Command {
	var groupID string
	cmd := &cobra.Command{
		Use:   "list <board-id>",
		Short: "List the items of a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			b, err := svc.Board(args[0])
			if err != nil {
				return WrapError("list items", err)
			}
			rows := []itemRow{}
			for _, g := range b.Groups {
				if groupID != "" && g.ID != groupID {
					continue
				}
				for _, it := range g.Items {
					rows = append(rows, itemRow{Group: g.Name, Item: it})
				}
			}
			return cli.outputResult(rows, func(w io.Writer) {
				fmt.Fprintln(w, "GROUP\tID\tNAME\tSTATUS\tPRIORITY\tOWNER\tDUE\tUPDATED")
				for _, r := range rows {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.Group, r.Item.ID, r.Item.Name, r.Item.Status, r.Item.Priority,
						orDash(r.Item.OwnerID), dueLabel(r.Item.DueDate), relTime(r.Item.LastUpdated))
				}
			})
		},
	}
	cmd.Flags().StringVarP(&groupID, "group", "g", "", "Only list items of this group")
	return cmd
}

// itemFlags are the editable fields shared by add and update
type itemFlags struct {
	name        string
	status      string
	priority    string
	owner       string
	due         string
	description string
}

func (f *itemFlags) register(cmd *cobra.Command, withName bool) {
	if withName {
		cmd.Flags().StringVarP(&f.name, "name", "n", "", "New name")
	}
	cmd.Flags().StringVarP(&f.status, "status", "s", "", "Status ("+strings.Join(statusNames(), ", ")+" or an alias such as working)")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "Priority (Low, Medium, High, Critical)")
	cmd.Flags().StringVar(&f.owner, "owner", "", "Owner user id; empty clears it")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date YYYY-MM-DD; 'none' clears it")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Description")
}

// patch builds an ItemPatch from the flags that were set
func (f *itemFlags) patch(cmd *cobra.Command, operation string) (graph.ItemPatch, error) {
	var p graph.ItemPatch
	changed := cmd.Flags().Changed
	if changed("name") {
		p.Name = &f.name
	}
	if changed("status") {
		st, err := types.ParseStatus(f.status)
		if err != nil {
			return p, NewValidationError(operation, "status", f.status, statusHint())
		}
		p.Status = &st
	}
	if changed("priority") {
		pr, err := types.ParsePriority(f.priority)
		if err != nil {
			return p, NewValidationError(operation, "priority", f.priority, priorityHint())
		}
		p.Priority = &pr
	}
	if changed("owner") {
		p.OwnerID = &f.owner
	}
	if changed("due") {
		due, unset, err := parseDue(f.due)
		if err != nil {
			return p, NewValidationError(operation, "due date", f.due, "Use YYYY-MM-DD or 'none'")
		}
		p.DueDate, p.ClearDueDate = due, unset
	}
	if changed("description") {
		p.Description = &f.description
	}
	return p, nil
}

func parseDue(s string) (due *time.Time, unset bool, err error) {
	if s == "" || strings.EqualFold(s, "none") {
		return nil, true, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, false, err
	}
	return &t, false, nil
}

func (cli *CLI) itemAddCommand() *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "add <board-id> <group-id> <name>",
		Short: "Append an item to a group",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := flags.patch(cmd, "add item")
			if err != nil {
				return err
			}
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			it, err := svc.AddItem(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return WrapError("add item", err)
			}
			if !patch.IsEmpty() {
				ref := graph.ItemRef{BoardID: args[0], GroupID: args[1], ItemID: it.ID}
				if err := svc.UpdateItem(cmd.Context(), ref, patch); err != nil {
					return WrapError("add item", err)
				}
				it, _ = graph.FindItem(svc.Graph(), ref.BoardID, ref.GroupID, ref.ItemID)
			}
			return cli.message(it, "Created item %q (%s)", it.Name, it.ID)
		},
	}
	flags.register(cmd, false)
	return cmd
}

func (cli *CLI) itemShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show an item with its comments and subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ref, err := cli.locate(cmd.Context(), "show item", args[0])
			if err != nil {
				return err
			}
			it, _ := graph.FindItem(svc.Graph(), ref.BoardID, ref.GroupID, ref.ItemID)
			return cli.outputResult(it, func(w io.Writer) {
				fmt.Fprintf(w, "ID\t%s\n", it.ID)
				fmt.Fprintf(w, "Name\t%s\n", it.Name)
				fmt.Fprintf(w, "Board\t%s\n", ref.BoardID)
				fmt.Fprintf(w, "Group\t%s\n", ref.GroupID)
				fmt.Fprintf(w, "Status\t%s\n", it.Status)
				fmt.Fprintf(w, "Priority\t%s\n", it.Priority)
				fmt.Fprintf(w, "Owner\t%s\n", orDash(it.OwnerID))
				fmt.Fprintf(w, "Due\t%s\n", dueLabel(it.DueDate))
				fmt.Fprintf(w, "Updated\t%s\n", relTime(it.LastUpdated))
				if it.Description != "" {
					fmt.Fprintf(w, "Description\t%s\n", it.Description)
				}
				for _, st := range it.Subtasks {
					fmt.Fprintf(w, "Subtask\t[%s] %s (%s)\n", checkbox(st.Status), st.Name, st.ID)
				}
				for _, c := range it.Comments {
					fmt.Fprintf(w, "Comment\t%s: %s (%s, %d likes, %s)\n", c.AuthorName, c.Text, c.ID, len(c.LikedBy), relTime(c.CreatedAt))
				}
			})
		},
	}
}

func (cli *CLI) itemUpdateCommand() *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Change an item's fields",
		Long: `Change an item's fields. Only the flags given are applied; every change
refreshes the item's last-updated time.

Examples:
  nanoboard item update item-1 --status done
  nanoboard item update item-1 --priority high --due 2025-06-01
  nanoboard item update item-1 --due none --owner ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := flags.patch(cmd, "update item")
			if err != nil {
				return err
			}
			svc, ref, err := cli.locate(cmd.Context(), "update item", args[0])
			if err != nil {
				return err
			}
			if err := svc.UpdateItem(cmd.Context(), ref, patch); err != nil {
				return WrapError("update item", err)
			}
			it, _ := graph.FindItem(svc.Graph(), ref.BoardID, ref.GroupID, ref.ItemID)
			return cli.message(it, "Updated item %s", args[0])
		},
	}
	flags.register(cmd, true)
	return cmd
}

func (cli *CLI) itemMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <item-id> <target-group-id>",
		Short: "Move an item to the end of another group of the same board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ref, err := cli.locate(cmd.Context(), "move item", args[0])
			if err != nil {
				return err
			}
			if err := svc.MoveItem(cmd.Context(), ref.BoardID, ref.GroupID, args[1], ref.ItemID); err != nil {
				return WrapError("move item", err)
			}
			return cli.message(map[string]string{"item": args[0], "group": args[1]}, "Moved item %s to %s", args[0], args[1])
		},
	}
}

func (cli *CLI) itemDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ref, err := cli.locate(cmd.Context(), "delete item", args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteItem(cmd.Context(), ref); err != nil {
				return WrapError("delete item", err)
			}
			return cli.message(map[string]string{"deleted": args[0]}, "Deleted item %s", args[0])
		},
	}
}

func (cli *CLI) itemCommentCommand() *cobra.Command {
	var author, authorID string
	cmd := &cobra.Command{
		Use:   "comment <item-id> <text>",
		Short: "Post a comment on an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ref, err := cli.locate(cmd.Context(), "comment", args[0])
			if err != nil {
				return err
			}
			c, err := svc.AddComment(cmd.Context(), ref, args[1], author, authorID)
			if err != nil {
				return WrapError("comment", err)
			}
			return cli.message(c, "Posted comment %s", c.ID)
		},
	}
	cmd.Flags().StringVar(&author, "author", "Me", "Author display name")
	cmd.Flags().StringVar(&authorID, "author-id", "me", "Author user id")
	return cmd
}

func (cli *CLI) itemLikeCommand() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "like <item-id> <comment-id>",
		Short: "Like a comment, or remove the like if already given",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ref, err := cli.locate(cmd.Context(), "like comment", args[0])
			if err != nil {
				return err
			}
			if err := svc.ToggleCommentLike(cmd.Context(), ref, args[1], userID); err != nil {
				return WrapError("like comment", err)
			}
			return cli.message(map[string]string{"comment": args[1], "user": userID}, "Toggled like on %s", args[1])
		},
	}
	cmd.Flags().StringVar(&userID, "user", "me", "User id giving the like")
	return cmd
}

func (cli *CLI) subtaskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage the subtasks of an item",
	}

	add := &cobra.Command{
		Use:   "add <item-id> <name>",
		Short: "Append a subtask",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ref, err := cli.locate(cmd.Context(), "add subtask", args[0])
			if err != nil {
				return err
			}
			st, err := svc.AddSubtask(cmd.Context(), ref, args[1])
			if err != nil {
				return WrapError("add subtask", err)
			}
			return cli.message(st, "Created subtask %q (%s)", st.Name, st.ID)
		},
	}

	var flags itemFlags
	update := &cobra.Command{
		Use:   "update <item-id> <subtask-id>",
		Short: "Change a subtask's fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ip, err := flags.patch(cmd, "update subtask")
			if err != nil {
				return err
			}
			svc, ref, err := cli.locate(cmd.Context(), "update subtask", args[0])
			if err != nil {
				return err
			}
			patch := graph.SubtaskPatch{
				Name: ip.Name, Status: ip.Status, OwnerID: ip.OwnerID,
				DueDate: ip.DueDate, ClearDueDate: ip.ClearDueDate,
			}
			if err := svc.UpdateSubtask(cmd.Context(), ref, args[1], patch); err != nil {
				return WrapError("update subtask", err)
			}
			return cli.message(map[string]string{"item": args[0], "subtask": args[1]}, "Updated subtask %s", args[1])
		},
	}
	update.Flags().StringVarP(&flags.name, "name", "n", "", "New name")
	update.Flags().StringVarP(&flags.status, "status", "s", "", "Status")
	update.Flags().StringVar(&flags.owner, "owner", "", "Owner user id; empty clears it")
	update.Flags().StringVar(&flags.due, "due", "", "Due date YYYY-MM-DD; 'none' clears it")

	del := &cobra.Command{
		Use:   "delete <item-id> <subtask-id>",
		Short: "Delete a subtask",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ref, err := cli.locate(cmd.Context(), "delete subtask", args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteSubtask(cmd.Context(), ref, args[1]); err != nil {
				return WrapError("delete subtask", err)
			}
			return cli.message(map[string]string{"deleted": args[1]}, "Deleted subtask %s", args[1])
		},
	}

	cmd.AddCommand(add, update, del)
	return cmd
}

func (cli *CLI) itemSearchCommand() *cobra.Command {
	var (
		opts      search.Options
		fields    []string
		limit     int
		highlight bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search items across every board, best matches first",
		Long: `Search item names, descriptions, comments and subtasks across every
board. Owner ids are only searched when asked for with --fields.

Examples:
  nanoboard item search email
  nanoboard item search "launch email" --exact
  nanoboard item search finance --fields owner --board board-1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			opts.Query = args[0]
			for _, f := range fields {
				opts.Fields = append(opts.Fields, search.Field(strings.ToLower(f)))
			}
			if limit > 0 {
				opts.MaxResults = &limit
			}
			opts.EnableHighlight = highlight
			results, err := svc.Search(opts)
			if err != nil {
				return WrapError("search", err)
			}
			return cli.outputResult(results, func(w io.Writer) {
				fmt.Fprintln(w, "SCORE\tBOARD\tGROUP\tID\tNAME\tMATCH")
				for _, r := range results {
					name := r.Item.Name
					if h, ok := r.Highlights[search.FieldName]; ok {
						name = h
					}
					fmt.Fprintf(w, "%.2f\t%s\t%s\t%s\t%s\t%s\n", r.Score, r.BoardName, r.GroupName, r.Item.ID, name, r.MatchType)
				}
			})
		},
	}
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Fields to search (name, description, comments, subtasks, owner)")
	cmd.Flags().StringVar(&opts.BoardID, "board", "", "Only search this board")
	cmd.Flags().BoolVar(&opts.ExactMatch, "exact", false, "Match whole field values only")
	cmd.Flags().BoolVar(&opts.CaseSensitive, "case-sensitive", false, "Match case")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")
	cmd.Flags().BoolVar(&highlight, "highlight", false, "Mark matches in names")
	return cmd
}

func statusNames() []string {
	names := make([]string, 0, len(types.AllStatuses()))
	for _, st := range types.AllStatuses() {
		names = append(names, string(st))
	}
	return names
}

func checkbox(s types.Status) string {
	if s == types.StatusDone {
		return "x"
	}
	return " "
}

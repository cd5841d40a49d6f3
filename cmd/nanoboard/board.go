package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanoboard/formats"
	"github.com/arthur-debert/nanoboard/nanoboard/generate"
	"github.com/arthur-debert/nanoboard/nanoboard/graph"
	"github.com/arthur-debert/nanoboard/nanoboard/query"
	"github.com/arthur-debert/nanoboard/types"
)

func (cli *CLI) boardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage boards",
	}
	cmd.AddCommand(
		cli.boardListCommand(),
		cli.boardAddCommand(),
		cli.boardShowCommand(),
		cli.boardUpdateCommand(),
		cli.boardDeleteCommand(),
		cli.boardSummaryCommand(),
		cli.boardImportCommand(),
		cli.boardExportCommand(),
		cli.boardSchemaCommand(),
	)
	return cmd
}

// boardRow is the listing shape of a board
type boardRow struct {
	WorkspaceID string `json:"workspaceId" yaml:"workspaceId"`
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Groups      int    `json:"groups" yaml:"groups"`
	Items       int    `json:"items" yaml:"items"`
}

func (cli *CLI) boardListCommand() *cobra.Command {
	var workspaceID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			rows := []boardRow{}
			for _, ws := range svc.Graph().Workspaces {
				if workspaceID != "" && ws.ID != workspaceID {
					continue
				}
				for _, b := range ws.Boards {
					rows = append(rows, boardRow{
						WorkspaceID: ws.ID, ID: b.ID, Name: b.Name,
						Groups: len(b.Groups), Items: query.CountItems(b.Groups),
					})
				}
			}
			return cli.outputResult(rows, func(w io.Writer) {
				fmt.Fprintln(w, "WORKSPACE\tID\tNAME\tGROUPS\tITEMS")
				for _, r := range rows {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", r.WorkspaceID, r.ID, r.Name, r.Groups, r.Items)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Only list boards of this workspace")
	return cmd
}

func (cli *CLI) boardAddCommand() *cobra.Command {
	var workspaceID, description string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an empty board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			wsID, err := defaultWorkspace(svc.Graph(), workspaceID)
			if err != nil {
				return err
			}
			b, err := svc.AddBoard(cmd.Context(), wsID, args[0], description)
			if err != nil {
				return WrapError("add board", err)
			}
			return cli.message(b, "Created board %q (%s)", b.Name, b.ID)
		},
	}
	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace to add the board to (default: the first one)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Board description")
	return cmd
}

// boardFilterFlags holds the view options shared by show and export
type boardFilterFlags struct {
	search     string
	statuses   []string
	priorities []string
	order      []string
	render     string
	kanban     bool
	subtasks   bool
	relative   bool
}

func (f *boardFilterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Only items whose name contains this text")
	cmd.Flags().StringSliceVar(&f.statuses, "status", nil, "Only items with these statuses")
	cmd.Flags().StringSliceVar(&f.priorities, "priority", nil, "Only items with these priorities")
	cmd.Flags().StringSliceVar(&f.order, "order", nil, "Sort items within groups, e.g. --order -priority,due")
	cmd.Flags().StringVarP(&f.render, "render", "r", formats.PlainText.Name, "Document format ("+strings.Join(formats.List(), "|")+")")
	cmd.Flags().BoolVar(&f.kanban, "kanban", false, "Lay items out by status")
	cmd.Flags().BoolVar(&f.subtasks, "subtasks", false, "Include subtasks")
	cmd.Flags().BoolVar(&f.relative, "relative", false, "Show due dates relative to now")
}

func (f *boardFilterFlags) filter() (query.Filter, error) {
	statuses := make([]types.Status, 0, len(f.statuses))
	for _, s := range f.statuses {
		st, err := types.ParseStatus(s)
		if err != nil {
			return query.Filter{}, NewValidationError("filter board", "status", s, statusHint())
		}
		statuses = append(statuses, st)
	}
	priorities := make([]types.Priority, 0, len(f.priorities))
	for _, s := range f.priorities {
		p, err := types.ParsePriority(s)
		if err != nil {
			return query.Filter{}, NewValidationError("filter board", "priority", s, priorityHint())
		}
		priorities = append(priorities, p)
	}
	return query.NewFilter(f.search, statuses, priorities), nil
}

// view applies the filter and order to a board
func (f *boardFilterFlags) view(cli *CLI, cmd *cobra.Command, boardID string) (*types.Board, error) {
	svc, err := cli.service(cmd.Context())
	if err != nil {
		return nil, err
	}
	filter, err := f.filter()
	if err != nil {
		return nil, err
	}
	order, err := query.ParseOrder(f.order)
	if err != nil {
		return nil, NewValidationError("sort board", "order", strings.Join(f.order, ","),
			"Sortable fields: name, status, priority, due, updated, owner")
	}
	b, err := svc.FilteredBoard(boardID, filter)
	if err != nil {
		return nil, WrapError("show board", err)
	}
	if len(order) > 0 {
		sorted := *b
		sorted.Groups = query.SortGroups(b.Groups, order)
		b = &sorted
	}
	return b, nil
}

func (f *boardFilterFlags) document(b *types.Board) (string, error) {
	format, err := formats.Get(f.render)
	if err != nil {
		return "", NewValidationError("render board", "render", f.render, "Available formats: "+strings.Join(formats.List(), ", "))
	}
	opts := formats.RenderOptions{Kanban: f.kanban, Subtasks: f.subtasks}
	if f.relative {
		opts.Now = time.Now()
	}
	return format.Render(b, opts), nil
}

func (cli *CLI) boardShowCommand() *cobra.Command {
	var flags boardFilterFlags
	cmd := &cobra.Command{
		Use:   "show <board-id>",
		Short: "Show a board, optionally filtered and sorted",
		Long: `Show a board as a document, or as JSON/YAML with --format.

Examples:
  nanoboard board show board-1 --search email --status working
  nanoboard board show board-1 --render markdown --kanban --subtasks
  nanoboard board show board-1 --order -priority --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := flags.view(cli, cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := flags.document(b)
			if err != nil {
				return err
			}
			return cli.outputResult(b, func(w io.Writer) {
				fmt.Fprint(w, doc)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func (cli *CLI) boardUpdateCommand() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "update <board-id>",
		Short: "Rename a board or change its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			var patch graph.BoardPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if err := svc.UpdateBoard(cmd.Context(), args[0], patch); err != nil {
				return WrapError("update board", err)
			}
			b, err := svc.Board(args[0])
			if err != nil {
				return WrapError("update board", err)
			}
			return cli.message(b, "Updated board %s", b.ID)
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func (cli *CLI) boardDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <board-id>",
		Short: "Delete a board and everything on it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.DeleteBoard(cmd.Context(), args[0]); err != nil {
				return WrapError("delete board", err)
			}
			return cli.message(map[string]string{"deleted": args[0]}, "Deleted board %s", args[0])
		},
	}
}

// summaryView is the output shape of board summary
type summaryView struct {
	Total      int            `json:"total" yaml:"total"`
	Done       float64        `json:"done" yaml:"done"`
	ByStatus   map[string]int `json:"byStatus" yaml:"byStatus"`
	ByPriority map[string]int `json:"byPriority" yaml:"byPriority"`
	Overdue    []string       `json:"overdue" yaml:"overdue"`
}

func (cli *CLI) boardSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <board-id>",
		Short: "Count a board's items by status and priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			sum, err := svc.Summary(args[0])
			if err != nil {
				return WrapError("summarize board", err)
			}
			view := summaryView{
				Total:      sum.Total,
				Done:       sum.DoneRatio(),
				ByStatus:   make(map[string]int),
				ByPriority: make(map[string]int),
				Overdue:    make([]string, 0, len(sum.Overdue)),
			}
			for _, st := range types.AllStatuses() {
				view.ByStatus[string(st)] = sum.ByStatus[st]
			}
			for _, p := range types.AllPriorities() {
				view.ByPriority[string(p)] = sum.ByPriority[p]
			}
			for _, it := range sum.Overdue {
				view.Overdue = append(view.Overdue, it.Name)
			}
			return cli.outputResult(view, func(w io.Writer) {
				fmt.Fprintf(w, "Items\t%d\n", view.Total)
				fmt.Fprintf(w, "Done\t%.0f%%\n", view.Done*100)
				for _, st := range types.AllStatuses() {
					fmt.Fprintf(w, "%s\t%d\n", st, view.ByStatus[string(st)])
				}
				for _, p := range types.AllPriorities() {
					fmt.Fprintf(w, "%s priority\t%d\n", p, view.ByPriority[string(p)])
				}
				if len(view.Overdue) > 0 {
					fmt.Fprintf(w, "Overdue\t%s\n", strings.Join(view.Overdue, ", "))
				}
			})
		},
	}
}

func (cli *CLI) boardImportCommand() *cobra.Command {
	var workspaceID, input string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create a board from a generated JSON draft or a markdown outline",
		Long: `Create a board from a file. JSON files follow the draft shape printed by
'nanoboard board schema'; markdown files use the layout written by
'nanoboard board export --render markdown'.

Every entity gets a fresh id. Unknown statuses become "Not Started" and
unknown priorities "Medium".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return WrapError("import board", err, CommonSuggestions.CheckPerms)
			}
			if input == "" {
				input = "json"
				if ext := strings.ToLower(filepath.Ext(args[0])); ext == formats.Markdown.Extension || ext == ".markdown" {
					input = formats.Markdown.Name
				}
			}

			var b *types.Board
			switch input {
			case "json":
				b, err = generate.DecodeBoard(string(raw), cli.idGenerator(), time.Now())
			case formats.Markdown.Name:
				var draft generate.BoardDraft
				draft, err = formats.Markdown.Parse(string(raw))
				if err == nil {
					b, err = generate.BuildBoard(draft, cli.idGenerator(), time.Now())
				}
			default:
				return NewValidationError("import board", "input", input, "Use --input json or markdown")
			}
			if err != nil {
				return &CLIError{Operation: "import board", Cause: "the file does not describe a board", Details: err.Error(), Underlying: err}
			}

			svc, err := cli.service(cmd.Context())
			if err != nil {
				return err
			}
			wsID, err := defaultWorkspace(svc.Graph(), workspaceID)
			if err != nil {
				return err
			}
			if err := svc.ImportBoard(cmd.Context(), wsID, b); err != nil {
				return WrapError("import board", err)
			}
			return cli.message(b, "Imported board %q (%s) with %d items", b.Name, b.ID, query.CountItems(b.Groups))
		},
	}
	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace to add the board to (default: the first one)")
	cmd.Flags().StringVar(&input, "input", "", "Input kind (json|markdown); guessed from the extension when empty")
	return cmd
}

func (cli *CLI) boardExportCommand() *cobra.Command {
	var flags boardFilterFlags
	var output string
	cmd := &cobra.Command{
		Use:   "export <board-id>",
		Short: "Write a board document to a file or stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := flags.view(cli, cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := flags.document(b)
			if err != nil {
				return err
			}
			if output == "" {
				_, err := fmt.Fprint(cli.out, doc)
				return err
			}
			if err := os.WriteFile(output, []byte(doc), 0644); err != nil {
				return WrapError("export board", err, CommonSuggestions.CheckPerms)
			}
			return cli.message(map[string]string{"board": b.ID, "file": output}, "Wrote %s", output)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default: stdout)")
	return cmd
}

func (cli *CLI) boardSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of a board draft accepted by 'board import'",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder := json.NewEncoder(cli.out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(generate.SchemaFor(&generate.BoardDraft{}))
		},
	}
}

func statusHint() string {
	names := make([]string, 0, len(types.AllStatuses()))
	for _, st := range types.AllStatuses() {
		names = append(names, fmt.Sprintf("%q", st))
	}
	return "Statuses: " + strings.Join(names, ", ")
}

func priorityHint() string {
	names := make([]string, 0, len(types.AllPriorities()))
	for _, p := range types.AllPriorities() {
		names = append(names, string(p))
	}
	return "Priorities: " + strings.Join(names, ", ")
}

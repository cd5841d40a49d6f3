package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanoboard/nanoboard/export"
	"github.com/arthur-debert/nanoboard/nanoboard/migration"
	"github.com/arthur-debert/nanoboard/nanoboard/storage"
)

func (cli *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect, migrate, export and import the raw store",
	}
	cmd.AddCommand(
		cli.storeKeysCommand(),
		cli.storeGetCommand(),
		cli.storeMigrateCommand(),
		cli.storeExportCommand(),
		cli.storeImportCommand(),
	)
	return cmd
}

// keyRow describes one stored key
type keyRow struct {
	Key   string `json:"key" yaml:"key"`
	Bytes int    `json:"bytes" yaml:"bytes"`
}

func (cli *CLI) storeKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List stored keys and their sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, err := cli.store(cmd.Context())
			if err != nil {
				return err
			}
			keys, err := kv.Keys(cmd.Context())
			if err != nil {
				return WrapError("list keys", err)
			}
			rows := make([]keyRow, 0, len(keys))
			for _, k := range keys {
				raw, _, err := kv.Get(cmd.Context(), k)
				if err != nil {
					return WrapError("list keys", err)
				}
				rows = append(rows, keyRow{Key: k, Bytes: len(raw)})
			}
			return cli.outputResult(rows, func(w io.Writer) {
				fmt.Fprintln(w, "KEY\tSIZE")
				for _, r := range rows {
					fmt.Fprintf(w, "%s\t%s\n", r.Key, humanize.Bytes(uint64(r.Bytes)))
				}
			})
		},
	}
}

func (cli *CLI) storeGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key|collection>",
		Short: "Print a stored value as indented JSON",
		Long: `Print a stored value. The argument is either a full key such as
nanoboard_workspaces_v2 or a collection name such as workspaces, which
resolves to the current version.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if k, ok := storage.LookupKey(key); ok {
				key = k.String()
			}
			kv, err := cli.store(cmd.Context())
			if err != nil {
				return err
			}
			raw, ok, err := kv.Get(cmd.Context(), key)
			if err != nil {
				return WrapError("read key", err)
			}
			if !ok {
				return NewNotFoundError("read key", "key", key, "Run 'nanoboard store keys' to see the stored keys")
			}
			var buf bytes.Buffer
			if err := json.Indent(&buf, raw, "", "  "); err != nil {
				// not JSON, print as stored
				_, err := cli.out.Write(raw)
				return err
			}
			buf.WriteByte('\n')
			_, err = buf.WriteTo(cli.out)
			return err
		},
	}
}

func (cli *CLI) storeMigrateCommand() *cobra.Command {
	var (
		dryRun     bool
		statusOnly bool
	)
	cmd := &cobra.Command{
		Use:   "migrate [collection...]",
		Short: "Upgrade collections stored under older schema versions",
		Long: `Upgrade collections stored under older schema versions. The newest older
version found is rewritten to the current version; older keys are kept.

Examples:
  nanoboard store migrate --status
  nanoboard store migrate --dry-run
  nanoboard store migrate workspaces`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := storage.RegisteredKeys()
			if len(args) > 0 {
				keys = keys[:0:0]
				for _, name := range args {
					k, ok := storage.LookupKey(name)
					if !ok {
						return NewNotFoundError("migrate", "collection", name)
					}
					keys = append(keys, k)
				}
			}
			kv, err := cli.store(cmd.Context())
			if err != nil {
				return err
			}
			m := migration.NewMigrator().WithLogger(cli.logger)

			if statusOnly {
				statuses, err := m.Status(cmd.Context(), kv, keys)
				if err != nil {
					return WrapError("inspect migrations", err)
				}
				return cli.outputResult(statuses, func(w io.Writer) {
					fmt.Fprintln(w, "KEY\tCURRENT\tSTORED\tPENDING")
					for _, st := range statuses {
						fmt.Fprintf(w, "%s\t%t\t%s\t%t\n", st.Key, st.Current, storedLabel(st.Stored), st.Pending())
					}
				})
			}

			results, err := m.RunAll(cmd.Context(), kv, keys, migration.Options{DryRun: dryRun, Verbose: cli.viperInst.GetBool("verbose")})
			if err != nil {
				return WrapError("migrate", err)
			}
			if err := cli.outputResult(results, func(w io.Writer) { cli.writeMigrationResults(w, results, dryRun) }); err != nil {
				return err
			}
			for _, r := range results {
				if !r.Success {
					return &CLIError{Operation: "migrate", Cause: fmt.Sprintf("migration of %s failed", r.Key)}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Preview changes without applying them")
	cmd.Flags().BoolVar(&statusOnly, "status", false, "Only report which collections need migrating")
	return cmd
}

func storedLabel(v int) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("v%d", v)
}

// writeMigrationResults prints messages then a summary per key
func (cli *CLI) writeMigrationResults(w io.Writer, results []*migration.Result, dryRun bool) {
	verbose := cli.viperInst.GetBool("verbose")
	for _, r := range results {
		for _, msg := range r.Messages {
			switch msg.Level {
			case migration.LevelError:
				fmt.Fprintf(w, "ERROR: %s\n", msg.Text)
			case migration.LevelWarning:
				fmt.Fprintf(w, "WARN: %s\n", msg.Text)
			case migration.LevelInfo:
				fmt.Fprintf(w, "%s\n", msg.Text)
			case migration.LevelDebug:
				if verbose {
					fmt.Fprintf(w, "DEBUG: %s\n", msg.Text)
				}
			}
		}
		switch {
		case r.Code == migration.CodeNothingToDo:
			fmt.Fprintf(w, "%s\tup to date\n", r.Key)
		case r.Success:
			fmt.Fprintf(w, "%s\tv%d -> v%d\tmodified %d/%d\t%s\n", r.Key, r.FromVersion, r.ToVersion,
				r.Stats.Modified, r.Stats.Objects, r.Stats.Duration)
		default:
			fmt.Fprintf(w, "%s\tfailed\n", r.Key)
		}
	}
	if dryRun {
		fmt.Fprintln(w, "(DRY RUN - no changes applied)")
	}
}

func (cli *CLI) storeExportCommand() *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "export [collection...]",
		Short: "Write a snapshot of the stored collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return NewValidationError("export", "snapshot format", format, "Use json or yaml")
			}
			opts := export.Options{}
			for _, name := range args {
				k, ok := storage.LookupKey(name)
				if !ok {
					return NewNotFoundError("export", "collection", name)
				}
				opts.Keys = append(opts.Keys, k)
			}
			kv, err := cli.store(cmd.Context())
			if err != nil {
				return err
			}
			snap, err := export.Export(cmd.Context(), kv, opts)
			if err != nil {
				return WrapError("export", err)
			}

			if output == "" {
				return export.Encode(cli.out, snap, f)
			}
			file, err := os.Create(output)
			if err != nil {
				return WrapError("export", err, CommonSuggestions.CheckPerms)
			}
			if err := export.Encode(file, snap, f); err != nil {
				_ = file.Close()
				return WrapError("export", err)
			}
			if err := file.Close(); err != nil {
				return WrapError("export", err)
			}
			return cli.message(map[string]interface{}{"file": output, "keys": snap.Keys()},
				"Wrote %d collections to %s", len(snap.Collections), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default: stdout)")
	cmd.Flags().StringVar(&format, "snapshot-format", "json", "Snapshot encoding (json|yaml)")
	return cmd
}

func (cli *CLI) storeImportCommand() *cobra.Command {
	var (
		format string
		opts   export.ImportOptions
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a snapshot written by 'store export'",
		Long: `Load a snapshot written by 'store export'. Keys that already hold a
value are skipped unless --overwrite is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return NewValidationError("import", "snapshot format", format, "Use json or yaml")
			}
			file, err := os.Open(args[0])
			if err != nil {
				return WrapError("import", err, CommonSuggestions.CheckPerms)
			}
			defer func() { _ = file.Close() }()
			snap, err := export.Decode(file, f)
			if err != nil {
				return &CLIError{Operation: "import", Cause: "the file is not a snapshot", Details: err.Error(), Underlying: err}
			}
			kv, err := cli.store(cmd.Context())
			if err != nil {
				return err
			}
			result, err := export.Import(cmd.Context(), kv, snap, opts)
			if err != nil {
				return WrapError("import", err, CommonSuggestions.TryDryRun)
			}
			return cli.outputResult(result, func(w io.Writer) {
				for _, k := range result.Written {
					fmt.Fprintf(w, "wrote\t%s\n", k)
				}
				for _, k := range result.Skipped {
					fmt.Fprintf(w, "skipped\t%s\t(exists; use --overwrite)\n", k)
				}
				if opts.DryRun {
					fmt.Fprintln(w, "(DRY RUN - no changes applied)")
				}
			})
		},
	}
	cmd.Flags().StringVar(&format, "snapshot-format", "json", "Snapshot encoding (json|yaml)")
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "Replace keys that already hold a value")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "Preview without writing")
	return cmd
}

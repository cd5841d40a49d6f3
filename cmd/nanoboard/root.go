package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthur-debert/nanoboard/nanoboard/ids"
	"github.com/arthur-debert/nanoboard/nanoboard/storage"
	"github.com/arthur-debert/nanoboard/nanoboard/workspace"
)

// CLI wires the cobra command tree to a store chosen through viper
type CLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper
	out       io.Writer
	errOut    io.Writer

	// ids overrides the entity id generator; nil means ids.Default
	ids ids.Generator

	logger *slog.Logger
	kv     storage.KV
	svc    *workspace.Service
}

// NewCLI creates the command tree writing results to out and diagnostics
// to errOut
func NewCLI(out, errOut io.Writer) *CLI {
	cli := &CLI{
		viperInst: viper.New(),
		out:       out,
		errOut:    errOut,
		logger:    slog.Default(),
	}
	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()
	return cli
}

// Execute runs the command line in args
func (cli *CLI) Execute(ctx context.Context, args []string) error {
	cli.rootCmd.SetArgs(args)
	cli.rootCmd.SetOut(cli.out)
	cli.rootCmd.SetErr(cli.errOut)
	defer cli.close()
	return cli.rootCmd.ExecuteContext(ctx)
}

// setupViperConfig configures Viper with environment variables and config files
func (cli *CLI) setupViperConfig() {
	if configFile := os.Getenv("NANOBOARD_CONFIG"); configFile != "" {
		cli.viperInst.SetConfigFile(configFile)
	} else {
		cli.viperInst.SetConfigName("nanoboard")
		cli.viperInst.AddConfigPath(".")
		cli.viperInst.AddConfigPath("$HOME/.nanoboard")
	}

	cli.viperInst.SetEnvPrefix("NANOBOARD")
	cli.viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cli.viperInst.AutomaticEnv()

	// Read config file if it exists (ignore errors)
	_ = cli.viperInst.ReadInConfig()
}

func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   "nanoboard",
		Short: "Boards, items and automation flows from the command line",
		Long: `nanoboard manages workspaces of boards (groups of items with comments and
subtasks) and automation flows, stored in a pluggable key-value backend.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (NANOBOARD_*)
3. Configuration file (NANOBOARD_CONFIG, ./nanoboard.yaml or ~/.nanoboard/nanoboard.yaml)

Examples:
  nanoboard --backend sqlite --path boards.db board list
  NANOBOARD_BACKEND=redis NANOBOARD_REDIS_URL=redis://localhost:6379/0 nanoboard flow list
  nanoboard board show board-1 --render markdown --kanban`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := initLogging(cli.viperInst.GetString("log-level"), cli.viperInst.GetBool("verbose"), cli.errOut)
			if err != nil {
				// logging is best effort
				fmt.Fprintf(cli.errOut, "Warning: %v\n", err)
				return nil
			}
			cli.logger = logger
			return nil
		},
	}
	cli.addGlobalFlags()
}

// addGlobalFlags adds persistent flags that apply to all commands
func (cli *CLI) addGlobalFlags() {
	flags := cli.rootCmd.PersistentFlags()

	flags.String("backend", storage.BackendFile, "Storage backend (memory|file|sqlite|redis)")
	flags.String("path", "nanoboard.json", "Store path for the file and sqlite backends")
	flags.String("redis-url", "", "Redis URL for the redis backend")
	flags.String("redis-prefix", storage.DefaultRedisPrefix, "Key prefix on a shared Redis")
	flags.Int("cache-size", 0, "Number of values kept in the read cache, for single-writer stores (0 disables it)")

	flags.StringP("format", "f", "table", "Output format (table|json|yaml)")
	flags.String("log-level", "warn", "Log level (debug|info|warn|error)")
	flags.BoolP("verbose", "v", false, "Also write logs to stderr")

	for _, name := range []string{"backend", "path", "redis-url", "redis-prefix", "cache-size", "format", "log-level", "verbose"} {
		_ = cli.viperInst.BindPFlag(name, flags.Lookup(name))
	}
}

func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.workspaceCommand(),
		cli.boardCommand(),
		cli.groupCommand(),
		cli.itemCommand(),
		cli.flowCommand(),
		cli.storeCommand(),
	)
}

// storeConfig reads the backend settings from viper
func (cli *CLI) storeConfig() storage.Config {
	return storage.Config{
		Backend:     cli.viperInst.GetString("backend"),
		Path:        cli.viperInst.GetString("path"),
		RedisURL:    cli.viperInst.GetString("redis-url"),
		RedisPrefix: cli.viperInst.GetString("redis-prefix"),
		CacheSize:   cli.viperInst.GetInt("cache-size"),
	}
}

// store opens the configured backend once per invocation
func (cli *CLI) store(ctx context.Context) (storage.KV, error) {
	if cli.kv != nil {
		return cli.kv, nil
	}
	cfg := cli.storeConfig()
	if err := cfg.Validate(); err != nil {
		return nil, NewConfigError("open store", err.Error(), CommonSuggestions.CheckConfig, CommonSuggestions.CheckFlags)
	}
	kv, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, NewStoreError("open store", err, CommonSuggestions.CheckPath, CommonSuggestions.CheckPerms)
	}
	cli.logger.Debug("opened store", "backend", cfg.Backend, "path", cfg.Path)
	cli.kv = kv
	return kv, nil
}

// service opens the workspace service over the configured store
func (cli *CLI) service(ctx context.Context) (*workspace.Service, error) {
	if cli.svc != nil {
		return cli.svc, nil
	}
	kv, err := cli.store(ctx)
	if err != nil {
		return nil, err
	}
	opts := []workspace.Option{workspace.WithLogger(cli.logger)}
	if cli.ids != nil {
		opts = append(opts, workspace.WithIDGenerator(cli.ids))
	}
	svc, err := workspace.Open(ctx, kv, opts...)
	if err != nil {
		return nil, NewStoreError("open workspace", err)
	}
	cli.svc = svc
	return svc, nil
}

func (cli *CLI) idGenerator() ids.Generator {
	if cli.ids != nil {
		return cli.ids
	}
	return ids.Default
}

func (cli *CLI) close() {
	if cli.kv == nil {
		return
	}
	if err := cli.kv.Close(); err != nil {
		cli.logger.Warn("failed to close store", "error", err)
	}
	cli.kv, cli.svc = nil, nil
}

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/itdwgmbh/odoo-xmlrpc-go/internal/config"
	"github.com/itdwgmbh/odoo-xmlrpc-go/pkg/odoo"
)

// ErrConfig is wrapped by every error caused by loading or validating the configuration
var ErrConfig = errors.New("configuration error")

// modelClient is the subset of *odoo.Client used by the commands
type modelClient interface {
	Version(ctx context.Context) (map[string]any, error)
	InvokeKw(ctx context.Context, model, method string, args []any, kwargs map[string]any) (any, error)
	Create(ctx context.Context, model string, values map[string]any) (int64, error)
	Read(ctx context.Context, model string, opts odoo.ReadOptions) ([]odoo.Record, error)
	SearchCount(ctx context.Context, model string, domain []any) (int64, error)
	Update(ctx context.Context, model string, id int64, values map[string]any) error
	Delete(ctx context.Context, model string, id int64) error
	Close() error
}

var newClient = func(cfg *config.Config, logs io.Writer) (modelClient, error) {
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	c, err := odoo.New(cfg.Credentials(), odoo.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return c, nil
}

type globalFlags struct {
	cfgFile string
	envFile string
	verbose bool
}

// NewRootCmd builds the odoo-xmlrpc command tree
func NewRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:   "odoo-xmlrpc",
		Short: "Odoo XML-RPC client",
		Long: `odoo-xmlrpc runs CRUD operations and arbitrary model methods against
the XML-RPC API of an Odoo server.

Connection settings come from a YAML config file and the environment
variables ODOO_URL, ODOO_DB, ODOO_USERNAME, ODOO_PASSWORD and ODOO_LOG_LEVEL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.cfgFile, "config", "", "Config file (YAML)")
	root.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(
		newVersionCmd(),
		newServerVersionCmd(&g),
		newCreateCmd(&g),
		newReadCmd(&g),
		newCountCmd(&g),
		newUpdateCmd(&g),
		newDeleteCmd(&g),
		newCallCmd(&g),
	)
	return root
}

// withClient loads the configuration, builds a client and runs fn with it
func withClient(cmd *cobra.Command, g *globalFlags, fn func(ctx context.Context, c modelClient) error) error {
	cfg, err := config.Load(config.Options{Path: g.cfgFile, EnvFile: g.envFile})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if g.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	c, err := newClient(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	defer c.Close()

	return fn(cmd.Context(), c)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Package command defines the erpctl cobra commands.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/erp/client/internal/application/dispatch"
	"github.com/erp/client/internal/bootstrap"
	"github.com/erp/client/internal/domain/shared"
	"github.com/erp/client/internal/infrastructure/config"
	"github.com/erp/client/internal/interfaces/cli"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options are the persistent flags shared by every command
type options struct {
	configPath string
	baseURL    string
	useMock    bool
	yes        bool
	verbose    bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewRootCommand builds erpctl. Output goes to stdout, notices and logs to
// stderr.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	o := &options{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "erpctl",
		Short:         "Command line client for the ERP API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "", "config file (default ./config.toml)")
	flags.StringVar(&o.baseURL, "base-url", "", "backend base URL, overrides api.base_url")
	flags.BoolVar(&o.useMock, "mock", true, "answer non-auth calls from the built-in mock backend")
	flags.BoolVarP(&o.yes, "yes", "y", false, "accept the re-login prompt without asking")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newLoginCommand(o),
		newLogoutCommand(o),
		newWhoamiCommand(o),
		newRequestCommand(o, "get", "GET a path and print the envelope"),
		newRequestCommand(o, "post", "POST JSON to a path and print the envelope"),
		newRequestCommand(o, "put", "PUT JSON to a path and print the envelope"),
		newRequestCommand(o, "delete", "DELETE a path and print the envelope"),
		newListCommand(o),
		newCollectionsCommand(o),
	)
	return root
}

// Execute runs erpctl with the process streams
func Execute() int {
	root := NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if o.baseURL != "" {
		cfg.API.BaseURL = strings.TrimRight(o.baseURL, "/")
	}
	if cmd.Flags().Changed("mock") {
		cfg.API.UseMock = o.useMock
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// client wires a client for one command invocation
func (o *options) client(cmd *cobra.Command) (*bootstrap.Client, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := bootstrap.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	var prompter dispatch.Prompter = cli.NewPrompter(isTerminal(o.stdin), false)
	if o.yes {
		prompter = cli.StaticPrompter(true)
	}

	nav := cli.NewNavigator(o.stderr, log)
	return bootstrap.NewClient(cmd.Context(), cfg, log, bootstrap.Hooks{
		Notifier:  cli.NewNotifier(o.stderr, log),
		Prompter:  prompter,
		Navigator: nav,
		Observer:  cli.NewSessionObserver(nav, log),
		Output:    o.stderr,
	})
}

// withClient runs fn and always closes the client
func (o *options) withClient(cmd *cobra.Command, fn func(*bootstrap.Client) error) error {
	c, err := o.client(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			c.Logger.Warn("failed to close client", zap.Error(err))
		}
		_ = c.Logger.Sync()
	}()
	return fn(c)
}

func (o *options) printJSON(v any) error {
	enc := json.NewEncoder(o.stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// printEnvelope prints env and turns envelope failures into an error so
// the exit status reflects them
func (o *options) printEnvelope(env *shared.Envelope) error {
	if err := o.printJSON(env); err != nil {
		return err
	}
	if !env.IsSuccess() {
		return fmt.Errorf("request failed with code %d: %s", env.Code, env.Message)
	}
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

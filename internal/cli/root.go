// Package cli implements the subway command-line client on top of the
// lines and session stores.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/subwaymap/internal/client"
	"github.com/atinyakov/subwaymap/internal/client/api"
	"github.com/atinyakov/subwaymap/internal/client/dispatch"
	"github.com/atinyakov/subwaymap/internal/client/store"
	"github.com/atinyakov/subwaymap/internal/client/transport"
	"github.com/atinyakov/subwaymap/internal/logger"
)

// TokenEnv is the environment variable read as the default --token.
const TokenEnv = "SUBWAY_TOKEN"

// errNoToken is returned by commands that need a session when none is given.
var errNoToken = errors.New("not logged in: pass --token or set " + TokenEnv)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	URL     string
	CAFile  string
	Token   string
	Timeout time.Duration
	Verbose bool
}

// NewRootCommand creates the root command of the subway CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:          "subway",
		Short:        "subway - manage subway lines",
		Long:         "A command-line client for the subway lines service.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.URL, "url", "http://localhost:8080", "server base URL")
	cmd.PersistentFlags().StringVar(&opts.CAFile, "ca", "", "CA certificate trusted for the server's TLS certificate")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", os.Getenv(TokenEnv), "access token (default $"+TokenEnv+")")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", transport.DefaultTimeout, "request timeout")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewLinesCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))

	return cmd
}

// app is one client session of a command run.
type app struct {
	client   *client.Client
	log      *zap.Logger
	registry *prometheus.Registry
}

func newApp(opts *RootOptions) (*app, error) {
	log, err := logger.NewConsole(opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	hc, err := transport.NewHTTPClient(opts.CAFile, opts.Timeout)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	metrics, err := dispatch.NewPrometheusRecorder(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	d := dispatch.New(dispatch.WithLogger(log), dispatch.WithMetrics(metrics))

	return &app{
		client:   client.New(opts.URL, transport.New(hc, log), d),
		log:      log,
		registry: reg,
	}, nil
}

func (a *app) close() {
	a.client.Wait()
	_ = a.log.Sync()
}

// resume restores the session of token so line commands carry it.
func (a *app) resume(ctx context.Context, token string) error {
	if token == "" {
		return errNoToken
	}
	if _, err := a.client.ResumeByToken(ctx, token).Await(ctx); err != nil {
		return fmt.Errorf("%s: %s", store.MsgLoginFailed, api.Message(err))
	}
	return nil
}

// commandError pairs the store's status message with the diagnostic of err.
func commandError(status string, err error) error {
	if status == "" {
		return errors.New(api.Message(err))
	}
	return fmt.Errorf("%s: %s", status, api.Message(err))
}

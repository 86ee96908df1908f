package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/atinyakov/subwaymap/internal/client/api"
	"github.com/atinyakov/subwaymap/internal/client/store"
	"github.com/atinyakov/subwaymap/internal/models"
)

const shellHelp = `Available commands:
  login <email> <password>   log in
  resume <token>             restore a session from a token
  logout                     forget the session
  whoami                     show the session
  lines                      fetch and list lines
  add <name> <up> <down> <distance> [color]
                             create a line
  delete <id>                delete a line
  clear                      dismiss status messages
  stats                      show command counters
  help, exit`

// NewShellCommand creates the interactive shell command.
func NewShellCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			sh := newShell(a, cmd.OutOrStdout())
			defer sh.close()

			ctx := cmd.Context()
			if opts.Token != "" {
				sh.exec(ctx, []string{"resume", opts.Token})
			}
			sh.run(ctx, cmd.InOrStdin())
			return nil
		},
	}
}

// shell is the interactive loop. Status messages published by the stores are
// printed as they arrive.
type shell struct {
	app *app

	mu  sync.Mutex
	out io.Writer

	cancels []func()
}

func newShell(a *app, out io.Writer) *shell {
	sh := &shell{app: a, out: out}

	var lastLines, lastLogin string
	sh.cancels = append(sh.cancels,
		a.client.Lines.Subscribe(func(snap store.Snapshot[store.LinesState]) {
			msg := snap.State.Status.Message
			if msg != "" && msg != lastLines {
				sh.printf("* %s\n", msg)
			}
			lastLines = msg
		}),
		a.client.Session.Subscribe(func(snap store.Snapshot[store.SessionState]) {
			msg := snap.State.LoginStatus.Message
			if msg != "" && msg != lastLogin {
				sh.printf("* %s\n", msg)
			}
			lastLogin = msg
		}),
	)
	return sh
}

func (sh *shell) close() {
	for _, cancel := range sh.cancels {
		cancel()
	}
}

func (sh *shell) printf(format string, args ...any) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	fmt.Fprintf(sh.out, format, args...)
}

func (sh *shell) run(ctx context.Context, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for {
		sh.printf("subway> ")
		if !scanner.Scan() {
			sh.printf("\n")
			return
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if !sh.exec(ctx, args) {
			return
		}
	}
}

// exec runs one shell command and reports whether the loop should go on.
func (sh *shell) exec(ctx context.Context, args []string) bool {
	c := sh.app.client

	switch args[0] {
	case "help":
		sh.printf("%s\n", shellHelp)
	case "login":
		if len(args) != 3 {
			sh.printf("Usage: login <email> <password>\n")
			return true
		}
		if _, err := c.Login(ctx, args[1], args[2]).Await(ctx); err != nil {
			sh.printf("error: %s\n", api.Message(err))
			return true
		}
		c.ClearLoginFailure()
		sh.printf("logged in as %s\n", c.Session.State().Email)
	case "resume":
		if len(args) != 2 {
			sh.printf("Usage: resume <token>\n")
			return true
		}
		if _, err := c.ResumeByToken(ctx, args[1]).Await(ctx); err != nil {
			sh.printf("error: %s\n", api.Message(err))
			return true
		}
		sh.printf("logged in as %s\n", c.Session.State().Email)
	case "logout":
		c.Logout()
		c.ClearLines()
		sh.printf("logged out\n")
	case "whoami":
		s := c.Session.State()
		if !s.Authenticated {
			sh.printf("not logged in\n")
			return true
		}
		sh.printf("%s\n", s.Email)
	case "lines":
		if _, err := c.FetchLines(ctx).Await(ctx); err != nil {
			sh.printf("error: %s\n", api.Message(err))
			return true
		}
		sh.mu.Lock()
		printLines(sh.out, c.Lines.State().Items)
		sh.mu.Unlock()
	case "add":
		req, err := parseAdd(args[1:])
		if err != nil {
			sh.printf("%v\n", err)
			return true
		}
		if _, err := c.CreateLine(ctx, req).Await(ctx); err != nil {
			sh.printf("error: %s\n", api.Message(err))
		}
	case "delete":
		if len(args) != 2 {
			sh.printf("Usage: delete <id>\n")
			return true
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			sh.printf("invalid line id %q\n", args[1])
			return true
		}
		if _, err := c.RemoveLine(ctx, id).Await(ctx); err != nil {
			sh.printf("error: %s\n", api.Message(err))
		}
	case "clear":
		c.ClearLineStatus()
		c.ClearLoginFailure()
	case "stats":
		sh.stats()
	case "exit":
		sh.printf("Bye\n")
		return false
	default:
		sh.printf("Unknown command. Type 'help' for a list of commands.\n")
	}
	return true
}

func parseAdd(args []string) (models.CreateLineRequest, error) {
	const usage = "Usage: add <name> <up> <down> <distance> [color]"
	if len(args) < 4 || len(args) > 5 {
		return models.CreateLineRequest{}, fmt.Errorf("%s", usage)
	}
	up, err1 := strconv.ParseInt(args[1], 10, 64)
	down, err2 := strconv.ParseInt(args[2], 10, 64)
	distance, err3 := strconv.Atoi(args[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return models.CreateLineRequest{}, fmt.Errorf("%s", usage)
	}
	req := models.CreateLineRequest{Name: args[0], UpStationID: up, DownStationID: down, Distance: distance}
	if len(args) == 5 {
		req.Color = args[4]
	}
	return req, nil
}

// stats prints the per-command result counters of this session.
func (sh *shell) stats() {
	families, err := sh.app.registry.Gather()
	if err != nil {
		sh.printf("error: %v\n", err)
		return
	}

	var rows []string
	for _, mf := range families {
		if mf.GetName() != "subway_client_commands_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			rows = append(rows, fmt.Sprintf("%s %s %.0f",
				label(m, "command"), label(m, "result"), m.GetCounter().GetValue()))
		}
	}
	if len(rows) == 0 {
		sh.printf("no commands yet\n")
		return
	}
	sort.Strings(rows)
	sh.printf("%s\n", strings.Join(rows, "\n"))
}

func label(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

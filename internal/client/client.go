// Package client is the entry point of the lines synchronization layer. It
// owns the lines and session stores and turns every user intent into a
// dispatched remote command whose outcome lands in the owning store.
package client

import (
	"context"

	"github.com/atinyakov/subwaymap/internal/client/api"
	"github.com/atinyakov/subwaymap/internal/client/dispatch"
	"github.com/atinyakov/subwaymap/internal/client/store"
	"github.com/atinyakov/subwaymap/internal/models"
)

// Command names used for logging and metrics.
const (
	CommandFetchLines    = "lines.fetch"
	CommandCreateLine    = "lines.create"
	CommandRemoveLine    = "lines.remove"
	CommandLogin         = "session.login"
	CommandResumeByToken = "session.resume"
)

// Client wires the stores to the remote service at Endpoint.
type Client struct {
	Endpoint string
	Lines    *store.Store[store.LinesState]
	Session  *store.Store[store.SessionState]

	lines      *api.LinesAPI
	session    *api.SessionAPI
	dispatcher *dispatch.Dispatcher
}

// New returns a Client with empty stores. A nil dispatcher gets a default one.
func New(endpoint string, rq api.Requester, d *dispatch.Dispatcher) *Client {
	if d == nil {
		d = dispatch.New()
	}
	return &Client{
		Endpoint:   endpoint,
		Lines:      store.New(store.NewLinesState()),
		Session:    store.New(store.SessionState{}),
		lines:      &api.LinesAPI{Transport: rq},
		session:    &api.SessionAPI{Transport: rq},
		dispatcher: d,
	}
}

// Wait blocks until every command dispatched so far has been applied.
func (c *Client) Wait() {
	c.dispatcher.Wait()
}

// token is read once per command at dispatch time and never modified.
func (c *Client) token() string {
	return c.Session.State().Token
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) *dispatch.Pending[models.Credentials] {
	endpoint := c.Endpoint
	return dispatch.Dispatch(ctx, c.dispatcher, c.Session, CommandLogin,
		func(ctx context.Context) (models.Credentials, error) {
			return c.session.Login(ctx, endpoint, email, password)
		}, store.ReduceLogin)
}

// ResumeByToken restores a session from a previously issued token.
func (c *Client) ResumeByToken(ctx context.Context, token string) *dispatch.Pending[models.Credentials] {
	endpoint := c.Endpoint
	return dispatch.Dispatch(ctx, c.dispatcher, c.Session, CommandResumeByToken,
		func(ctx context.Context) (models.Credentials, error) {
			return c.session.ResumeByToken(ctx, endpoint, token)
		}, store.ReduceLogin)
}

// Logout clears the session identity and token.
func (c *Client) Logout() {
	c.Session.Apply(store.Logout)
}

// ClearLoginFailure dismisses the login failure flag.
func (c *Client) ClearLoginFailure() {
	c.Session.Apply(store.ClearLoginFailure)
}

// FetchLines replaces the collection with the server's list.
func (c *Client) FetchLines(ctx context.Context) *dispatch.Pending[[]models.Line] {
	endpoint, token := c.Endpoint, c.token()
	return dispatch.Dispatch(ctx, c.dispatcher, c.Lines, CommandFetchLines,
		func(ctx context.Context) ([]models.Line, error) {
			return c.lines.FetchAll(ctx, endpoint, token)
		}, store.ReduceFetchLines)
}

// CreateLine creates a line and prepends it once the server confirms.
func (c *Client) CreateLine(ctx context.Context, req models.CreateLineRequest) *dispatch.Pending[models.Line] {
	endpoint, token := c.Endpoint, c.token()
	return dispatch.Dispatch(ctx, c.dispatcher, c.Lines, CommandCreateLine,
		func(ctx context.Context) (models.Line, error) {
			return c.lines.Create(ctx, endpoint, token, req)
		}, store.ReduceCreateLine)
}

// RemoveLine deletes line id and drops it from the collection once the server
// confirms.
func (c *Client) RemoveLine(ctx context.Context, id int64) *dispatch.Pending[int64] {
	endpoint, token := c.Endpoint, c.token()
	return dispatch.Dispatch(ctx, c.dispatcher, c.Lines, CommandRemoveLine,
		func(ctx context.Context) (int64, error) {
			return c.lines.Remove(ctx, endpoint, token, id)
		}, store.ReduceRemoveLine)
}

// ClearLineStatus dismisses the lines status message and flags.
func (c *Client) ClearLineStatus() {
	c.Lines.Apply(store.ClearLineStatus)
}

// ClearLines empties the lines store.
func (c *Client) ClearLines() {
	c.Lines.Apply(store.ClearLines)
}

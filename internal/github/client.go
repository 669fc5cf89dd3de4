package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/go-github/v81/github"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub REST API for owner existence checks. Lookup
// results are cached for the lifetime of the client, so checking a file
// that names the same team fifty times costs one API call.
type Client struct {
	api  *github.Client
	http *http.Client

	mu    sync.Mutex
	known map[string]ownerStatus
}

type ownerStatus struct {
	exists bool
	err    error
}

type options struct {
	verbose bool
	// writer controls where verbose HTTP logs go (typically stderr) so
	// structured output on stdout stays clean and tests can capture logs.
	writer io.Writer
}

type Option func(*options)

func WithVerbose(enabled bool, writer io.Writer) Option {
	return func(o *options) {
		o.verbose = enabled
		o.writer = writer
	}
}

// loggingRoundTripper wraps an underlying transport and emits one line per
// request and response (including latency) when verbose logging is enabled.
type loggingRoundTripper struct {
	base http.RoundTripper
	w    io.Writer
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	if t.w != nil {
		_, _ = fmt.Fprintf(t.w, "[verbose] github api: %s %s\n", req.Method, req.URL.String())
	}
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start)
	if t.w != nil {
		if err != nil {
			_, _ = fmt.Fprintf(t.w, "[verbose] github api: error after %s: %v\n", dur.Truncate(time.Millisecond), err)
		} else {
			_, _ = fmt.Fprintf(t.w, "[verbose] github api: %d %s (%s)\n", resp.StatusCode, http.StatusText(resp.StatusCode), dur.Truncate(time.Millisecond))
		}
	}
	return resp, err
}

func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("github client: ctx is nil")
	}

	o := &options{}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}
	if o.verbose && o.writer == nil {
		o.writer = os.Stderr
	}

	transport := http.DefaultTransport
	if o.verbose {
		transport = &loggingRoundTripper{base: transport, w: o.writer}
	}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{Source: ts, Base: transport}
	}
	// Always provide an http.Client so verbose logging works even without a token.
	tc := &http.Client{Transport: transport}

	return &Client{
		api:   github.NewClient(tc),
		http:  tc,
		known: make(map[string]ownerStatus),
	}, nil
}

// OwnerExists reports whether owner (an "@user", "@org/team", or email
// form) resolves on GitHub. Emails cannot be looked up through the API
// and always report true. A definite 404 reports false with a nil error;
// transport failures and other API errors return the error so callers
// can distinguish "does not exist" from "could not check".
func (c *Client) OwnerExists(ctx context.Context, owner string) (bool, error) {
	c.mu.Lock()
	if st, ok := c.known[owner]; ok {
		c.mu.Unlock()
		return st.exists, st.err
	}
	c.mu.Unlock()

	exists, err := c.lookup(ctx, owner)

	// Don't cache context cancellation; the next call may have time.
	if err == nil || ctx.Err() == nil {
		c.mu.Lock()
		c.known[owner] = ownerStatus{exists: exists, err: err}
		c.mu.Unlock()
	}
	return exists, err
}

func (c *Client) lookup(ctx context.Context, owner string) (bool, error) {
	user, org, team, kind := splitOwner(owner)
	switch kind {
	case lookupUser:
		_, resp, err := c.api.Users.Get(ctx, user)
		return interpret(resp, err)
	case lookupTeam:
		_, resp, err := c.api.Teams.GetTeamBySlug(ctx, org, team)
		return interpret(resp, err)
	default:
		return true, nil
	}
}

type lookupKind int

const (
	lookupSkip lookupKind = iota
	lookupUser
	lookupTeam
)

// splitOwner breaks an owner handle into its API lookup parts. Emails
// and malformed handles come back as lookupSkip.
func splitOwner(owner string) (user, org, team string, kind lookupKind) {
	if len(owner) < 2 || owner[0] != '@' {
		return "", "", "", lookupSkip
	}
	rest := owner[1:]
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			return "", rest[:i], rest[i+1:], lookupTeam
		}
	}
	return rest, "", "", lookupUser
}

func interpret(resp *github.Response, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return false, err
}

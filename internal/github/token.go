package github

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

type TokenSource string

const (
	TokenSourceExplicit TokenSource = "explicit"
	TokenSourceEnv      TokenSource = "env:GITHUB_TOKEN"
	TokenSourceGHCLI    TokenSource = "gh"
)

// ghTokenTimeout bounds the `gh auth token` call so a broken gh config
// or credential helper doesn't hang owner checks.
const ghTokenTimeout = 5 * time.Second

// ResolveToken resolves a GitHub access token without ever printing it.
//
// Precedence:
//  1. provided (if non-empty)
//  2. GITHUB_TOKEN env var
//  3. GitHub CLI: `gh auth token -h github.com`
//
// An empty token with a nil error means no credentials were found;
// callers fall back to unauthenticated requests.
func ResolveToken(ctx context.Context, provided string) (token string, source TokenSource, err error) {
	if tok := strings.TrimSpace(provided); tok != "" {
		return tok, TokenSourceExplicit, nil
	}

	if env := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); env != "" {
		return env, TokenSourceEnv, nil
	}

	tok, ok, err := tokenFromGHCLI(ctx)
	if err != nil {
		return "", "", err
	}
	if ok {
		return tok, TokenSourceGHCLI, nil
	}
	return "", "", nil
}

func tokenFromGHCLI(ctx context.Context) (token string, ok bool, err error) {
	if _, lookErr := exec.LookPath("gh"); lookErr != nil {
		return "", false, nil
	}

	cmdCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, ghTokenTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(cmdCtx, "gh", "auth", "token", "-h", "github.com")
	// Pin GH_PAGER so gh never tries to page its output.
	env := os.Environ()
	filtered := env[:0]
	for _, entry := range env {
		if strings.HasPrefix(entry, "GH_PAGER=") {
			continue
		}
		filtered = append(filtered, entry)
	}
	cmd.Env = append(filtered, "GH_PAGER=cat")

	out, runErr := cmd.CombinedOutput()
	if runErr != nil {
		if cmdCtx.Err() != nil {
			return "", false, cmdCtx.Err()
		}
		// gh present but not logged in, or otherwise failing; treat as
		// "no token" and don't surface its output, which may be sensitive.
		return "", false, nil
	}

	tok := strings.TrimSpace(string(out))
	if tok == "" {
		return "", false, nil
	}
	if strings.ContainsAny(tok, " \t\n\r") {
		return "", false, errors.New("invalid token returned by gh: contains whitespace")
	}
	return tok, true, nil
}

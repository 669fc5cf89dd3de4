package github

import (
	"context"
	"fmt"

	"ownerlint/internal/codeowners"
	"ownerlint/internal/diagnostics"
	"ownerlint/internal/owners"
)

// CheckOwners looks up every structurally valid owner in file against the
// GitHub API and returns a diagnostic for each one that does not exist.
// Emails and malformed owners are skipped; malformed owners are already
// reported by the offline analysis. Lookup errors other than "not found"
// abort the check, since a flaky network should not masquerade as
// missing owners.
func (c *Client) CheckOwners(ctx context.Context, file codeowners.File, sev diagnostics.Severity) ([]diagnostics.Diagnostic, error) {
	var diags []diagnostics.Diagnostic
	for _, ln := range file.Lines {
		if ln.Kind != codeowners.LineRule {
			continue
		}
		for i, owner := range ln.Owners {
			switch owners.Classify(owner) {
			case owners.KindUser, owners.KindTeam:
			default:
				continue
			}
			exists, err := c.OwnerExists(ctx, owner)
			if err != nil {
				return nil, fmt.Errorf("looking up owner %s: %w", owner, err)
			}
			if exists {
				continue
			}
			start := ln.OwnerOffsets[i]
			diags = append(diags, diagnostics.Diagnostic{
				Line:        ln.Number,
				StartChar:   start,
				EndChar:     start + len(owner),
				Severity:    sev,
				Code:        diagnostics.CodeOwnerNotFound,
				Message:     fmt.Sprintf("owner %s was not found on GitHub", owner),
				RelatedLine: -1,
			})
		}
	}
	return diags, nil
}

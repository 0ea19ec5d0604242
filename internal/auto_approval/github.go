package auto_approval

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v71/github"
	"golang.org/x/oauth2"
)

const (
	approvedState         = "approved"
	activeMembershipState = "active"
)

// GitHubPlatform implements Platform on top of the GitHub REST API.
type GitHubPlatform struct {
	client *github.Client
}

// NewGitHubPlatform returns a client authenticated with token. An empty apiURL
// keeps the public github.com endpoint.
func NewGitHubPlatform(ctx context.Context, apiURL, token string) (*GitHubPlatform, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))
	if apiURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("%s environment variable invalid: %w", envVarAPIURL, err)
		}
		client.BaseURL = baseURL
	}
	return &GitHubPlatform{client: client}, nil
}

func (p *GitHubPlatform) ListPendingApprovals(ctx context.Context, owner, repo string, runID int64) ([]PendingApproval, error) {
	pending, _, err := p.client.Actions.GetPendingDeployments(ctx, owner, repo, runID)
	if err != nil {
		return nil, newPlatformError("list pending deployments", err)
	}

	approvals := make([]PendingApproval, 0, len(pending))
	for _, deployment := range pending {
		approval := PendingApproval{
			EnvironmentID:   deployment.GetEnvironment().GetID(),
			EnvironmentName: deployment.GetEnvironment().GetName(),
		}
		// Reviewer types other than User and Team fail the decode of the
		// whole response, so only these two reach this point.
		for _, required := range deployment.Reviewers {
			switch reviewer := required.Reviewer.(type) {
			case *github.User:
				approval.Reviewers = append(approval.Reviewers, Reviewer{Type: ReviewerUser, Login: reviewer.GetLogin()})
			case *github.Team:
				approval.Reviewers = append(approval.Reviewers, Reviewer{Type: ReviewerTeam, Name: reviewer.GetName(), Slug: reviewer.GetSlug()})
			}
		}
		approvals = append(approvals, approval)
	}
	return approvals, nil
}

func (p *GitHubPlatform) IsTeamMember(ctx context.Context, org, teamSlug, username string) (bool, error) {
	membership, _, err := p.client.Teams.GetTeamMembershipBySlug(ctx, org, teamSlug, username)
	if err != nil {
		return false, newPlatformError("get team membership", err)
	}
	debugf("Membership of '%s' in '%s/%s': state '%s', role '%s'\n", username, org, teamSlug, membership.GetState(), membership.GetRole())
	// Invited users get a pending membership until they accept.
	return membership.GetState() == activeMembershipState, nil
}

func (p *GitHubPlatform) ApprovePendingDeployments(ctx context.Context, owner, repo string, runID int64, environmentIDs []int64, comment string) error {
	_, _, err := p.client.Actions.PendingDeployments(ctx, owner, repo, runID, &github.PendingDeploymentsRequest{
		EnvironmentIDs: environmentIDs,
		State:          approvedState,
		Comment:        comment,
	})
	if err != nil {
		return newPlatformError("approve pending deployments", err)
	}
	return nil
}

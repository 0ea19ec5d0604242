package auto_approval

import (
	"context"
	"strings"

	"github.com/sethvargo/go-githubactions"
)

// Platform is the subset of the GitHub REST API the auto approval relies on.
type Platform interface {
	ListPendingApprovals(ctx context.Context, owner, repo string, runID int64) ([]PendingApproval, error)
	IsTeamMember(ctx context.Context, org, teamSlug, username string) (bool, error)
	ApprovePendingDeployments(ctx context.Context, owner, repo string, runID int64, environmentIDs []int64, comment string) error
}

type StdOut interface {
	Printf(format string, a ...any)
	Println(a ...any)
}

type Config struct {
	context.Context
	Platform Platform
	Output   StdOut

	actions *githubactions.Action

	// Environment is the name of the environment to approve, matched case-insensitively.
	Environment string `json:"environment,omitempty"`
}

// RunContext identifies the workflow run being approved and who is running it.
type RunContext struct {
	Owner string
	Repo  string
	RunID int64
	Actor string
}

type ReviewerType string

const (
	ReviewerUser ReviewerType = "User"
	ReviewerTeam ReviewerType = "Team"
)

// Reviewer is a required reviewer of an environment. Users carry a Login,
// teams a Name and Slug.
type Reviewer struct {
	Type  ReviewerType
	Login string
	Name  string
	Slug  string
}

func (r Reviewer) DisplayName() string {
	if r.Type == ReviewerTeam {
		return r.Name
	}
	return r.Login
}

type PendingApproval struct {
	EnvironmentID   int64
	EnvironmentName string
	Reviewers       []Reviewer
}

type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeNotEligible
	OutcomeEligible
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotFound:
		return "NotFound"
	case OutcomeNotEligible:
		return "NotEligible"
	case OutcomeEligible:
		return "Eligible"
	default:
		return "Unknown"
	}
}

// Decision is the result of matching the pending approvals of a run against
// the requested environment and actor.
type Decision struct {
	Outcome          Outcome
	EnvironmentIDs   []int64
	EnvironmentNames []string
	ReviewerNames    []string
}

func (d Decision) IsEligible() bool {
	return d.Outcome == OutcomeEligible
}

func (d Decision) environments() string {
	return strings.Join(d.EnvironmentNames, ",")
}

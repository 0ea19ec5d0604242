package auto_approval

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const approvalCommentPrefix = "Auto-Approved by GitHub Action"

// Run approves the pending deployments of the current workflow run for the
// requested environment. Only configuration problems are returned as errors:
// platform failures and ineligible actors are reported as warnings so the
// step never fails the workflow.
func (k *Config) Run(ctx context.Context) error {
	k.Context = ctx

	// Use default std out if it is not already provided in the configuration
	if k.Output == nil {
		k.Output = &RealStdOut{}
	}

	settings, rc, err := k.defaultConfig()
	if err != nil {
		return err
	}
	k.actions = newAction(k.Output, settings.getenv)

	if k.Platform == nil {
		platform, err := NewGitHubPlatform(ctx, settings.APIURL, settings.Token)
		if err != nil {
			return err
		}
		k.Platform = platform
	}

	k.autoApprove(settings.Environment, rc)
	return nil
}

func (k *Config) autoApprove(environment string, rc RunContext) {
	k.Output.Printf("Executing auto-approve on %s environment...\n", environment)

	approvals, err := k.fetchPendingApprovals(rc)
	if err != nil {
		k.warnPlatformError(err)
		return
	}

	decision := k.resolveEligibility(approvals, environment, rc)
	debugf("Decision for '%s': %s\n", environment, decision.Outcome)

	switch decision.Outcome {
	case OutcomeNotFound:
		k.warning("env '%s' is not part of the workflow or deployment was already approved by one of the reviewers", environment)
	case OutcomeNotEligible:
		k.warning("Auto Approval Not Possible; %s is not a reviewer for the environment(s) - %s (ids: %s). Reviewers: %s",
			rc.Actor, decision.environments(), formatIDs(decision.EnvironmentIDs), strings.Join(decision.ReviewerNames, ","))
	case OutcomeEligible:
		if err := k.approve(decision, rc); err != nil {
			k.warnPlatformError(err)
		}
	}
}

func (k *Config) fetchPendingApprovals(rc RunContext) ([]PendingApproval, error) {
	debugf("Fetching pending deployments of run %d in %s/%s\n", rc.RunID, rc.Owner, rc.Repo)

	approvals, err := k.Platform.ListPendingApprovals(k.Context, rc.Owner, rc.Repo, rc.RunID)
	if err != nil {
		return nil, err
	}
	debugf("Found %d pending deployment(s)\n", len(approvals))
	return approvals, nil
}

// resolveEligibility keeps the approvals whose environment matches the request
// and decides whether the actor may approve them. Checking stops at the first
// reviewer the actor qualifies as.
func (k *Config) resolveEligibility(approvals []PendingApproval, environment string, rc RunContext) Decision {
	var decision Decision
	var matched []PendingApproval
	for _, approval := range approvals {
		if !strings.EqualFold(approval.EnvironmentName, environment) {
			continue
		}
		matched = append(matched, approval)
		decision.EnvironmentIDs = append(decision.EnvironmentIDs, approval.EnvironmentID)
		decision.EnvironmentNames = append(decision.EnvironmentNames, approval.EnvironmentName)
	}

	if len(matched) == 0 {
		decision.Outcome = OutcomeNotFound
		return decision
	}

	decision.Outcome = OutcomeNotEligible
	checkedTeams := map[string]bool{}
	for _, approval := range matched {
		for _, reviewer := range approval.Reviewers {
			if name := reviewer.DisplayName(); !slices.Contains(decision.ReviewerNames, name) {
				decision.ReviewerNames = append(decision.ReviewerNames, name)
			}
			if reviewer.Type == ReviewerTeam {
				if checkedTeams[reviewer.Slug] {
					continue
				}
				checkedTeams[reviewer.Slug] = true
			}
			if k.isReviewer(reviewer, rc) {
				decision.Outcome = OutcomeEligible
				return decision
			}
		}
	}
	return decision
}

func (k *Config) isReviewer(reviewer Reviewer, rc RunContext) bool {
	switch reviewer.Type {
	case ReviewerUser:
		return reviewer.Login == rc.Actor
	case ReviewerTeam:
		member, err := k.Platform.IsTeamMember(k.Context, rc.Owner, reviewer.Slug, rc.Actor)
		if err != nil {
			// A failed lookup only rules out this team.
			k.Output.Printf(" team membership check failed for %s in team %s\n", rc.Actor, reviewer.Name)
			logger.Warnw("team membership check failed", "actor", rc.Actor, "team", reviewer.Slug, "error", err)
			return false
		}
		k.Output.Printf(" team membership checked for %s in team %s: %t\n", rc.Actor, reviewer.Slug, member)
		return member
	default:
		return false
	}
}

func (k *Config) approve(decision Decision, rc RunContext) error {
	if len(decision.EnvironmentIDs) == 0 {
		return nil
	}

	comment := fmt.Sprintf("%s for environment(s) - %s. Reviewer: %s", approvalCommentPrefix, decision.environments(), rc.Actor)
	debugf("Approving environment(s) %s with comment '%s'\n", formatIDs(decision.EnvironmentIDs), comment)

	err := k.Platform.ApprovePendingDeployments(k.Context, rc.Owner, rc.Repo, rc.RunID, decision.EnvironmentIDs, comment)
	if err != nil {
		return err
	}

	k.notice("%s", comment)
	if err := writeSummary(k.action(), summaryMarkdown(comment)); err != nil {
		k.warning("Failed to write the job summary: %s", err)
	}
	return nil
}

func (k *Config) warnPlatformError(err error) {
	var pe *PlatformError
	if errors.As(err, &pe) && pe.Structured() {
		msg := fmt.Sprintf("Auto Approval failed to %s; status: %d, message: %s", pe.Op, pe.Status, pe.Message)
		if len(pe.Details) > 0 {
			msg += ", details: " + strings.Join(pe.Details, "; ")
		}
		k.warning("%s", msg)
		return
	}
	k.warning("Auto Approval failed; %s", err)
}

func formatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

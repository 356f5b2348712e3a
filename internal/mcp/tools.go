package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultActivityLimit = 20

type toolset struct {
	svc    Services
	logger *slog.Logger
}

func registerTools(server *sdkmcp.Server, svc Services, logger *slog.Logger) {
	t := &toolset{svc: svc, logger: logger}

	// Distribution
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "distribute",
		Description: "Form teams from all free availability slots and commit them atomically. Rejected while another run is in progress.",
	}, t.distribute)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "cancel_distribution",
		Description: "Undo the most recent distribution run: delete its teams and release their slots. Reports when there is nothing to cancel.",
	}, t.cancelDistribution)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_teams",
		Description: "List formed teams with manager, students in binding order, call time, project and dates",
	}, t.listTeams)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_unallocated",
		Description: "List students not placed in any team and the times managers are still free",
	}, t.listUnallocated)

	// Notifications
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "notify_teams",
		Description: "Message every manager and student of every formed team",
	}, t.notifyTeams)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "notify_unallocated",
		Description: "Message every unplaced student with the times managers are still free",
	}, t.notifyUnallocated)

	// Roster edits
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_constraint",
		Description: "Require two participants to be placed together or apart, or clear the rule with kind none",
	}, t.setConstraint)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "declare_availability",
		Description: "Add or withdraw a participant's daily call times. Times bound to a team cannot be withdrawn.",
	}, t.declareAvailability)

	// History
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_activity",
		Description: "Get recent activity entries: runs, cancellations, conflicts, notifications and imports",
	}, t.recentActivity)
}

func (t *toolset) distribute(ctx context.Context, _ *sdkmcp.CallToolRequest, in DistributeParams) (*sdkmcp.CallToolResult, DistributeResponse, error) {
	summary, err := t.svc.Distribution.Run(ctx)
	if err != nil {
		return nil, DistributeResponse{}, MapError(err)
	}
	t.logger.Info("distribution requested", "operator", getOperator(ctx), "run_id", summary.RunID)

	resp := distributeResponse(summary)
	if in.Notify && summary.RunID != "" && t.svc.Notifier != nil {
		teams, err := t.notifyTeamsReport(ctx)
		if err != nil {
			return nil, DistributeResponse{}, MapError(err)
		}
		unallocated, err := t.notifyUnallocatedReport(ctx)
		if err != nil {
			return nil, DistributeResponse{}, MapError(err)
		}
		resp.TeamNotifications = &teams
		resp.UnallocatedNotifications = &unallocated
	}
	return nil, resp, nil
}

func (t *toolset) cancelDistribution(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, CancelResponse, error) {
	summary, err := t.svc.Distribution.CancelLast(ctx)
	if err != nil {
		return nil, CancelResponse{}, MapError(err)
	}
	t.logger.Info("cancellation requested", "operator", getOperator(ctx), "run_id", summary.RunID)
	return nil, cancelResponse(summary), nil
}

func (t *toolset) listTeams(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ListTeamsResponse, error) {
	teams, err := t.svc.Distribution.ListFormedTeams(ctx)
	if err != nil {
		return nil, ListTeamsResponse{}, MapError(err)
	}
	resp := ListTeamsResponse{Teams: make([]TeamResponse, 0, len(teams))}
	students := 0
	for _, ft := range teams {
		resp.Teams = append(resp.Teams, teamResponse(ft))
		students += len(ft.Students)
	}
	resp.Summary = fmt.Sprintf("%d teams with %d students.", len(teams), students)
	return nil, resp, nil
}

func (t *toolset) listUnallocated(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ListUnallocatedResponse, error) {
	students, err := t.svc.Distribution.ListUnallocatedStudents(ctx)
	if err != nil {
		return nil, ListUnallocatedResponse{}, MapError(err)
	}
	free, err := t.svc.Distribution.ListFreeManagerTimes(ctx)
	if err != nil {
		return nil, ListUnallocatedResponse{}, MapError(err)
	}
	return nil, ListUnallocatedResponse{
		Summary:          fmt.Sprintf("%d students unallocated; managers free at %d times.", len(students), len(free)),
		Students:         participantResponses(students),
		FreeManagerTimes: timeStrings(free),
	}, nil
}

func (t *toolset) notifyTeams(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, NotifyResponse, error) {
	resp, err := t.notifyTeamsReport(ctx)
	if err != nil {
		return nil, NotifyResponse{}, MapError(err)
	}
	return nil, resp, nil
}

func (t *toolset) notifyUnallocated(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, NotifyResponse, error) {
	resp, err := t.notifyUnallocatedReport(ctx)
	if err != nil {
		return nil, NotifyResponse{}, MapError(err)
	}
	return nil, resp, nil
}

func (t *toolset) notifyTeamsReport(ctx context.Context) (NotifyResponse, error) {
	if t.svc.Notifier == nil {
		return NotifyResponse{}, &APIError{Code: "NOT_CONFIGURED", Message: "notifications are not configured"}
	}
	teams, err := t.svc.Distribution.ListFormedTeams(ctx)
	if err != nil {
		return NotifyResponse{}, err
	}
	return notifyResponse(t.svc.Notifier.NotifyTeams(ctx, teams)), nil
}

func (t *toolset) notifyUnallocatedReport(ctx context.Context) (NotifyResponse, error) {
	if t.svc.Notifier == nil {
		return NotifyResponse{}, &APIError{Code: "NOT_CONFIGURED", Message: "notifications are not configured"}
	}
	students, err := t.svc.Distribution.ListUnallocatedStudents(ctx)
	if err != nil {
		return NotifyResponse{}, err
	}
	free, err := t.svc.Distribution.ListFreeManagerTimes(ctx)
	if err != nil {
		return NotifyResponse{}, err
	}
	return notifyResponse(t.svc.Notifier.NotifyUnallocated(ctx, students, free)), nil
}

func (t *toolset) setConstraint(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetConstraintParams) (*sdkmcp.CallToolResult, ConstraintResponse, error) {
	kind, err := constraint.ParseKind(in.Kind)
	if err != nil {
		return nil, ConstraintResponse{}, MapError(err)
	}
	first, err := t.svc.Participants.FindByUsername(ctx, in.First)
	if err != nil {
		return nil, ConstraintResponse{}, MapError(fmt.Errorf("@%s: %w", participant.NormalizeUsername(in.First), err))
	}
	second, err := t.svc.Participants.FindByUsername(ctx, in.Second)
	if err != nil {
		return nil, ConstraintResponse{}, MapError(fmt.Errorf("@%s: %w", participant.NormalizeUsername(in.Second), err))
	}

	c, err := t.svc.Constraints.Set(ctx, first.ID, second.ID, kind)
	if err != nil {
		return nil, ConstraintResponse{}, MapError(err)
	}
	return nil, ConstraintResponse{
		Summary: fmt.Sprintf("@%s and @%s: %s.", first.TelegramUsername, second.TelegramUsername, describeKind(c.Kind)),
		First:   c.First,
		Second:  c.Second,
		Kind:    string(c.Kind),
	}, nil
}

func describeKind(k constraint.Kind) string {
	switch k {
	case constraint.KindTogether:
		return "placed together"
	case constraint.KindSeparate:
		return "placed apart"
	default:
		return "no preference"
	}
}

func (t *toolset) declareAvailability(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeclareAvailabilityParams) (*sdkmcp.CallToolResult, AvailabilityResponse, error) {
	if len(in.Add) == 0 && len(in.Remove) == 0 {
		return nil, AvailabilityResponse{}, invalidInput("nothing to add or remove")
	}
	add, err := parseTimes(in.Add)
	if err != nil {
		return nil, AvailabilityResponse{}, MapError(err)
	}
	remove, err := parseTimes(in.Remove)
	if err != nil {
		return nil, AvailabilityResponse{}, MapError(err)
	}

	p, err := t.svc.Participants.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, AvailabilityResponse{}, MapError(err)
	}
	for _, tod := range add {
		if _, err := t.svc.Availability.Declare(ctx, p.ID, tod); err != nil {
			return nil, AvailabilityResponse{}, MapError(err)
		}
	}
	for _, tod := range remove {
		if err := t.svc.Availability.Withdraw(ctx, p.ID, tod); err != nil {
			return nil, AvailabilityResponse{}, MapError(fmt.Errorf("%s: %w", tod, err))
		}
	}

	slots, err := t.svc.Availability.ListFor(ctx, p.ID)
	if err != nil {
		return nil, AvailabilityResponse{}, MapError(err)
	}
	resp := AvailabilityResponse{Times: []string{}, Bound: []string{}}
	for _, s := range slots {
		resp.Times = append(resp.Times, s.Time.String())
		if s.Bound() {
			resp.Bound = append(resp.Bound, s.Time.String())
		}
	}
	resp.Summary = fmt.Sprintf("@%s is available at %s.", p.TelegramUsername, orNone(resp.Times))
	return nil, resp, nil
}

func parseTimes(raw []string) ([]availability.TimeOfDay, error) {
	out := make([]availability.TimeOfDay, 0, len(raw))
	for _, s := range raw {
		t, err := availability.ParseTimeOfDay(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "no times"
	}
	return strings.Join(items, ", ")
}

func (t *toolset) recentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecentActivityParams) (*sdkmcp.CallToolResult, RecentActivityResponse, error) {
	opts := activity.ListActivityOptions{Limit: in.Limit}
	if opts.Limit <= 0 {
		opts.Limit = defaultActivityLimit
	}
	if in.RunID != "" {
		opts.RunID = &in.RunID
	}
	if in.Type != "" {
		typ := activity.ActivityType(in.Type)
		opts.ActivityType = &typ
	}
	if in.Operator != "" {
		opts.Operator = &in.Operator
	}
	if in.Username != "" {
		p, err := t.svc.Participants.FindByUsername(ctx, in.Username)
		if err != nil {
			return nil, RecentActivityResponse{}, MapError(err)
		}
		opts.ParticipantID = &p.ID
	}

	entries, err := t.svc.Activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return nil, RecentActivityResponse{}, MapError(err)
	}
	resp := RecentActivityResponse{Entries: make([]ActivityEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, activityEntryResponse(e))
	}
	resp.Summary = fmt.Sprintf("%d activity entries.", len(entries))
	return nil, resp, nil
}

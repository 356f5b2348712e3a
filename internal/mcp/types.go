package mcp

import (
	"time"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/distribution"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/notify"
)

const dateLayout = "2006-01-02"

type DistributeParams struct {
	Notify bool `json:"notify,omitempty" jsonschema:"send team and unallocated messages after a successful commit"`
}

type EmptyParams struct{}

type SetConstraintParams struct {
	First  string `json:"first" jsonschema:"telegram username of the first participant"`
	Second string `json:"second" jsonschema:"telegram username of the second participant"`
	Kind   string `json:"kind" jsonschema:"together, separate or none"`
}

type DeclareAvailabilityParams struct {
	Username string   `json:"username" jsonschema:"telegram username of the participant"`
	Add      []string `json:"add,omitempty" jsonschema:"times of day to declare, HH:MM"`
	Remove   []string `json:"remove,omitempty" jsonschema:"free times of day to withdraw, HH:MM"`
}

type RecentActivityParams struct {
	RunID    string `json:"run_id,omitempty" jsonschema:"only entries for this run"`
	Username string `json:"username,omitempty" jsonschema:"only entries for this participant"`
	Type     string `json:"type,omitempty" jsonschema:"only entries of this activity type"`
	Operator string `json:"operator,omitempty" jsonschema:"only entries triggered by this operator"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of entries, default 20"`
}

type ParticipantResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	TelegramUsername string `json:"telegram_username"`
	Role             string `json:"role"`
	Level            string `json:"level"`
	HasChat          bool   `json:"has_chat"`
}

type ProjectResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	LinkDoc string `json:"link_doc,omitempty"`
}

type TeamResponse struct {
	TeamID    int64                 `json:"team_id"`
	RunID     string                `json:"run_id,omitempty"`
	Time      string                `json:"time"`
	DateStart string                `json:"date_start"`
	DateEnd   string                `json:"date_end"`
	Project   *ProjectResponse      `json:"project,omitempty"`
	Manager   ParticipantResponse   `json:"manager"`
	Students  []ParticipantResponse `json:"students"`
}

type UnassignedResponse struct {
	StudentID int64  `json:"student_id"`
	Reason    string `json:"reason"`
}

type PairResponse struct {
	First  int64 `json:"first"`
	Second int64 `json:"second"`
}

type ConflictResponse struct {
	Group []int64        `json:"group"`
	Pairs []PairResponse `json:"pairs"`
}

type CommittedTeamResponse struct {
	TeamID     int64   `json:"team_id"`
	ProjectID  *int64  `json:"project_id,omitempty"`
	ManagerID  int64   `json:"manager_id"`
	Time       string  `json:"time"`
	StudentIDs []int64 `json:"student_ids"`
}

type NotifyResponse struct {
	Summary string `json:"summary"`
	Sent    int    `json:"sent"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

type DistributeResponse struct {
	Summary                  string                  `json:"summary"`
	RunID                    string                  `json:"run_id,omitempty"`
	Teams                    []CommittedTeamResponse `json:"teams"`
	Assigned                 int                     `json:"assigned"`
	Unassigned               []UnassignedResponse    `json:"unassigned"`
	Conflicts                []ConflictResponse      `json:"conflicts,omitempty"`
	Ignored                  []PairResponse          `json:"ignored,omitempty"`
	TeamNotifications        *NotifyResponse         `json:"team_notifications,omitempty"`
	UnallocatedNotifications *NotifyResponse         `json:"unallocated_notifications,omitempty"`
}

type CancelResponse struct {
	Summary         string `json:"summary"`
	RunID           string `json:"run_id,omitempty"`
	NothingToCancel bool   `json:"nothing_to_cancel"`
	TeamsRemoved    int    `json:"teams_removed"`
	SlotsReleased   int    `json:"slots_released"`
}

type ListTeamsResponse struct {
	Summary string         `json:"summary"`
	Teams   []TeamResponse `json:"teams"`
}

type ListUnallocatedResponse struct {
	Summary          string                `json:"summary"`
	Students         []ParticipantResponse `json:"students"`
	FreeManagerTimes []string              `json:"free_manager_times"`
}

type ConstraintResponse struct {
	Summary string `json:"summary"`
	First   int64  `json:"first"`
	Second  int64  `json:"second"`
	Kind    string `json:"kind"`
}

type AvailabilityResponse struct {
	Summary string   `json:"summary"`
	Times   []string `json:"times"`
	Bound   []string `json:"bound"`
}

type ActivityEntryResponse struct {
	ID            int64  `json:"id"`
	Type          string `json:"type"`
	Summary       string `json:"summary"`
	RunID         string `json:"run_id,omitempty"`
	ParticipantID *int64 `json:"participant_id,omitempty"`
	Operator      string `json:"operator,omitempty"`
	Details       string `json:"details,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type RecentActivityResponse struct {
	Summary string                  `json:"summary"`
	Entries []ActivityEntryResponse `json:"entries"`
}

func participantResponse(p participant.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:               p.ID,
		Name:             p.Name,
		TelegramUsername: p.TelegramUsername,
		Role:             string(p.Role),
		Level:            string(p.Level),
		HasChat:          p.TelegramID != nil,
	}
}

func participantResponses(people []participant.Participant) []ParticipantResponse {
	out := make([]ParticipantResponse, 0, len(people))
	for _, p := range people {
		out = append(out, participantResponse(p))
	}
	return out
}

func teamResponse(ft distribution.FormedTeam) TeamResponse {
	resp := TeamResponse{
		TeamID:    ft.Team.ID,
		RunID:     ft.Team.RunID,
		Time:      ft.Time.String(),
		DateStart: ft.Team.DateStart.Format(dateLayout),
		DateEnd:   ft.Team.DateEnd.Format(dateLayout),
		Manager:   participantResponse(ft.Manager),
		Students:  participantResponses(ft.Students),
	}
	if ft.Project != nil {
		resp.Project = &ProjectResponse{ID: ft.Project.ID, Name: ft.Project.Name, LinkDoc: ft.Project.LinkDoc}
	}
	return resp
}

func distributeResponse(s distribution.RunSummary) DistributeResponse {
	resp := DistributeResponse{
		Summary:    s.Text(),
		RunID:      s.RunID,
		Teams:      make([]CommittedTeamResponse, 0, len(s.Teams)),
		Assigned:   s.Assigned,
		Unassigned: make([]UnassignedResponse, 0, len(s.Unassigned)),
	}
	for _, t := range s.Teams {
		resp.Teams = append(resp.Teams, CommittedTeamResponse{
			TeamID:     t.TeamProjectID,
			ProjectID:  t.ProjectID,
			ManagerID:  t.ManagerID,
			Time:       t.Time.String(),
			StudentIDs: t.StudentIDs,
		})
	}
	for _, u := range s.Unassigned {
		resp.Unassigned = append(resp.Unassigned, UnassignedResponse{StudentID: u.StudentID, Reason: string(u.Reason)})
	}
	for _, c := range s.Conflicts {
		cr := ConflictResponse{Group: c.Group}
		for _, p := range c.Pairs {
			cr.Pairs = append(cr.Pairs, PairResponse{First: p.A, Second: p.B})
		}
		resp.Conflicts = append(resp.Conflicts, cr)
	}
	for _, c := range s.Ignored {
		resp.Ignored = append(resp.Ignored, PairResponse{First: c.First, Second: c.Second})
	}
	return resp
}

func cancelResponse(s distribution.CancelSummary) CancelResponse {
	return CancelResponse{
		Summary:         s.Text(),
		RunID:           s.RunID,
		NothingToCancel: s.NothingToCancel,
		TeamsRemoved:    s.TeamsRemoved,
		SlotsReleased:   s.SlotsReleased,
	}
}

func notifyResponse(r notify.Report) NotifyResponse {
	return NotifyResponse{Summary: r.Text(), Sent: r.Sent, Skipped: r.Skipped, Failed: r.Failed}
}

func timeStrings(times []availability.TimeOfDay) []string {
	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, t.String())
	}
	return out
}

func activityEntryResponse(e activity.ActivityEntry) ActivityEntryResponse {
	resp := ActivityEntryResponse{
		ID:            e.ID,
		Type:          string(e.ActivityType),
		Summary:       e.Summary,
		ParticipantID: e.ParticipantID,
		Operator:      e.Operator,
		Details:       e.Details,
		CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.RunID != nil {
		resp.RunID = *e.RunID
	}
	return resp
}

package distribution

import (
	"fmt"
	"time"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
	"github.com/OrionApplePie/ProjectsAutomation/internal/matching"
)

// Run is one committed distribution. A cancelled run keeps its row with
// CancelledAt set; its teams are gone.
type Run struct {
	ID          string     `json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// Cancelled reports whether the run was undone.
func (r Run) Cancelled() bool {
	return r.CancelledAt != nil
}

// CommittedTeam is a team created by a run.
type CommittedTeam struct {
	TeamProjectID int64                  `json:"team_project_id"`
	ProjectID     *int64                 `json:"project_id,omitempty"`
	ManagerID     int64                  `json:"manager_id"`
	Time          availability.TimeOfDay `json:"time"`
	StudentIDs    []int64                `json:"student_ids"`
}

// RunSummary reports the outcome of Run. RunID is empty when nothing was
// committed.
type RunSummary struct {
	RunID      string                  `json:"run_id,omitempty"`
	Teams      []CommittedTeam         `json:"teams"`
	Assigned   int                     `json:"assigned"`
	Unassigned []matching.Unassigned   `json:"unassigned"`
	Conflicts  []matching.Conflict     `json:"conflicts,omitempty"`
	Ignored    []constraint.Constraint `json:"ignored,omitempty"`
}

// Text renders the summary for operators.
func (s RunSummary) Text() string {
	if s.RunID == "" {
		return fmt.Sprintf("No teams formed; %d students unallocated.", len(s.Unassigned))
	}
	text := fmt.Sprintf("Run %s formed %d teams with %d students; %d students unallocated.",
		s.RunID, len(s.Teams), s.Assigned, len(s.Unassigned))
	if len(s.Conflicts) > 0 {
		text += fmt.Sprintf(" %d together-groups skipped for conflicting constraints.", len(s.Conflicts))
	}
	return text
}

// CancelSummary reports the outcome of CancelLast.
type CancelSummary struct {
	RunID           string `json:"run_id,omitempty"`
	NothingToCancel bool   `json:"nothing_to_cancel"`
	TeamsRemoved    int    `json:"teams_removed"`
	SlotsReleased   int    `json:"slots_released"`
}

// Text renders the summary for operators.
func (s CancelSummary) Text() string {
	if s.NothingToCancel {
		return "Nothing to cancel."
	}
	return fmt.Sprintf("Cancelled run %s: removed %d teams, released %d slots.", s.RunID, s.TeamsRemoved, s.SlotsReleased)
}

// FormedTeam is a bound team as read back for notification and reporting.
// Students are in binding order.
type FormedTeam struct {
	Team     team.TeamProject          `json:"team"`
	Project  *team.Project             `json:"project,omitempty"`
	Manager  participant.Participant   `json:"manager"`
	Students []participant.Participant `json:"students"`
	Time     availability.TimeOfDay    `json:"time"`
}

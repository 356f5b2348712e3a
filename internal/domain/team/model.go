package team

import (
	"time"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
)

// Project is a reusable project description attached to formed teams.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	LinkDoc     string `json:"link_doc,omitempty"`
}

// TeamProject is one formed team working on a project for a date range.
// RunID is empty for teams that were not created by a distribution run.
type TeamProject struct {
	ID                int64                  `json:"id"`
	RunID             string                 `json:"run_id,omitempty"`
	ProjectID         *int64                 `json:"project_id,omitempty"`
	ManagerID         int64                  `json:"manager_id"`
	Time              availability.TimeOfDay `json:"time"`
	DateStart         time.Time              `json:"date_start"`
	DateEnd           time.Time              `json:"date_end"`
	DiscordServerLink string                 `json:"discord_server_link,omitempty"`
	TrelloDeskLink    string                 `json:"trello_desk_link,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
}

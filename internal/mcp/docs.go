package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `teams distributes students into project teams led by product managers.

Core concepts:
- Participant: a student (ST) or product manager (PM), addressed by telegram username.
- Slot: a daily call time a participant declared free. A slot bound to a team is taken.
- Constraint: two participants must be placed together, apart, or have no rule.
- Run: one committed distribution. Only the latest run can be cancelled.

Typical workflow:
1) Check the roster: list_unallocated shows who is still free and when managers can meet.
2) Adjust: declare_availability and set_constraint.
3) Form teams: distribute (set notify=true to message everyone after commit).
4) Review: list_teams, recent_activity. Conflicting together-groups are reported, not placed.
5) Undo if needed: cancel_distribution releases every slot the latest run bound.

Errors carry a code: RUN_IN_PROGRESS (retry later), INVALID_INPUT, COMMIT_FAILED
(nothing changed), NOT_FOUND.

Docs:
- teams://docs/distribution (how teams are formed)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "teams://docs/distribution",
		Name:        "docs_distribution",
		Title:       "How teams are formed",
		Description: "Placement order, constraint handling and the reasons a student stays unallocated.",
		Content: `# How teams are formed

Each run considers only free slots. Call times are visited earliest first.

## Placement

- Students linked by together constraints form a group that is placed as a whole.
- A group containing a separate constraint between two of its members is a conflict:
  none of its members are placed and the conflict is logged.
- At each time, every free manager takes at most one team per run.
  Larger groups are placed first, then groups with the lowest student id.
- A group never joins a team holding a student it must be kept apart from,
  or a manager one of its members must be kept apart from.
- Together constraints that involve a manager are ignored and reported.
- A manager with no students forms no team.

## Unallocated reasons

- no_team: no manager with room shared a free time with the student's group.
- constraint_conflict: the student's group contradicts itself.
- group_too_large: the group exceeds the team size limit.

## Commit and cancel

A run writes every team or none. cancel_distribution removes the teams of the
latest run and frees their slots; teams created by hand are kept.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}

package roster_test

import (
	"context"
	"strings"
	"testing"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
	"github.com/OrionApplePie/ProjectsAutomation/internal/roster"
	"github.com/OrionApplePie/ProjectsAutomation/internal/sqlite"
	"github.com/stretchr/testify/require"
)

const cohortYAML = `
projects:
  - name: Shop bot
    link_doc: https://docs.example.com/shop
participants:
  - name: Anna
    telegram: "@anna"
    role: pm
    slots: ["18:00", "19:00"]
  - name: Boris
    telegram: boris
    role: ST
    level: JR
    slots: ["18:00"]
  - name: Vera
    telegram: vera
    role: ST
    level: bg+
    far_east: true
    slots: ["18:00", "09:30"]
constraints:
  - first: boris
    second: "@vera"
    kind: together
`

type services struct {
	importer     *roster.Importer
	participants *participant.Service
	slots        *availability.Service
	constraints  *constraint.Service
	teams        *team.Service
	activity     *activity.Service
}

func newServices(t *testing.T) services {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	s := services{
		participants: participant.NewService(sqlite.NewParticipantRepository(db), nil),
		slots:        availability.NewService(sqlite.NewSlotRepository(db), nil),
		constraints:  constraint.NewService(sqlite.NewConstraintRepository(db), nil),
		teams:        team.NewService(sqlite.NewProjectRepository(db), sqlite.NewTeamRepository(db), nil),
		activity:     activity.NewService(sqlite.NewActivityRepository(db), nil),
	}
	s.importer = roster.NewImporter(s.participants, s.slots, s.constraints, s.teams, s.activity, nil)
	return s
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	res, err := s.importer.Import(ctx, strings.NewReader(cohortYAML))
	require.NoError(t, err)
	require.Equal(t, roster.Result{
		ProjectsCreated:     1,
		ParticipantsCreated: 3,
		SlotsDeclared:       5,
		ConstraintsSet:      1,
	}, res)

	anna, err := s.participants.FindByUsername(ctx, "anna")
	require.NoError(t, err)
	require.Equal(t, participant.RoleProductManager, anna.Role)
	require.Equal(t, participant.LevelNotApplicable, anna.Level)

	vera, err := s.participants.FindByUsername(ctx, "vera")
	require.NoError(t, err)
	require.Equal(t, participant.LevelBeginnerPlus, vera.Level)
	require.True(t, vera.FarEast)

	slots, err := s.slots.ListFor(ctx, vera.ID)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	require.Equal(t, availability.MustParseTimeOfDay("09:30"), slots[0].Time)

	rules, err := s.constraints.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.Equal(t, constraint.KindTogether, rules[0].Kind)

	entries, err := s.activity.GetRecentActivity(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeRosterImported, entries[0].ActivityType)
}

func TestImport_Rerun(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	_, err := s.importer.Import(ctx, strings.NewReader(cohortYAML))
	require.NoError(t, err)
	res, err := s.importer.Import(ctx, strings.NewReader(cohortYAML))
	require.NoError(t, err)
	require.Zero(t, res.ParticipantsCreated)
	require.Equal(t, 3, res.ParticipantsReused)
	require.Zero(t, res.ProjectsCreated)

	all, err := s.participants.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	projects, err := s.teams.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
}

func TestImport_UnknownConstraintMember(t *testing.T) {
	s := newServices(t)

	_, err := s.importer.Import(context.Background(), strings.NewReader(`
participants:
  - {name: Boris, telegram: boris, role: ST, level: JR}
constraints:
  - {first: boris, second: ghost, kind: separate}
`))
	require.ErrorIs(t, err, participant.ErrParticipantNotFound)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"not yaml", "participants: [unclosed"},
		{"unknown field", "teams: []"},
		{"no username", "participants:\n  - {name: X, role: ST}"},
		{"duplicate username", "participants:\n  - {name: X, telegram: x, role: ST}\n  - {name: Y, telegram: '@X', role: ST}"},
		{"bad slot", "participants:\n  - {name: X, telegram: x, role: ST, slots: ['25:00']}"},
		{"bad kind", "constraints:\n  - {first: a, second: b, kind: maybe}"},
		{"missing member", "constraints:\n  - {first: a, kind: together}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := roster.Parse(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, roster.ErrInvalidRoster)
		})
	}
}

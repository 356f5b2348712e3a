package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/distribution"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
	"github.com/OrionApplePie/ProjectsAutomation/internal/lock"
	"github.com/stretchr/testify/require"
)

func newDistributionService(db *DB, maxTeamSize int) *distribution.Service {
	recorder := activity.NewService(NewActivityRepository(db), nil)
	return distribution.NewService(NewDistributionStore(db), lock.NewLocal(), recorder, distribution.Options{
		MaxTeamSize: maxTeamSize,
		Now:         func() time.Time { return time.Date(2026, 10, 21, 12, 0, 0, 0, time.UTC) },
	}, nil)
}

func TestDistributionStore_RunAndCancel(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	pm := insertParticipant(t, db, "pm", participant.RoleProductManager)
	s1 := insertParticipant(t, db, "s1", participant.RoleStudent)
	s2 := insertParticipant(t, db, "s2", participant.RoleStudent)
	s3 := insertParticipant(t, db, "s3", participant.RoleStudent)
	for _, id := range []int64{pm.ID, s1.ID, s2.ID, s3.ID} {
		insertSlot(t, db, id, "10:00")
	}
	require.NoError(t, NewConstraintRepository(db).Upsert(ctx,
		&constraint.Constraint{First: s1.ID, Second: s2.ID, Kind: constraint.KindTogether}))
	require.NoError(t, NewProjectRepository(db).Create(ctx, &team.Project{Name: "Shop bot"}))

	svc := newDistributionService(db, 2)

	summary, err := svc.Run(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, summary.RunID)
	require.Len(t, summary.Teams, 1)

	teams, err := svc.ListFormedTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Equal(t, pm.ID, teams[0].Manager.ID)
	require.Equal(t, []int64{s1.ID, s2.ID}, []int64{teams[0].Students[0].ID, teams[0].Students[1].ID})
	require.Equal(t, summary.RunID, teams[0].Team.RunID)
	require.NotNil(t, teams[0].Project)
	require.Equal(t, "Shop bot", teams[0].Project.Name)
	require.Equal(t, time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC), teams[0].Team.DateStart.UTC())

	unallocated, err := svc.ListUnallocatedStudents(ctx)
	require.NoError(t, err)
	require.Len(t, unallocated, 1)
	require.Equal(t, s3.ID, unallocated[0].ID)

	cancelled, err := svc.CancelLast(ctx)
	require.NoError(t, err)
	require.Equal(t, summary.RunID, cancelled.RunID)
	require.Equal(t, 1, cancelled.TeamsRemoved)
	require.Equal(t, 3, cancelled.SlotsReleased)

	teams, err = svc.ListFormedTeams(ctx)
	require.NoError(t, err)
	require.Empty(t, teams)

	again, err := svc.CancelLast(ctx)
	require.NoError(t, err)
	require.True(t, again.NothingToCancel)

	entries, err := NewActivityRepository(db).List(ctx, activity.ListActivityOptions{RunID: &summary.RunID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestDistributionStore_BindConflictRollsBack(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	store := NewDistributionStore(db)

	pm := insertParticipant(t, db, "pm", participant.RoleProductManager)
	s1 := insertParticipant(t, db, "s1", participant.RoleStudent)
	insertSlot(t, db, pm.ID, "10:00")
	at := insertSlot(t, db, s1.ID, "10:00").Time

	err := store.WithinTx(ctx, func(tx distribution.Tx) error {
		run := &distribution.Run{ID: "r1", CreatedAt: time.Now()}
		require.NoError(t, tx.CreateRun(ctx, run))
		tp := &team.TeamProject{RunID: run.ID, ManagerID: pm.ID, Time: at, DateStart: time.Now(), DateEnd: time.Now(), CreatedAt: time.Now()}
		require.NoError(t, tx.CreateTeam(ctx, tp))
		require.NoError(t, tx.BindSlot(ctx, s1.ID, at, tp.ID, 1))
		return tx.BindSlot(ctx, s1.ID, at, tp.ID, 2)
	})
	require.Error(t, err)

	slots, err := store.ListSlots(ctx)
	require.NoError(t, err)
	for _, s := range slots {
		require.False(t, s.Bound())
	}
	teams, err := store.ListTeams(ctx)
	require.NoError(t, err)
	require.Empty(t, teams)

	require.NoError(t, store.WithinTx(ctx, func(tx distribution.Tx) error {
		_, err := tx.LatestRun(ctx)
		require.Error(t, err)
		return nil
	}))
}

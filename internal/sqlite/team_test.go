package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestProjectRepository_CreateGetList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewProjectRepository(db)

	proj := &team.Project{Name: "Shop bot", Description: "Telegram shop", LinkDoc: "https://docs.example.com/shop"}
	require.NoError(t, repo.Create(ctx, proj))
	require.NotZero(t, proj.ID)

	got, err := repo.GetByName(ctx, "Shop bot")
	require.NoError(t, err)
	require.Equal(t, proj, got)

	require.ErrorIs(t, repo.Create(ctx, &team.Project{Name: "Shop bot"}), repository.ErrConflict)
	_, err = repo.Get(ctx, 999)
	require.ErrorIs(t, err, repository.ErrNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestTeamRepository_CreateGetSetLinks(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTeamRepository(db)
	pm := insertParticipant(t, db, "pm", participant.RoleProductManager)

	start := time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)
	tp := &team.TeamProject{
		ManagerID: pm.ID,
		Time:      availability.MustParseTimeOfDay("19:00"),
		DateStart: start,
		DateEnd:   start.Add(7 * 24 * time.Hour),
		CreatedAt: start.Add(-48 * time.Hour),
	}
	require.NoError(t, repo.Create(ctx, tp))

	got, err := repo.Get(ctx, tp.ID)
	require.NoError(t, err)
	require.Empty(t, got.RunID)
	require.Nil(t, got.ProjectID)
	require.Equal(t, tp.Time, got.Time)
	require.True(t, start.Equal(got.DateStart))

	require.NoError(t, repo.SetLinks(ctx, tp.ID, "https://discord.gg/x", "https://trello.com/b/y"))
	got, err = repo.Get(ctx, tp.ID)
	require.NoError(t, err)
	require.Equal(t, "https://discord.gg/x", got.DiscordServerLink)
	require.Equal(t, "https://trello.com/b/y", got.TrelloDeskLink)

	require.ErrorIs(t, repo.SetLinks(ctx, 999, "", ""), repository.ErrNotFound)
	require.ErrorIs(t, repo.Create(ctx, &team.TeamProject{ManagerID: 999, DateStart: start, DateEnd: start, CreatedAt: start}),
		repository.ErrForeignKeyViolation)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

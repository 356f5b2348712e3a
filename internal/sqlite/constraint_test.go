package sqlite

import (
	"context"
	"testing"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestConstraintRepository_UpsertReplacesKind(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewConstraintRepository(db)
	a := insertParticipant(t, db, "a", participant.RoleStudent)
	b := insertParticipant(t, db, "b", participant.RoleStudent)

	first := &constraint.Constraint{First: b.ID, Second: a.ID, Kind: constraint.KindTogether}
	require.NoError(t, repo.Upsert(ctx, first))
	require.Equal(t, a.ID, first.First)

	second := &constraint.Constraint{First: a.ID, Second: b.ID, Kind: constraint.KindSeparate}
	require.NoError(t, repo.Upsert(ctx, second))
	require.Equal(t, first.ID, second.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []constraint.Constraint{{ID: first.ID, First: a.ID, Second: b.ID, Kind: constraint.KindSeparate}}, list)

	err = repo.Upsert(ctx, &constraint.Constraint{First: a.ID, Second: 999, Kind: constraint.KindSeparate})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestConstraintRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewConstraintRepository(db)
	a := insertParticipant(t, db, "a", participant.RoleStudent)
	b := insertParticipant(t, db, "b", participant.RoleStudent)

	require.NoError(t, repo.Upsert(ctx, &constraint.Constraint{First: a.ID, Second: b.ID, Kind: constraint.KindTogether}))
	require.NoError(t, repo.Delete(ctx, constraint.NewPair(b.ID, a.ID)))
	require.ErrorIs(t, repo.Delete(ctx, constraint.NewPair(a.ID, b.ID)), repository.ErrNotFound)
}

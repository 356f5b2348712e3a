package constraint_test

import (
	"context"
	"testing"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
	"github.com/OrionApplePie/ProjectsAutomation/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestConstraintService_SetNormalizesPair(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ConstraintRepository{}
	repo.On("Upsert", ctx, &constraint.Constraint{First: 3, Second: 8, Kind: constraint.KindSeparate}).Return(nil)

	svc := constraint.NewService(repo, nil)
	c, err := svc.Set(ctx, 8, 3, constraint.KindSeparate)
	require.NoError(t, err)
	require.Equal(t, constraint.Pair{A: 3, B: 8}, c.Pair())
	repo.AssertExpectations(t)
}

func TestConstraintService_SetValidation(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ConstraintRepository{}
	repo.On("Upsert", ctx, &constraint.Constraint{First: 1, Second: 99, Kind: constraint.KindTogether}).
		Return(repository.ErrForeignKeyViolation)

	svc := constraint.NewService(repo, nil)
	_, err := svc.Set(ctx, 4, 4, constraint.KindTogether)
	require.ErrorIs(t, err, constraint.ErrInvalidInput)
	_, err = svc.Set(ctx, 4, 5, "MAYBE")
	require.ErrorIs(t, err, constraint.ErrInvalidInput)
	_, err = svc.Set(ctx, 0, 5, constraint.KindTogether)
	require.ErrorIs(t, err, constraint.ErrInvalidInput)
	_, err = svc.Set(ctx, 99, 1, constraint.KindTogether)
	require.ErrorIs(t, err, constraint.ErrInvalidInput)
}

func TestConstraintService_Clear(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ConstraintRepository{}
	repo.On("Delete", ctx, constraint.Pair{A: 2, B: 5}).Return(nil)
	repo.On("Delete", ctx, constraint.Pair{A: 2, B: 6}).Return(repository.ErrNotFound)

	svc := constraint.NewService(repo, nil)
	require.NoError(t, svc.Clear(ctx, 5, 2))
	require.ErrorIs(t, svc.Clear(ctx, 2, 6), constraint.ErrConstraintNotFound)
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]constraint.Kind{
		"together": constraint.KindTogether,
		" TOG ":    constraint.KindTogether,
		"Separate": constraint.KindSeparate,
		"sep":      constraint.KindSeparate,
		"none":     constraint.KindUnset,
		"ND":       constraint.KindUnset,
		"":         constraint.KindUnset,
	} {
		got, err := constraint.ParseKind(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := constraint.ParseKind("maybe")
	require.ErrorIs(t, err, constraint.ErrInvalidInput)
}

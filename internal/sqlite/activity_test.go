package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	runID := "run1"
	entry1 := &activity.ActivityEntry{
		RunID:        &runID,
		ActivityType: activity.TypeDistributionCommitted,
		Summary:      "Run committed",
		Details:      `{"teams":2}`,
	}
	entry2 := &activity.ActivityEntry{
		RunID:        &runID,
		ActivityType: activity.TypeDistributionCancelled,
		Summary:      "Run cancelled",
	}

	require.NoError(t, repo.Log(ctx, entry1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Log(ctx, entry2))

	entries, err := repo.List(ctx, activity.ListActivityOptions{RunID: &runID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
	require.Equal(t, `{"teams":2}`, entries[1].Details)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	participantID := int64(7)
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
		ParticipantID: &participantID,
		ActivityType:  activity.TypeNotificationFailed,
		Summary:       "delivery failed",
	}))
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
		Operator:     "coordinator",
		ActivityType: activity.TypeRosterImported,
		Summary:      "imported",
	}))

	typ := activity.TypeNotificationFailed
	entries, err := repo.List(ctx, activity.ListActivityOptions{ActivityType: &typ})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, participantID, *entries[0].ParticipantID)
	require.Nil(t, entries[0].RunID)

	entries, err = repo.List(ctx, activity.ListActivityOptions{ParticipantID: &participantID})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	operator := "coordinator"
	entries, err = repo.List(ctx, activity.ListActivityOptions{Operator: &operator})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeRosterImported, entries[0].ActivityType)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

package pages

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/store"
)

func TestFreeFoodReviewStampsResolvedAt(t *testing.T) {
	ctx := context.Background()
	coll := store.Open[models.FreeFoodRequest](newBackend(t), models.CollFreeFoodRequests, store.NewestFirst)
	r := &models.FreeFoodRequest{UserName: "Zeynep", Status: models.FreeFoodPending}
	seed(t, coll, r)

	p := NewFreeFood(coll, testEnv())
	require.NoError(t, p.Update(ctx, r.ID, &FreeFoodForm{Status: models.FreeFoodApproved, AdminNotes: "ok"}))

	got, ok := p.Lookup(r.ID)
	require.True(t, ok)
	assert.Equal(t, models.FreeFoodApproved, got.Status)
	assert.Equal(t, "ok", got.AdminNotes)
	require.NotNil(t, got.ResolvedAt)
	assert.WithinDuration(t, testNow, *got.ResolvedAt, time.Second)

	require.NoError(t, p.Update(ctx, r.ID, &FreeFoodForm{Status: models.FreeFoodPending}))
	got, _ = p.Lookup(r.ID)
	assert.Nil(t, got.ResolvedAt)
}

func TestFreeFoodFormRejectsUnknownStatus(t *testing.T) {
	p := NewFreeFood(store.Open[models.FreeFoodRequest](newBackend(t), models.CollFreeFoodRequests, store.NewestFirst), testEnv())

	err := p.Update(context.Background(), "any", &FreeFoodForm{Status: "maybe"})
	var verr *page.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestHelpAssignMovesInProgress(t *testing.T) {
	ctx := context.Background()
	coll := store.Open[models.HelpRequest](newBackend(t), models.CollHelpRequests, store.NewestFirst)
	r := &models.HelpRequest{HelpTopic: "Late order", Status: models.HelpPending, Priority: models.PriorityHigh}
	seed(t, coll, r)

	p := NewHelp(coll, testEnv())
	require.NoError(t, p.Assign(ctx, r.ID, "ops@example.com"))

	got, ok := p.Lookup(r.ID)
	require.True(t, ok)
	assert.Equal(t, models.HelpInProgress, got.Status)
	assert.Equal(t, "ops@example.com", got.AssignedTo)
	assert.Nil(t, got.ResolvedAt)
}

func TestHelpPrioritySort(t *testing.T) {
	ctx := context.Background()
	coll := store.Open[models.HelpRequest](newBackend(t), models.CollHelpRequests, store.NewestFirst)
	seed(t, coll,
		&models.HelpRequest{HelpTopic: "a", Priority: models.PriorityLow},
		&models.HelpRequest{HelpTopic: "b"},
		&models.HelpRequest{HelpTopic: "c", Priority: models.PriorityUrgent},
	)

	p := NewHelp(coll, testEnv())
	require.NoError(t, p.Load(ctx))

	view, err := p.Apply(page.Query{Sort: "priority"})
	require.NoError(t, err)
	require.Len(t, view, 3)
	assert.Equal(t, models.PriorityUrgent, view[0].Priority)
	assert.Equal(t, models.PriorityLow, view[1].Priority)
	assert.Equal(t, models.Priority(""), view[2].Priority)
	assert.Equal(t, 1, p.Stats().Groups["priority"][page.Unknown])
}

func TestWritesRoundTripThroughLoad(t *testing.T) {
	ctx := context.Background()
	coll := store.Open[models.Banner](newBackend(t), models.CollBanners, store.BySortOrder)
	p := NewBanners(coll, testEnv())

	draft := p.Draft()
	draft.TitleEN = "Free delivery"
	require.NoError(t, p.Create(ctx, &draft))
	require.NotEmpty(t, draft.ID)

	got, ok := p.Lookup(draft.ID)
	require.True(t, ok)
	assert.Equal(t, "Free delivery", got.TitleEN)
	assert.Equal(t, models.DefaultBannerIcon, got.Icon)
	assert.Equal(t, []string{models.DefaultBannerColor1, models.DefaultBannerColor2}, []string(got.Colors))

	require.NoError(t, p.Update(ctx, draft.ID, &BannerForm{TitleEN: "Free delivery!", Colors: []string{"#ffffff"}}))
	got, _ = p.Lookup(draft.ID)
	assert.Equal(t, []string{"#ffffff", models.DefaultBannerColor2}, []string(got.Colors))

	var verr *page.ValidationError
	assert.ErrorAs(t, p.Update(ctx, draft.ID, &BannerForm{TitleEN: "x", Colors: []string{"red"}}), &verr)

	require.NoError(t, p.Delete(ctx, draft.ID))
	_, ok = p.Lookup(draft.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, p.Delete(ctx, draft.ID), page.ErrGone)
}

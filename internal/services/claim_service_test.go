package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casa/internal/core"
	"casa/internal/store"
)

func seedPolicy(t *testing.T, env *Env) {
	put(t, env, core.InsurancePolicy{
		Record:      core.Record{ID: "pol"},
		PropertyID:  "p1",
		Provider:    "Acme Mutual",
		Premium:     core.Cents(4500),
		RenewalDate: core.DateOf(testNow.Add(29 * 24 * time.Hour)),
	})
}

func TestClaimService_Lifecycle(t *testing.T) {
	env, _ := newTestEnv(t)
	seedPolicy(t, env)
	svc := NewClaimService(env)
	ctx := context.Background()

	c, err := svc.FileClaim(ctx, "pol", core.InsuranceClaim{Title: "Burst pipe"})
	require.NoError(t, err)
	assert.Equal(t, core.ClaimDraft, c.Status)
	assert.True(t, c.IncidentDateUTC.Valid())

	c, err = svc.ChangeStatus(ctx, "pol", c.ID, core.ClaimFiled, "sent forms")
	require.NoError(t, err)
	assert.Equal(t, core.ClaimFiled, c.Status)
	require.Len(t, c.ConversationLog, 1)
	assert.Equal(t, core.ActivityStatusChange, c.ConversationLog[0].Kind)
	assert.Contains(t, c.ConversationLog[0].Message, "sent forms")

	_, err = svc.ChangeStatus(ctx, "pol", c.ID, core.ClaimSettled, "")
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	_, err = svc.Settle(ctx, "pol", c.ID, core.Settlement{Payout: core.Cents(100)})
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	_, err = svc.ChangeStatus(ctx, "pol", c.ID, core.ClaimInReview, "")
	require.NoError(t, err)

	c, err = svc.Settle(ctx, "pol", c.ID, core.Settlement{Payout: core.Cents(75000), Destination: "Checking"})
	require.NoError(t, err)
	assert.Equal(t, core.ClaimSettled, c.Status)
	assert.Equal(t, int64(75000), c.PayoutAmount.Value().Cents)
	assert.Equal(t, "Checking", c.PayoutDestination)
	assert.True(t, c.SettlementDateUTC.Valid())
	assert.Len(t, c.ConversationLog, 4)

	l, err := svc.Ledger("pol")
	require.NoError(t, err)
	assert.Equal(t, int64(75000), l.TotalRecovered.Cents)
	assert.Equal(t, 1, l.ResolvedClaims)
	assert.Equal(t, 0, l.OpenClaims)
	assert.True(t, l.Renewal.IsCritical)
	assert.Equal(t, 29, l.Renewal.DaysUntilRenewal)

	c, err = svc.Reopen(ctx, "pol", c.ID, "damage returned")
	require.NoError(t, err)
	assert.Equal(t, core.ClaimInReview, c.Status)

	_, err = svc.Reopen(ctx, "pol", c.ID, "again")
	assert.ErrorIs(t, err, core.ErrReopenNotAllowed)
}

func TestClaimService_FileClaimRules(t *testing.T) {
	env, _ := newTestEnv(t)
	seedPolicy(t, env)
	svc := NewClaimService(env)
	ctx := context.Background()

	c, err := svc.FileClaim(ctx, "pol", core.InsuranceClaim{Title: "Hail", Status: core.ClaimFiled})
	require.NoError(t, err)
	assert.Equal(t, core.ClaimFiled, c.Status)

	_, err = svc.FileClaim(ctx, "pol", core.InsuranceClaim{Title: "Hail", Status: core.ClaimSettled})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.FileClaim(ctx, "pol", core.InsuranceClaim{})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.FileClaim(ctx, "nope", core.InsuranceClaim{Title: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.ChangeStatus(ctx, "pol", "no-claim", core.ClaimInReview, "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClaimService_ActivitiesSortedNewestFirst(t *testing.T) {
	env, _ := newTestEnv(t)
	seedPolicy(t, env)
	svc := NewClaimService(env)
	ctx := context.Background()

	c, err := svc.FileClaim(ctx, "pol", core.InsuranceClaim{Title: "Storm"})
	require.NoError(t, err)

	_, err = svc.AddActivity(ctx, "pol", c.ID, core.ClaimActivity{
		Kind:         core.ActivityCommunication,
		Message:      "Called adjuster",
		EventDateUTC: core.NewDate(2024, 5, 1),
	})
	require.NoError(t, err)
	c, err = svc.AddActivity(ctx, "pol", c.ID, core.ClaimActivity{
		Kind:         core.ActivityAttachment,
		Message:      "Photos",
		DocumentID:   "doc-1",
		EventDateUTC: core.NewDate(2024, 5, 20),
	})
	require.NoError(t, err)
	c, err = svc.AddActivity(ctx, "pol", c.ID, core.ClaimActivity{
		Kind:    core.ActivityCommunication,
		Message: "Email from insurer",
	})
	require.NoError(t, err)

	require.Len(t, c.ConversationLog, 3)
	assert.Equal(t, "Email from insurer", c.ConversationLog[0].Message)
	assert.Equal(t, "Photos", c.ConversationLog[1].Message)
	assert.Equal(t, "Called adjuster", c.ConversationLog[2].Message)

	_, err = svc.AddActivity(ctx, "pol", c.ID, core.ClaimActivity{Kind: core.ActivityAttachment})
	assert.ErrorIs(t, err, core.ErrValidation)
	_, err = svc.AddActivity(ctx, "pol", c.ID, core.ClaimActivity{Kind: core.ActivityPayout})
	assert.ErrorIs(t, err, core.ErrValidation)
}

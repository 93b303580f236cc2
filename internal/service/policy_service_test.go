package service

import (
	"context"
	"testing"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPolicyEnv() (PolicyService, *fakePolicyRepo, *fakeAuditRepo) {
	repo := newFakePolicyRepo()
	audit := &fakeAuditRepo{}
	return NewPolicyService(repo, audit, nil, nil), repo, audit
}

func TestCreatePolicyClassifiesGroupName(t *testing.T) {
	svc, _, audit := newPolicyEnv()

	tests := []struct {
		groupName string
		expected  string
	}{
		{"Flexible Short Term", "flexible_short"},
		{"Reasonable", "reasonable"},
		{"Strong Short Term", "strong"},
		{"Strict Short Term", "strict_short"},
		{"Flexible Long Term", "flexible_long"},
		{"Strict Long Term", "strict_long"},
		{"Easy Going", "easy"},
		{"House Special", "custom"},
	}

	for _, tt := range tests {
		res, err := svc.CreatePolicy(context.Background(), CreatePolicyRequest{
			GroupName:     tt.groupName,
			Type:          "short",
			BeforeCheckIn: "Refund text.",
			AfterCheckIn:  "Forfeit text.",
		}, "")
		require.NoError(t, err, tt.groupName)
		assert.Equal(t, tt.expected, res.EffectiveRule, tt.groupName)
		assert.Empty(t, res.RuleSet, tt.groupName)
	}

	assert.Equal(t, model.ActionCreatePolicy, audit.lastAction())
}

func TestCreatePolicyExplicitRuleSetWins(t *testing.T) {
	svc, _, _ := newPolicyEnv()

	res, err := svc.CreatePolicy(context.Background(), CreatePolicyRequest{
		GroupName:     "Strict (short-term)",
		Type:          "short",
		RuleSet:       "easy",
		BeforeCheckIn: "Full refund 24 hours out.",
		AfterCheckIn:  "Standard forfeiture.",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "easy", res.RuleSet)
	assert.Equal(t, "easy", res.EffectiveRule)
}

func TestCreatePolicyValidation(t *testing.T) {
	svc, _, _ := newPolicyEnv()

	_, err := svc.CreatePolicy(context.Background(), CreatePolicyRequest{
		GroupName:     "   ",
		Type:          "short",
		BeforeCheckIn: "x",
		AfterCheckIn:  "y",
	}, "")
	assert.EqualError(t, err, "group_name must not be blank")

	_, err = svc.CreatePolicy(context.Background(), CreatePolicyRequest{
		GroupName:     "Flexible",
		Type:          "short",
		RuleSet:       "lenient",
		BeforeCheckIn: "x",
		AfterCheckIn:  "y",
	}, "")
	assert.EqualError(t, err, "unknown rule_set 'lenient'")
}

func TestUpdatePolicy(t *testing.T) {
	svc, _, audit := newPolicyEnv()

	created, err := svc.CreatePolicy(context.Background(), CreatePolicyRequest{
		GroupName:     "Reasonable",
		Type:          "short",
		BeforeCheckIn: "Old refund text.",
		AfterCheckIn:  "Old forfeit text.",
	}, "")
	require.NoError(t, err)

	updated, err := svc.UpdatePolicy(context.Background(), "1", UpdatePolicyRequest{
		GroupName:     "  Strong Reasonable  ",
		Type:          "short",
		BeforeCheckIn: "New refund text.",
		AfterCheckIn:  "New forfeit text.",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Strong Reasonable", updated.GroupName)
	// "reasonable" is tested before "strong", so the mixed label lands there.
	assert.Equal(t, "reasonable", updated.EffectiveRule)
	assert.Equal(t, model.ActionUpdatePolicy, audit.lastAction())

	_, err = svc.UpdatePolicy(context.Background(), "42", UpdatePolicyRequest{
		GroupName:     "Ghost",
		Type:          "short",
		BeforeCheckIn: "x",
		AfterCheckIn:  "y",
	}, "")
	assert.EqualError(t, err, "cancellation policy not found")

	_, err = svc.UpdatePolicy(context.Background(), "not-a-number", UpdatePolicyRequest{
		GroupName:     "Ghost",
		Type:          "short",
		BeforeCheckIn: "x",
		AfterCheckIn:  "y",
	}, "")
	assert.ErrorContains(t, err, "invalid cancellation policy id")
}

func TestDeletePolicyBlockedWhenReferenced(t *testing.T) {
	svc, repo, audit := newPolicyEnv()

	res, err := svc.CreatePolicy(context.Background(), CreatePolicyRequest{
		GroupName:     "Strict (long-term)",
		Type:          "long",
		BeforeCheckIn: "x",
		AfterCheckIn:  "y",
	}, "")
	require.NoError(t, err)

	repo.refs[res.ID] = 3
	err = svc.DeletePolicy(context.Background(), "1", "")
	assert.ErrorContains(t, err, "referenced by 3 booking(s)")

	repo.refs[res.ID] = 0
	require.NoError(t, svc.DeletePolicy(context.Background(), "1", ""))
	assert.Equal(t, model.ActionDeletePolicy, audit.lastAction())

	_, err = svc.GetPolicy(context.Background(), "1")
	assert.EqualError(t, err, "cancellation policy not found")
}

func TestResolvePolicyReadsThrough(t *testing.T) {
	svc, repo, _ := newPolicyEnv()

	policy := &model.CancellationPolicy{GroupName: "Flexible", Type: "short"}
	require.NoError(t, repo.Create(context.Background(), policy))

	resolved, err := svc.ResolvePolicy(context.Background(), policy.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flexible", resolved.GroupName)

	_, err = svc.ResolvePolicy(context.Background(), 99)
	assert.Error(t, err)
}

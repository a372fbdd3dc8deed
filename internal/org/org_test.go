package org_test

import (
	"testing"

	"github.com/UnknownOlympus/bazaar/internal/org"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeDivision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "НТП1", want: "НТП"},
		{raw: "НТП2", want: "НТП"},
		{raw: "Отдел НТП2 (ночь)", want: "НТП"},
		{raw: "НЦК", want: "НЦК"},
		{raw: "НЦК-2", want: "НЦК"},
		{raw: "Бухгалтерия", want: "Бухгалтерия"},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, org.NormalizeDivision(tt.raw))
		})
	}
}

func TestApproverScope(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"НЦК"}, org.ApproverScope("НЦК"))
	assert.Equal(t, []string{"НТП1", "НТП2"}, org.ApproverScope("НТП"))
	assert.Equal(t, []string{"НТП1", "НТП2"}, org.ApproverScope("НТП1"))

	assert.True(t, org.InScope("НЦК", "НЦК"))
	assert.False(t, org.InScope("НЦК", "НТП1"))
	assert.True(t, org.InScope("НТП", "НТП2"))
	assert.False(t, org.InScope("НТП", "НЦК"))
}

func TestDivisionKeys(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"all", "nck", "ntp"} {
		division, ok := org.DivisionFromKey(key)
		assert.True(t, ok, key)
		assert.Equal(t, key, org.DivisionKey(division))
	}

	_, ok := org.DivisionFromKey("НЦК")
	assert.False(t, ok)
	assert.Empty(t, org.DivisionKey("Бухгалтерия"))
}

func TestMatchesDivision(t *testing.T) {
	t.Parallel()

	assert.True(t, org.MatchesDivision("НТП", "НТП1"))
	assert.True(t, org.MatchesDivision("all", "НЦК"))
	assert.True(t, org.MatchesDivision("НЦК", "all"))
	assert.True(t, org.MatchesDivision("НЦК", ""))
	assert.False(t, org.MatchesDivision("НЦК", "НТП"))
}

func TestRoleGroups(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role       org.Role
		buyer      bool
		manager    bool
		activation bool
	}{
		{role: org.RoleSpecialist, buyer: true},
		{role: org.RoleManager, manager: true, activation: true},
		{role: org.RoleDual, buyer: true, manager: true, activation: true},
		{role: org.Role(4)},
		{role: org.RoleSupervisor, activation: true},
		{role: org.RoleDirector, activation: true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.buyer, tt.role.IsBuyer(), "buyer %d", tt.role)
		assert.Equal(t, tt.manager, tt.role.IsManagerOrDual(), "manager %d", tt.role)
		assert.Equal(t, tt.activation, tt.role.IsActivationEligible(), "activation %d", tt.role)
	}
}

func TestRolesConversion(t *testing.T) {
	t.Parallel()

	set := org.Roles([]int32{1, 3})
	assert.Equal(t, org.RoleSet{org.RoleSpecialist, org.RoleDual}, set)
	assert.Equal(t, []int32{1, 3}, set.Codes())
	assert.Nil(t, org.Roles(nil))
	assert.Empty(t, org.RoleSet(nil).Codes())
}

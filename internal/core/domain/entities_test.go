package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationStatus_Transitions(t *testing.T) {
	tests := []struct {
		from ApplicationStatus
		to   ApplicationStatus
		want bool
	}{
		{ApplicationPending, ApplicationAccepted, true},
		{ApplicationPending, ApplicationRejected, true},
		{ApplicationPending, ApplicationWithdrawn, true},
		{ApplicationPending, ApplicationPending, false},
		{ApplicationAccepted, ApplicationWithdrawn, true},
		{ApplicationAccepted, ApplicationRejected, false},
		{ApplicationAccepted, ApplicationPending, false},
		{ApplicationRejected, ApplicationAccepted, false},
		{ApplicationRejected, ApplicationWithdrawn, false},
		{ApplicationWithdrawn, ApplicationPending, false},
		{ApplicationWithdrawn, ApplicationAccepted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestApplicationStatus_Terminal(t *testing.T) {
	assert.False(t, ApplicationPending.IsTerminal())
	assert.False(t, ApplicationAccepted.IsTerminal())
	assert.True(t, ApplicationRejected.IsTerminal())
	assert.True(t, ApplicationWithdrawn.IsTerminal())
}

func TestRole_SelfRegistrable(t *testing.T) {
	assert.True(t, RoleVolunteer.SelfRegistrable())
	assert.True(t, RoleNGO.SelfRegistrable())
	assert.False(t, RoleAdmin.SelfRegistrable())
	assert.False(t, Role("ROOT").IsValid())
}

func TestMissionStatus_AcceptsApplications(t *testing.T) {
	assert.True(t, MissionActive.AcceptsApplications())
	for _, s := range []MissionStatus{MissionDraft, MissionCompleted, MissionCancelled} {
		assert.False(t, s.AcceptsApplications(), s)
	}
}

func TestPolicy(t *testing.T) {
	ngo := Principal{UserID: 1, Role: RoleNGO}
	otherNGO := Principal{UserID: 2, Role: RoleNGO}
	vol := Principal{UserID: 3, Role: RoleVolunteer}
	admin := Principal{UserID: 9, Role: RoleAdmin}

	assert.True(t, CanManageMission(ngo, 1))
	assert.False(t, CanManageMission(otherNGO, 1))
	assert.False(t, CanManageMission(Principal{UserID: 1, Role: RoleVolunteer}, 1))

	assert.True(t, CanDecide(ngo, 1))
	assert.False(t, CanDecide(otherNGO, 1))

	assert.True(t, CanWithdraw(vol, 3))
	assert.False(t, CanWithdraw(vol, 4))

	assert.True(t, CanViewApplication(vol, 3, 1))
	assert.True(t, CanViewApplication(ngo, 3, 1))
	assert.False(t, CanViewApplication(otherNGO, 3, 1))
	assert.True(t, CanViewApplication(admin, 3, 1))

	assert.True(t, CanApply(vol))
	assert.False(t, CanApply(ngo))
	assert.True(t, CanVerifyNGO(admin))
	assert.False(t, CanVerifyNGO(ngo))
}

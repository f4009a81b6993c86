package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/models"
)

func TestAdminMayDoEverything(t *testing.T) {
	admin := Actor{UserID: uuid.New(), Role: models.UserRoleAdmin}
	for _, op := range []Operation{OpManageUsers, OpDeleteCategory, OpRecordResults, OpAssignCoach} {
		assert.NoError(t, Check(admin, op, Resource{SubjectUserID: uuid.New(), OwnerID: uuid.New()}), op)
	}
}

func TestPlayerIsReadOnly(t *testing.T) {
	player := Actor{UserID: uuid.New(), Role: models.UserRolePlayer}
	for _, op := range []Operation{OpRecordResults, OpRecordAttendance, OpCreateCategory, OpViewAllAnnouncements} {
		err := Check(player, op, Resource{})
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err), op)
	}
}

func TestCoachCapabilities(t *testing.T) {
	coach := Actor{UserID: uuid.New(), Role: models.UserRoleCoach}

	assert.True(t, Allowed(coach, OpRecordResults, Resource{}))
	assert.True(t, Allowed(coach, OpRecordAttendance, Resource{}))
	assert.True(t, Allowed(coach, OpCreateCategory, Resource{}))
	assert.False(t, Allowed(coach, OpDeleteCategory, Resource{}))
	assert.False(t, Allowed(coach, OpManageUsers, Resource{}))
}

func TestCoachMayOnlySelfAssign(t *testing.T) {
	coach := Actor{UserID: uuid.New(), Role: models.UserRoleCoach}

	assert.NoError(t, Check(coach, OpAssignCoach, Resource{SubjectUserID: coach.UserID}))

	err := Check(coach, OpAssignCoach, Resource{SubjectUserID: uuid.New()})
	assert.True(t, apperr.KindOf(err) == apperr.KindForbidden)
	assert.Equal(t, "coaches may only assign themselves", apperr.Message(err))
}

func TestCoachMayOnlyEditOwnAnnouncements(t *testing.T) {
	coach := Actor{UserID: uuid.New(), Role: models.UserRoleCoach}

	assert.True(t, Allowed(coach, OpEditAnnouncement, Resource{OwnerID: coach.UserID}))
	assert.False(t, Allowed(coach, OpEditAnnouncement, Resource{OwnerID: uuid.New()}))
}

func TestUnknownRoleDenied(t *testing.T) {
	assert.False(t, Allowed(Actor{Role: "GUEST"}, OpRecordResults, Resource{}))
}

package services_test

import (
	"testing"

	"volunteer-connect/internal/core/domain"
	"volunteer-connect/internal/core/services"
	"volunteer-connect/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMe(t *testing.T) {
	e := newEnv(t)
	vol := e.fx.CreateVolunteer()

	me, err := e.profiles.GetMe(ctx, vol.ID)
	require.NoError(t, err)
	assert.Equal(t, vol.Email, me.Email)
	require.NotNil(t, me.VolunteerProfile)
	assert.Nil(t, me.NGOProfile)

	_, err = e.profiles.GetMe(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsertVolunteerProfile(t *testing.T) {
	e := newEnv(t)
	vol := e.fx.CreateVolunteer()

	profile, err := e.profiles.UpsertVolunteerProfile(ctx, testutil.Principal(vol), &services.VolunteerProfileInput{
		Bio:    ptr("Weekend helper"),
		Skills: ptr([]string{"first aid", "driving"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "Test", profile.FirstName)
	assert.Equal(t, "Weekend helper", profile.Bio)
	assert.Equal(t, []string{"first aid", "driving"}, []string(profile.Skills))

	profile, err = e.profiles.UpsertVolunteerProfile(ctx, testutil.Principal(vol), &services.VolunteerProfileInput{
		Location: ptr("Braga"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Braga", profile.Location)
	assert.Equal(t, "Weekend helper", profile.Bio)

	_, err = e.profiles.UpsertVolunteerProfile(ctx, testutil.Principal(vol), &services.VolunteerProfileInput{FirstName: ptr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.profiles.UpsertVolunteerProfile(ctx, testutil.Principal(e.fx.CreateNGO()), &services.VolunteerProfileInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpsertVolunteerProfile_CreatesMissingRow(t *testing.T) {
	e := newEnv(t)
	vol := e.fx.CreateVolunteer()
	require.NoError(t, e.fx.DB().Delete(vol.VolunteerProfile).Error)

	profile, err := e.profiles.UpsertVolunteerProfile(ctx, testutil.Principal(vol), &services.VolunteerProfileInput{
		FirstName: ptr("Rui"),
	})
	require.NoError(t, err)
	assert.NotZero(t, profile.ID)
	assert.Equal(t, vol.ID, profile.UserID)
}

func TestUpsertNGOProfile_KeepsVerification(t *testing.T) {
	e := newEnv(t)
	admin := e.fx.CreateAdmin()
	ngo := e.fx.CreateNGO()

	_, err := e.profiles.SetNGOVerified(ctx, testutil.Principal(admin), ngo.ID, true)
	require.NoError(t, err)

	profile, err := e.profiles.UpsertNGOProfile(ctx, testutil.Principal(ngo), &services.NGOProfileInput{
		Website:    ptr("https://example.org"),
		FocusAreas: ptr([]string{"environment"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.org", profile.Website)
	assert.Equal(t, "Test Org", profile.OrganizationName)

	public, err := e.profiles.GetNGO(ctx, ngo.ID)
	require.NoError(t, err)
	assert.True(t, public.IsVerified)
	assert.Equal(t, []string{"environment"}, public.FocusAreas)

	_, err = e.profiles.UpsertNGOProfile(ctx, testutil.Principal(e.fx.CreateVolunteer()), &services.NGOProfileInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSetNGOVerified(t *testing.T) {
	e := newEnv(t)
	admin := e.fx.CreateAdmin()
	ngo := e.fx.CreateNGO()

	_, err := e.profiles.SetNGOVerified(ctx, testutil.Principal(ngo), ngo.ID, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.profiles.SetNGOVerified(ctx, testutil.Principal(admin), e.fx.CreateVolunteer().ID, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	public, err := e.profiles.SetNGOVerified(ctx, testutil.Principal(admin), ngo.ID, true)
	require.NoError(t, err)
	assert.True(t, public.IsVerified)

	me, err := e.profiles.GetMe(ctx, ngo.ID)
	require.NoError(t, err)
	assert.True(t, me.IsVerified)

	_, err = e.profiles.GetNGO(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

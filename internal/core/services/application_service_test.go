package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"volunteer-connect/internal/adapters/persistence/models"
	"volunteer-connect/internal/adapters/persistence/repositories"
	"volunteer-connect/internal/core/domain"
	"volunteer-connect/internal/core/services"
	"volunteer-connect/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, e *env, volunteerID uint, missionID uint) uint {
	t.Helper()

	p := domain.Principal{UserID: volunteerID, Role: domain.RoleVolunteer}
	app, err := e.applications.Submit(ctx, p, &services.SubmitApplicationInput{MissionID: missionID, Message: "I can help"})
	require.NoError(t, err)
	return app.ID
}

func decision(status string) *services.DecideApplicationInput {
	return &services.DecideApplicationInput{Status: status}
}

func TestSubmit(t *testing.T) {
	e := newEnv(t)
	ngo := e.fx.CreateNGO()
	vol := e.fx.CreateVolunteer()
	mission := e.fx.CreateMission(ngo)

	app, err := e.applications.Submit(ctx, testutil.Principal(vol), &services.SubmitApplicationInput{
		MissionID: mission.ID,
		Message:   "  I have a car  ",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.ApplicationPending), app.Status)
	assert.Equal(t, "I have a car", app.Message)
	assert.Equal(t, vol.ID, app.VolunteerID)
	assert.False(t, app.AppliedAt.IsZero())
	assert.Nil(t, app.ReviewedAt)
	assert.Equal(t, 0, e.fx.ReloadMission(mission.ID).VolunteersAccepted)
}

func TestSubmit_Errors(t *testing.T) {
	e := newEnv(t)
	ngo := e.fx.CreateNGO()
	vol := e.fx.CreateVolunteer()
	active := e.fx.CreateMission(ngo)
	draft := e.fx.CreateMission(ngo, testutil.WithStatus(domain.MissionDraft))
	past := e.fx.CreateMission(ngo, testutil.WithDate(time.Now().Add(-48*time.Hour)))

	submit := func(p domain.Principal, missionID uint) error {
		_, err := e.applications.Submit(ctx, p, &services.SubmitApplicationInput{MissionID: missionID})
		return err
	}

	assert.ErrorIs(t, submit(testutil.Principal(ngo), active.ID), domain.ErrForbidden)
	assert.ErrorIs(t, submit(testutil.Principal(vol), 9999), domain.ErrNotFound)
	assert.ErrorIs(t, submit(testutil.Principal(vol), 0), domain.ErrValidation)
	assert.ErrorIs(t, submit(testutil.Principal(vol), draft.ID), domain.ErrInvalidState)
	assert.ErrorIs(t, submit(testutil.Principal(vol), past.ID), domain.ErrInvalidState)

	require.NoError(t, submit(testutil.Principal(vol), active.ID))
	assert.ErrorIs(t, submit(testutil.Principal(vol), active.ID), domain.ErrConflict)
}

func TestDecide_AcceptAndReject(t *testing.T) {
	e := newEnv(t)
	ngo := e.fx.CreateNGO()
	mission := e.fx.CreateMission(ngo, testutil.WithCapacity(3))
	first := apply(t, e, e.fx.CreateVolunteer().ID, mission.ID)
	second := apply(t, e, e.fx.CreateVolunteer().ID, mission.ID)

	feedback := "Welcome aboard"
	app, err := e.applications.Decide(ctx, testutil.Principal(ngo), first, &services.DecideApplicationInput{
		Status:   "accepted",
		Feedback: &feedback,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.ApplicationAccepted), app.Status)
	assert.Equal(t, feedback, app.Feedback)
	assert.NotNil(t, app.ReviewedAt)
	assert.Equal(t, 1, e.fx.ReloadMission(mission.ID).VolunteersAccepted)

	app, err = e.applications.Decide(ctx, testutil.Principal(ngo), second, decision("REJECTED"))
	require.NoError(t, err)
	assert.Equal(t, string(domain.ApplicationRejected), app.Status)
	assert.Equal(t, 1, e.fx.ReloadMission(mission.ID).VolunteersAccepted)
	assert.EqualValues(t, 1, e.fx.AcceptedCount(mission.ID))
}

func TestDecide_Errors(t *testing.T) {
	e := newEnv(t)
	ngo := e.fx.CreateNGO()
	other := e.fx.CreateNGO()
	vol := e.fx.CreateVolunteer()
	mission := e.fx.CreateMission(ngo)
	appID := apply(t, e, vol.ID, mission.ID)

	_, err := e.applications.Decide(ctx, testutil.Principal(ngo), appID, decision("WITHDRAWN"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.applications.Decide(ctx, testutil.Principal(ngo), 9999, decision("ACCEPTED"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.applications.Decide(ctx, testutil.Principal(other), appID, decision("ACCEPTED"))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.applications.Decide(ctx, testutil.Principal(vol), appID, decision("ACCEPTED"))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.applications.Decide(ctx, testutil.Principal(ngo), appID, decision("REJECTED"))
	require.NoError(t, err)

	// terminal states stay put and leave the counter alone
	_, err = e.applications.Decide(ctx, testutil.Principal(ngo), appID, decision("ACCEPTED"))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 0, e.fx.ReloadMission(mission.ID).VolunteersAccepted)
}

func TestDecide_CapacityExceeded(t *testing.T) {
	e := newEnv(t)
	ngo := e.fx.CreateNGO()
	mission := e.fx.CreateMission(ngo, testutil.WithCapacity(1))
	first := apply(t, e, e.fx.CreateVolunteer().ID, mission.ID)
	second := apply(t, e, e.fx.CreateVolunteer().ID, mission.ID)

	_, err := e.applications.Decide(ctx, testutil.Principal(ngo), first, decision("ACCEPTED"))
	require.NoError(t, err)

	_, err = e.applications.Decide(ctx, testutil.Principal(ngo), second, decision("ACCEPTED"))
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	app, err := e.applications.Get(ctx, testutil.Principal(ngo), second)
	require.NoError(t, err)
	assert.Equal(t, string(domain.ApplicationPending), app.Status)
	assert.Nil(t, app.ReviewedAt)

	// rejecting is still possible on a full mission
	_, err = e.applications.Decide(ctx, testutil.Principal(ngo), second, decision("REJECTED"))
	require.NoError(t, err)

	m := e.fx.ReloadMission(mission.ID)
	assert.Equal(t, 1, m.VolunteersAccepted)
	assert.EqualValues(t, m.VolunteersAccepted, e.fx.AcceptedCount(mission.ID))
}

func TestDecide_ConcurrentAcceptsOnLastSlot(t *testing.T) {
	e := newEnv(t)
	ngo := e.fx.CreateNGO()
	mission := e.fx.CreateMission(ngo, testutil.WithCapacity(1))
	apps := []uint{
		apply(t, e, e.fx.CreateVolunteer().ID, mission.ID),
		apply(t, e, e.fx.CreateVolunteer().ID, mission.ID),
	}

	errs := make([]error, len(apps))
	var wg sync.WaitGroup
	for i, id := range apps {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			_, errs[i] = e.applications.Decide(ctx, testutil.Principal(ngo), id, decision("ACCEPTED"))
		}(i, id)
	}
	wg.Wait()

	var ok, full int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrCapacityExceeded):
			full++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, full)

	m := e.fx.ReloadMission(mission.ID)
	assert.Equal(t, 1, m.VolunteersAccepted)
	assert.EqualValues(t, 1, e.fx.AcceptedCount(mission.ID))
}

// staleApplications reads every mission as empty and every pair as new, the
// view a request has when a concurrent writer commits between its read and
// its write. Only the store constraints can then refuse the write.
type staleApplications struct {
	repositories.ApplicationRepository
}

func (r staleApplications) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	app, err := r.ApplicationRepository.GetByID(ctx, id)
	if err == nil && app.Mission != nil {
		app.Mission.VolunteersAccepted = 0
	}
	return app, err
}

func (staleApplications) Exists(context.Context, uint, uint) (bool, error) {
	return false, nil
}

func staleService(e *env) *services.ApplicationService {
	db := e.fx.DB()
	return services.NewApplicationService(
		repositories.NewTransactor(db),
		staleApplications{repositories.NewApplicationRepository(db)},
		repositories.NewMissionRepository(db),
	)
}

func TestDecide_StaleReadOnFullMissionRollsBack(t *testing.T) {
	e := newEnv(t)
	ngo := e.fx.CreateNGO()
	mission := e.fx.CreateMission(ngo, testutil.WithCapacity(1))
	first := apply(t, e, e.fx.CreateVolunteer().ID, mission.ID)
	second := apply(t, e, e.fx.CreateVolunteer().ID, mission.ID)

	_, err := e.applications.Decide(ctx, testutil.Principal(ngo), first, decision("ACCEPTED"))
	require.NoError(t, err)

	_, err = staleService(e).Decide(ctx, testutil.Principal(ngo), second, &services.DecideApplicationInput{
		Status:   "ACCEPTED",
		Feedback: ptr("welcome"),
	})
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)

	// the status write is undone with the failed increment
	app, err := e.applications.Get(ctx, testutil.Principal(ngo), second)
	require.NoError(t, err)
	assert.Equal(t, string(domain.ApplicationPending), app.Status)
	assert.Nil(t, app.ReviewedAt)
	assert.Empty(t, app.Feedback)

	m := e.fx.ReloadMission(mission.ID)
	assert.Equal(t, 1, m.VolunteersAccepted)
	assert.EqualValues(t, 1, e.fx.AcceptedCount(mission.ID))
}

func TestSubmit_StaleReadDuplicateIsConflict(t *testing.T) {
	e := newEnv(t)
	ngo := e.fx.CreateNGO()
	vol := e.fx.CreateVolunteer()
	mission := e.fx.CreateMission(ngo)
	apply(t, e, vol.ID, mission.ID)

	_, err := staleService(e).Submit(ctx, testutil.Principal(vol), &services.SubmitApplicationInput{MissionID: mission.ID})
	require.ErrorIs(t, err, domain.ErrConflict)

	var count int64
	require.NoError(t, e.fx.DB().Model(&models.Application{}).
		Where("mission_id = ? AND volunteer_id = ?", mission.ID, vol.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestWithdraw(t *testing.T) {
	e := newEnv(t)
	ngo := e.fx.CreateNGO()
	vol := e.fx.CreateVolunteer()
	mission := e.fx.CreateMission(ngo, testutil.WithCapacity(1))
	appID := apply(t, e, vol.ID, mission.ID)

	_, err := e.applications.Decide(ctx, testutil.Principal(ngo), appID, decision("ACCEPTED"))
	require.NoError(t, err)
	require.Equal(t, 1, e.fx.ReloadMission(mission.ID).VolunteersAccepted)

	_, err = e.applications.Withdraw(ctx, testutil.Principal(e.fx.CreateVolunteer()), appID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	app, err := e.applications.Withdraw(ctx, testutil.Principal(vol), appID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.ApplicationWithdrawn), app.Status)
	assert.Equal(t, 0, e.fx.ReloadMission(mission.ID).VolunteersAccepted)

	_, err = e.applications.Withdraw(ctx, testutil.Principal(vol), appID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 0, e.fx.ReloadMission(mission.ID).VolunteersAccepted)

	// the freed slot can be taken by another volunteer
	next := apply(t, e, e.fx.CreateVolunteer().ID, mission.ID)
	_, err = e.applications.Decide(ctx, testutil.Principal(ngo), next, decision("ACCEPTED"))
	require.NoError(t, err)
	assert.Equal(t, 1, e.fx.ReloadMission(mission.ID).VolunteersAccepted)
}

func TestWithdraw_PendingAndRejected(t *testing.T) {
	e := newEnv(t)
	ngo := e.fx.CreateNGO()
	vol := e.fx.CreateVolunteer()
	pending := apply(t, e, vol.ID, e.fx.CreateMission(ngo).ID)
	rejected := apply(t, e, vol.ID, e.fx.CreateMission(ngo).ID)

	_, err := e.applications.Decide(ctx, testutil.Principal(ngo), rejected, decision("REJECTED"))
	require.NoError(t, err)

	app, err := e.applications.Withdraw(ctx, testutil.Principal(vol), pending)
	require.NoError(t, err)
	assert.Equal(t, string(domain.ApplicationWithdrawn), app.Status)

	_, err = e.applications.Withdraw(ctx, testutil.Principal(vol), rejected)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = e.applications.Withdraw(ctx, testutil.Principal(vol), 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmit_NoReapplyAfterWithdraw(t *testing.T) {
	e := newEnv(t)
	ngo := e.fx.CreateNGO()
	vol := e.fx.CreateVolunteer()
	mission := e.fx.CreateMission(ngo)
	appID := apply(t, e, vol.ID, mission.ID)

	_, err := e.applications.Withdraw(ctx, testutil.Principal(vol), appID)
	require.NoError(t, err)

	_, err = e.applications.Submit(ctx, testutil.Principal(vol), &services.SubmitApplicationInput{MissionID: mission.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGet_Visibility(t *testing.T) {
	e := newEnv(t)
	ngo := e.fx.CreateNGO()
	vol := e.fx.CreateVolunteer()
	appID := apply(t, e, vol.ID, e.fx.CreateMission(ngo).ID)

	for _, p := range []domain.Principal{
		testutil.Principal(vol),
		testutil.Principal(ngo),
		testutil.Principal(e.fx.CreateAdmin()),
	} {
		app, err := e.applications.Get(ctx, p, appID)
		require.NoError(t, err)
		assert.Equal(t, appID, app.ID)
	}

	_, err := e.applications.Get(ctx, testutil.Principal(e.fx.CreateVolunteer()), appID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.applications.Get(ctx, testutil.Principal(e.fx.CreateNGO()), appID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListApplications(t *testing.T) {
	e := newEnv(t)
	ngo := e.fx.CreateNGO()
	vol := e.fx.CreateVolunteer()
	mission := e.fx.CreateMission(ngo, testutil.WithCapacity(5))

	var ids []uint
	for i := 0; i < 3; i++ {
		ids = append(ids, apply(t, e, e.fx.CreateVolunteer().ID, mission.ID))
	}
	apply(t, e, vol.ID, mission.ID)
	apply(t, e, vol.ID, e.fx.CreateMission(ngo).ID)

	_, err := e.applications.Decide(ctx, testutil.Principal(ngo), ids[0], decision("ACCEPTED"))
	require.NoError(t, err)

	out, err := e.applications.ListForMission(ctx, testutil.Principal(ngo), mission.ID, &services.ListApplicationsInput{Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, out.Applications, 3)
	assert.EqualValues(t, 4, out.Pagination.Total)
	assert.Equal(t, 2, out.Pagination.Pages)
	require.NotNil(t, out.Applications[0].Volunteer)

	out, err = e.applications.ListForMission(ctx, testutil.Principal(ngo), mission.ID, &services.ListApplicationsInput{Status: "accepted"})
	require.NoError(t, err)
	require.Len(t, out.Applications, 1)
	assert.Equal(t, ids[0], out.Applications[0].ID)

	_, err = e.applications.ListForMission(ctx, testutil.Principal(e.fx.CreateNGO()), mission.ID, &services.ListApplicationsInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.applications.ListForMission(ctx, testutil.Principal(ngo), mission.ID, &services.ListApplicationsInput{Status: "LOST"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	mine, err := e.applications.ListMine(ctx, testutil.Principal(vol), &services.ListApplicationsInput{})
	require.NoError(t, err)
	assert.Len(t, mine.Applications, 2)
	assert.EqualValues(t, 2, mine.Pagination.Total)
	for _, app := range mine.Applications {
		assert.Equal(t, vol.ID, app.VolunteerID)
		assert.NotNil(t, app.Mission)
	}

	_, err = e.applications.ListMine(ctx, testutil.Principal(ngo), &services.ListApplicationsInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

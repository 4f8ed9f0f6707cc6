package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/portal-gateway/internal/models"
	"github.com/mergington/portal-gateway/internal/session"
	appErrors "github.com/mergington/portal-gateway/pkg/errors"
)

type catalogClientStub struct {
	activities map[string]models.Activity
	fetchErr   error
	fetches    int
	lastDay    string
	lastRange  models.TimeRange
	onFetch    func()

	signupMsg  string
	signupErr  error
	signups    int
	unregister int
}

func (s *catalogClientStub) Activities(ctx context.Context, day string, timeRange models.TimeRange) (map[string]models.Activity, error) {
	s.fetches++
	s.lastDay = day
	s.lastRange = timeRange
	if s.onFetch != nil {
		s.onFetch()
	}
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.activities, nil
}

func (s *catalogClientStub) Signup(ctx context.Context, activity, email, teacherUsername string) (string, error) {
	s.signups++
	if s.signupErr != nil {
		return "", s.signupErr
	}
	return s.signupMsg, nil
}

func (s *catalogClientStub) Unregister(ctx context.Context, activity, email, teacherUsername string) (string, error) {
	s.unregister++
	return "removed", nil
}

type sessionsAdapter struct {
	store *session.MemoryStore
}

func (a sessionsAdapter) Save(ctx context.Context, s *models.Session) error {
	return a.store.Save(ctx, s)
}

func (a sessionsAdapter) Reload(ctx context.Context, id string) (*models.Session, error) {
	return a.store.Get(ctx, id)
}

func newTestSession(state models.SessionState) *models.Session {
	sess := &models.Session{
		ID:      "sess-1",
		State:   state,
		Filters: models.FilterState{Category: models.CategoryAll},
		Modals:  map[string]models.Modal{},
	}
	if state == models.SessionAuthenticated {
		sess.User = &models.User{Username: "mrodriguez", DisplayName: "Ms. Rodriguez", Role: "teacher"}
	}
	return sess
}

func stubActivities() map[string]models.Activity {
	return map[string]models.Activity{
		"Soccer Club": {
			Name:            "Soccer Club",
			Description:     "after school fun",
			MaxParticipants: 2,
			Participants:    []string{"a@mergington.edu", "b@mergington.edu"},
			ScheduleDetails: &models.ScheduleDetails{Days: []string{"Wednesday"}, StartTime: "15:00", EndTime: "17:00"},
		},
		"Chess Club": {
			Name:            "Chess Club",
			Description:     "competition for strategic minds",
			MaxParticipants: 12,
			Participants:    []string{"c@mergington.edu"},
			ScheduleDetails: &models.ScheduleDetails{Days: []string{"Saturday"}, StartTime: "09:00", EndTime: "11:00"},
		},
	}
}

func TestBrowseFetchesAndFilters(t *testing.T) {
	client := &catalogClientStub{activities: stubActivities()}
	svc := NewCatalogService(client, sessionsAdapter{session.NewMemoryStore()}, nil)
	sess := newTestSession(models.SessionAnonymous)

	catalog, err := svc.Browse(context.Background(), sess, models.FilterState{Category: models.CategoryAcademic})
	require.NoError(t, err)
	assert.Equal(t, 1, client.fetches)
	require.Len(t, catalog.Activities, 1)
	assert.Equal(t, "Chess Club", catalog.Activities[0].Name)
	assert.Equal(t, "Saturday, 9:00 AM - 11:00 AM", catalog.Activities[0].Schedule)
	assert.False(t, catalog.Activities[0].CanRegister, "anonymous users cannot register")
}

func TestBrowseReusesSnapshotForClientSideFilters(t *testing.T) {
	client := &catalogClientStub{activities: stubActivities()}
	svc := NewCatalogService(client, sessionsAdapter{session.NewMemoryStore()}, nil)
	sess := newTestSession(models.SessionAnonymous)

	_, err := svc.Browse(context.Background(), sess, models.FilterState{Category: models.CategoryAll})
	require.NoError(t, err)
	_, err = svc.Browse(context.Background(), sess, models.FilterState{Category: models.CategorySports, Query: "socc"})
	require.NoError(t, err)

	assert.Equal(t, 1, client.fetches, "category/search changes must not re-fetch")
}

func TestBrowseRefetchesOnDayOrTimeChange(t *testing.T) {
	client := &catalogClientStub{activities: stubActivities()}
	svc := NewCatalogService(client, sessionsAdapter{session.NewMemoryStore()}, nil)
	sess := newTestSession(models.SessionAnonymous)

	_, err := svc.Browse(context.Background(), sess, models.FilterState{Category: models.CategoryAll})
	require.NoError(t, err)
	_, err = svc.Browse(context.Background(), sess, models.FilterState{Category: models.CategoryAll, Day: "Monday", TimeRange: models.TimeRangeAfternoon})
	require.NoError(t, err)

	assert.Equal(t, 2, client.fetches)
	assert.Equal(t, "Monday", client.lastDay)
	assert.Equal(t, models.TimeRangeAfternoon, client.lastRange)
}

func TestStaleRefreshIsDiscarded(t *testing.T) {
	store := session.NewMemoryStore()
	client := &catalogClientStub{activities: stubActivities()}
	svc := NewCatalogService(client, sessionsAdapter{store}, nil)
	sess := newTestSession(models.SessionAnonymous)

	_, err := svc.Browse(context.Background(), sess, models.FilterState{Category: models.CategoryAll})
	require.NoError(t, err)

	// a concurrent tab commits a newer snapshot while this fetch is in flight
	newer := newTestSession(models.SessionAnonymous)
	newer.Activities = map[string]models.Activity{"Newer Club": {Name: "Newer Club", MaxParticipants: 5}}
	client.onFetch = func() {
		newer.FetchSeq = sess.FetchSeq + 1
		require.NoError(t, store.Save(context.Background(), newer))
	}

	_, err = svc.Browse(context.Background(), sess, models.FilterState{Category: models.CategoryAll, Day: "Friday"})
	require.NoError(t, err)

	assert.Equal(t, newer.FetchSeq, sess.FetchSeq)
	assert.Contains(t, sess.Activities, "Newer Club", "older response must not overwrite the newer snapshot")
}

func TestSignupBlockedWhenFull(t *testing.T) {
	client := &catalogClientStub{activities: stubActivities()}
	svc := NewCatalogService(client, sessionsAdapter{session.NewMemoryStore()}, nil)
	sess := newTestSession(models.SessionAuthenticated)

	_, err := svc.Browse(context.Background(), sess, models.FilterState{Category: models.CategoryAll})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), sess, "Soccer Club", "kid@mergington.edu")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrActivityFull.Code, appErrors.FromError(err).Code)
	assert.Zero(t, client.signups, "no upstream call may be issued for a full activity")
}

func TestSignupRequiresAuthentication(t *testing.T) {
	client := &catalogClientStub{activities: stubActivities()}
	svc := NewCatalogService(client, sessionsAdapter{session.NewMemoryStore()}, nil)
	sess := newTestSession(models.SessionAnonymous)

	_, err := svc.Signup(context.Background(), sess, "Chess Club", "kid@mergington.edu")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
	assert.Zero(t, client.signups)
}

func TestSignupSuccessRefreshesSnapshot(t *testing.T) {
	client := &catalogClientStub{activities: stubActivities(), signupMsg: "Signed up kid@mergington.edu"}
	svc := NewCatalogService(client, sessionsAdapter{session.NewMemoryStore()}, nil)
	sess := newTestSession(models.SessionAuthenticated)

	_, err := svc.Browse(context.Background(), sess, models.FilterState{Category: models.CategoryAll})
	require.NoError(t, err)
	fetchesBefore := client.fetches

	msg, err := svc.Signup(context.Background(), sess, "Chess Club", "kid@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, "Signed up kid@mergington.edu", msg)
	assert.Equal(t, 1, client.signups)
	assert.Equal(t, fetchesBefore+1, client.fetches)
}

func TestUnregisterUnknownActivity(t *testing.T) {
	client := &catalogClientStub{activities: stubActivities()}
	svc := NewCatalogService(client, sessionsAdapter{session.NewMemoryStore()}, nil)
	sess := newTestSession(models.SessionAuthenticated)

	_, err := svc.Browse(context.Background(), sess, models.FilterState{Category: models.CategoryAll})
	require.NoError(t, err)

	_, err = svc.Unregister(context.Background(), sess, "Knitting Circle", "kid@mergington.edu")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Zero(t, client.unregister)
}

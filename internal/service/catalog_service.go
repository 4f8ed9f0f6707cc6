package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/mergington/portal-gateway/internal/dto"
	"github.com/mergington/portal-gateway/internal/filterset"
	"github.com/mergington/portal-gateway/internal/format"
	"github.com/mergington/portal-gateway/internal/models"
	appErrors "github.com/mergington/portal-gateway/pkg/errors"
)

type catalogClient interface {
	Activities(ctx context.Context, day string, timeRange models.TimeRange) (map[string]models.Activity, error)
	Signup(ctx context.Context, activity, email, teacherUsername string) (string, error)
	Unregister(ctx context.Context, activity, email, teacherUsername string) (string, error)
}

type sessionWriter interface {
	Save(ctx context.Context, s *models.Session) error
	Reload(ctx context.Context, id string) (*models.Session, error)
}

// CatalogService owns the activity snapshot: upstream refreshes, client-side
// filtering, view-model assembly and the roster mutations.
type CatalogService struct {
	client   catalogClient
	sessions sessionWriter
	logger   *zap.Logger
}

// NewCatalogService constructs the service.
func NewCatalogService(client catalogClient, sessions sessionWriter, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{client: client, sessions: sessions, logger: logger}
}

// Browse applies the requested filters. Day/time changes (or a missing
// snapshot) trigger an upstream fetch; category, search and weekend are
// resolved against the stored snapshot.
func (s *CatalogService) Browse(ctx context.Context, sess *models.Session, state models.FilterState) (dto.CatalogView, error) {
	if state.Category == "" {
		state.Category = models.CategoryAll
	}

	if sess.Activities == nil || state.NeedsRefetch(sess.Filters) {
		if err := s.refresh(ctx, sess, state); err != nil {
			return dto.CatalogView{}, err
		}
	}

	sess.Filters = state
	if err := s.sessions.Save(ctx, sess); err != nil {
		return dto.CatalogView{}, err
	}

	filtered := filterset.Apply(sortedActivities(sess.Activities), state)
	cards := make([]dto.ActivityCard, 0, len(filtered))
	for _, activity := range filtered {
		cards = append(cards, buildCard(activity, sess))
	}

	return dto.CatalogView{Activities: cards, Filters: state, Total: len(cards)}, nil
}

// Signup registers a student. Full activities are rejected before any
// upstream request, matching the disabled button in the UI.
func (s *CatalogService) Signup(ctx context.Context, sess *models.Session, activityName, email string) (string, error) {
	activity, err := s.requireActivity(ctx, sess, activityName)
	if err != nil {
		return "", err
	}
	if activity.IsFull() {
		return "", appErrors.ErrActivityFull
	}

	message, err := s.client.Signup(ctx, activityName, email, sess.Username())
	if err != nil {
		return "", err
	}

	if err := s.refresh(ctx, sess, sess.Filters); err != nil {
		s.logger.Warn("post-signup refresh failed", zap.String("activity", activityName), zap.Error(err))
	}
	return message, nil
}

// Unregister removes a student from an activity roster.
func (s *CatalogService) Unregister(ctx context.Context, sess *models.Session, activityName, email string) (string, error) {
	if _, err := s.requireActivity(ctx, sess, activityName); err != nil {
		return "", err
	}

	message, err := s.client.Unregister(ctx, activityName, email, sess.Username())
	if err != nil {
		return "", err
	}

	if err := s.refresh(ctx, sess, sess.Filters); err != nil {
		s.logger.Warn("post-unregister refresh failed", zap.String("activity", activityName), zap.Error(err))
	}
	return message, nil
}

func (s *CatalogService) requireActivity(ctx context.Context, sess *models.Session, name string) (models.Activity, error) {
	if !sess.Authenticated() {
		return models.Activity{}, appErrors.ErrUnauthorized
	}
	if sess.Activities == nil {
		if err := s.refresh(ctx, sess, sess.Filters); err != nil {
			return models.Activity{}, err
		}
	}
	activity, ok := sess.Activities[name]
	if !ok {
		return models.Activity{}, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
	}
	return activity, nil
}

// refresh fetches a new snapshot under a sequence number. The sequence is
// claimed (and persisted) before the upstream call so that when overlapping
// refreshes race, the response belonging to an older claim is discarded
// instead of overwriting a newer snapshot.
func (s *CatalogService) refresh(ctx context.Context, sess *models.Session, state models.FilterState) error {
	seq := sess.FetchSeq + 1
	sess.FetchSeq = seq
	if err := s.sessions.Save(ctx, sess); err != nil {
		return err
	}

	activities, err := s.client.Activities(ctx, state.Day, state.TimeRange)
	if err != nil {
		return err
	}

	current, reloadErr := s.sessions.Reload(ctx, sess.ID)
	if reloadErr == nil && current.FetchSeq > seq {
		// a newer refresh won the race; keep its snapshot
		s.logger.Info("discarding stale activities response",
			zap.Uint64("stale_seq", seq),
			zap.Uint64("current_seq", current.FetchSeq),
		)
		sess.FetchSeq = current.FetchSeq
		sess.Activities = current.Activities
		return nil
	}

	sess.Activities = activities
	return s.sessions.Save(ctx, sess)
}

func buildCard(activity models.Activity, sess *models.Session) dto.ActivityCard {
	full := activity.IsFull()
	return dto.ActivityCard{
		Name:            activity.Name,
		Description:     activity.Description,
		Schedule:        format.Schedule(activity),
		Category:        format.Classify(activity.Name, activity.Description),
		MaxParticipants: activity.MaxParticipants,
		Participants:    activity.Participants,
		SpotsLeft:       activity.SpotsLeft(),
		IsFull:          full,
		CanRegister:     sess.Authenticated() && !full,
	}
}

func sortedActivities(snapshot map[string]models.Activity) []models.Activity {
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]models.Activity, 0, len(names))
	for _, name := range names {
		out = append(out, snapshot[name])
	}
	return out
}

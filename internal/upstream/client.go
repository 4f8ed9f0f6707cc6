// Package upstream is the HTTP client for the remote portal API: activities,
// authentication and announcements. Every call returns plain data or a typed
// *errors.Error; transport failures and non-2xx statuses never escape raw.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/mergington/portal-gateway/internal/models"
	"github.com/mergington/portal-gateway/pkg/config"
	appErrors "github.com/mergington/portal-gateway/pkg/errors"
)

// Observer receives one measurement per upstream call, for metrics.
type Observer interface {
	ObserveUpstreamRequest(operation string, status int, duration time.Duration)
}

// Client talks to the portal backend.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *zap.Logger
	observer Observer
}

// New constructs a client from config. The observer may be nil.
func New(cfg config.UpstreamConfig, logger *zap.Logger, observer Observer) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
		observer: observer,
	}
}

// detailBody is the error shape the backend returns on non-2xx responses.
type detailBody struct {
	Detail string `json:"detail"`
}

// messageBody is the success shape of signup/unregister/delete calls.
type messageBody struct {
	Message string `json:"message"`
}

// Activities fetches the activity map, optionally narrowed by day and the
// time window the range maps to. Weekend contributes no server parameters.
func (c *Client) Activities(ctx context.Context, day string, timeRange models.TimeRange) (map[string]models.Activity, error) {
	query := url.Values{}
	if day != "" {
		query.Set("day", day)
	}
	if start, end := timeRange.Window(); start != "" {
		query.Set("start_time", start)
		query.Set("end_time", end)
	}

	var raw map[string]models.Activity
	if err := c.call(ctx, "activities", http.MethodGet, "/activities", query, nil, &raw, nil); err != nil {
		return nil, err
	}

	// the backend keys the map by name and omits it from the value
	for name, activity := range raw {
		activity.Name = name
		raw[name] = activity
	}
	return raw, nil
}

// Signup registers a student for an activity on behalf of a teacher.
func (c *Client) Signup(ctx context.Context, activity, email, teacherUsername string) (string, error) {
	return c.roster(ctx, "signup", activity, email, teacherUsername)
}

// Unregister removes a student from an activity on behalf of a teacher.
func (c *Client) Unregister(ctx context.Context, activity, email, teacherUsername string) (string, error) {
	return c.roster(ctx, "unregister", activity, email, teacherUsername)
}

func (c *Client) roster(ctx context.Context, action, activity, email, teacherUsername string) (string, error) {
	query := url.Values{}
	query.Set("email", email)
	query.Set("teacher_username", teacherUsername)

	path := fmt.Sprintf("/activities/%s/%s", url.PathEscape(activity), action)
	var body messageBody
	if err := c.call(ctx, action, http.MethodPost, path, query, nil, &body, nil); err != nil {
		return "", err
	}
	return body.Message, nil
}

// Login exchanges credentials for the teacher's session object. Failures
// carry the server detail when present, else the standard invalid-credentials
// message.
func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	query := url.Values{}
	query.Set("username", username)
	query.Set("password", password)

	var user models.User
	if err := c.call(ctx, "login", http.MethodPost, "/auth/login", query, nil, &user, appErrors.ErrInvalidCredentials); err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckSession revalidates a persisted username against the backend.
func (c *Client) CheckSession(ctx context.Context, username string) (*models.User, error) {
	query := url.Values{}
	query.Set("username", username)

	var user models.User
	if err := c.call(ctx, "check_session", http.MethodGet, "/auth/check-session", query, nil, &user, appErrors.ErrSessionExpired); err != nil {
		return nil, err
	}
	return &user, nil
}

// ActiveAnnouncements returns the currently active announcements in the
// backend's order; the first element backs the banner.
func (c *Client) ActiveAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var out []models.Announcement
	if err := c.call(ctx, "announcements_active", http.MethodGet, "/announcements/active", nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// Announcements returns the full list for the manager view.
func (c *Client) Announcements(ctx context.Context) ([]models.Announcement, error) {
	var out []models.Announcement
	if err := c.call(ctx, "announcements_list", http.MethodGet, "/announcements/", nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAnnouncement posts a new announcement. Dates travel as query
// parameters, title and message as the JSON body, matching the backend route.
func (c *Client) CreateAnnouncement(ctx context.Context, payload models.AnnouncementPayload, teacherUsername string) (*models.Announcement, error) {
	query := url.Values{}
	query.Set("teacher_username", teacherUsername)
	query.Set("expire_date", payload.ExpireDate)
	if payload.StartDate != "" {
		query.Set("start_date", payload.StartDate)
	}

	body := map[string]string{"title": payload.Title, "message": payload.Message}
	var out models.Announcement
	if err := c.call(ctx, "announcement_create", http.MethodPost, "/announcements/", query, body, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAnnouncement replaces the editable fields of an announcement.
func (c *Client) UpdateAnnouncement(ctx context.Context, id string, payload models.AnnouncementPayload, teacherUsername string) (*models.Announcement, error) {
	query := url.Values{}
	query.Set("teacher_username", teacherUsername)

	var out models.Announcement
	path := "/announcements/" + url.PathEscape(id)
	if err := c.call(ctx, "announcement_update", http.MethodPut, path, query, payload, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAnnouncement removes an announcement.
func (c *Client) DeleteAnnouncement(ctx context.Context, id, teacherUsername string) error {
	query := url.Values{}
	query.Set("teacher_username", teacherUsername)

	path := "/announcements/" + url.PathEscape(id)
	return c.call(ctx, "announcement_delete", http.MethodDelete, path, query, nil, nil, nil)
}

// call performs one request/response cycle. A non-nil fallback overrides the
// generic error for non-2xx responses lacking a server detail.
func (c *Client) call(ctx context.Context, operation, method, path string, query url.Values, body, dest interface{}, fallback *appErrors.Error) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.observe(operation, 0, time.Since(start))
		c.logger.Warn("upstream unreachable", zap.String("operation", operation), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, appErrors.ErrUpstreamUnavailable.Message)
	}
	defer res.Body.Close()
	c.observe(operation, res.StatusCode, time.Since(start))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return c.statusError(res, operation, fallback)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		c.logger.Warn("upstream response malformed", zap.String("operation", operation), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message)
	}
	return nil
}

func (c *Client) statusError(res *http.Response, operation string, fallback *appErrors.Error) error {
	var detail detailBody
	_ = json.NewDecoder(res.Body).Decode(&detail)

	base := fallback
	if base == nil {
		switch res.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			base = appErrors.ErrUnauthorized
		case http.StatusNotFound:
			base = appErrors.ErrNotFound
		case http.StatusBadRequest:
			base = appErrors.ErrValidation
		default:
			base = appErrors.ErrUpstream
		}
	}

	message := detail.Detail
	if message == "" {
		message = base.Message
	}
	c.logger.Info("upstream rejected request",
		zap.String("operation", operation),
		zap.Int("status", res.StatusCode),
		zap.String("detail", detail.Detail),
	)
	return appErrors.Clone(base, message)
}

func (c *Client) observe(operation string, status int, duration time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveUpstreamRequest(operation, status, duration)
}

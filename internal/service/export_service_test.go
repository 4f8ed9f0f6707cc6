package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/portal-gateway/internal/dto"
	"github.com/mergington/portal-gateway/internal/models"
	appErrors "github.com/mergington/portal-gateway/pkg/errors"
)

type browserStub struct {
	view dto.CatalogView
	err  error
}

func (s browserStub) Browse(ctx context.Context, sess *models.Session, state models.FilterState) (dto.CatalogView, error) {
	return s.view, s.err
}

func TestExportCatalogCSV(t *testing.T) {
	svc := NewExportService(browserStub{view: dto.CatalogView{Activities: []dto.ActivityCard{
		{Name: "Chess Club", Category: models.CategoryAcademic, Schedule: "Saturday, 9:00 AM - 11:00 AM", Participants: []string{"a@mergington.edu"}, MaxParticipants: 12},
	}}})

	file, err := svc.Catalog(context.Background(), newTestSession(models.SessionAnonymous), models.FilterState{}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "activities.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	body := string(file.Data)
	assert.True(t, strings.HasPrefix(body, "Activity,Category,Schedule,Enrolled,Capacity"))
	assert.Contains(t, body, "Chess Club,academic")
}

func TestExportCatalogPDF(t *testing.T) {
	svc := NewExportService(browserStub{view: dto.CatalogView{Activities: []dto.ActivityCard{
		{Name: "Chess Club", Category: models.CategoryAcademic, MaxParticipants: 12},
	}}})

	file, err := svc.Catalog(context.Background(), newTestSession(models.SessionAnonymous), models.FilterState{}, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Data), "%PDF"))
}

func TestExportCatalogRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(browserStub{})
	_, err := svc.Catalog(context.Background(), newTestSession(models.SessionAnonymous), models.FilterState{}, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

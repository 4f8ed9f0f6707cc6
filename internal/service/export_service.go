package service

import (
	"context"
	"fmt"

	"github.com/mergington/portal-gateway/internal/dto"
	"github.com/mergington/portal-gateway/internal/models"
	appErrors "github.com/mergington/portal-gateway/pkg/errors"
	"github.com/mergington/portal-gateway/pkg/export"
)

type catalogBrowser interface {
	Browse(ctx context.Context, sess *models.Session, state models.FilterState) (dto.CatalogView, error)
}

// ExportService renders the currently filtered catalog as a download.
type ExportService struct {
	catalog catalogBrowser
}

// NewExportService constructs the service.
func NewExportService(catalog catalogBrowser) *ExportService {
	return &ExportService{catalog: catalog}
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Catalog produces the filtered activity list in the requested format
// ("csv" or "pdf").
func (s *ExportService) Catalog(ctx context.Context, sess *models.Session, state models.FilterState, fileFormat string) (*ExportFile, error) {
	if fileFormat != "csv" && fileFormat != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	catalog, err := s.catalog.Browse(ctx, sess, state)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title:   "Extracurricular Activities",
		Columns: []string{"Activity", "Category", "Schedule", "Enrolled", "Capacity"},
	}
	for _, card := range catalog.Activities {
		table.Rows = append(table.Rows, []string{
			card.Name,
			string(card.Category),
			card.Schedule,
			fmt.Sprintf("%d", len(card.Participants)),
			fmt.Sprintf("%d", card.MaxParticipants),
		})
	}

	switch fileFormat {
	case "csv":
		data, err := export.CSV(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv")
		}
		return &ExportFile{Filename: "activities.csv", ContentType: "text/csv", Data: data}, nil
	default:
		data, err := export.PDF(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf")
		}
		return &ExportFile{Filename: "activities.pdf", ContentType: "application/pdf", Data: data}, nil
	}
}

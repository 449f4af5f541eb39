package history

import (
	"context"

	"github.com/dmitrijs2005/passync/internal/models"
)

type Repository interface {
	Record(ctx context.Context, rec *models.HistoryRecord) error
	List(ctx context.Context, limit int) ([]models.HistoryRecord, error)
	Last(ctx context.Context) (*models.HistoryRecord, error)
}

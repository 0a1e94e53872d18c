package repositories

import (
	"context"
	"errors"

	"github.com/Cienszki/automatic-tournament-sub001/models"
)

var (
	ErrPlayoffNotFound = errors.New("playoff not found")

	// ErrVersionConflict means the stored aggregate moved past the version
	// the caller read; the whole read-modify-write cycle must be redone.
	ErrVersionConflict = errors.New("playoff version conflict")
)

// PlayoffRepository persists the aggregate as a single document. There are
// no partial-field updates: every save replaces the whole document, guarded
// by the version the caller loaded.
type PlayoffRepository interface {
	Create(ctx context.Context, playoff *models.PlayoffData) error
	GetByID(ctx context.Context, id string) (*models.PlayoffData, error)
	List(ctx context.Context) ([]*models.PlayoffData, error)
	Update(ctx context.Context, playoff *models.PlayoffData, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
}

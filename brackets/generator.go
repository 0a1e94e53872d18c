package brackets

import (
	"github.com/Cienszki/automatic-tournament-sub001/models"
)

type GenerateParams struct {
	ID   string
	Name string
}

// Generator builds a complete, internally consistent playoff aggregate.
// Implementations must be deterministic: two runs with the same params
// produce structurally identical brackets.
type Generator interface {
	Generate(params GenerateParams) (*models.PlayoffData, error)

	GetName() string
}

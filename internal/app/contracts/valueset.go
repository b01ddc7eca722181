package contracts

import (
	"context"
	"fhirstarter-service/internal/pkg/questionnaire"
	"fhirstarter-service/internal/pkg/valueset"
)

type ValueSetFhirClient interface {
	FindValueSetByID(ctx context.Context, valueSetID string) (*valueset.ValueSet, error)
	ExpandValueSet(ctx context.Context, valueSetID string) (*valueset.ValueSet, error)
}

type ValueSetUsecase interface {
	FindCatalog(ctx context.Context, root *questionnaire.Group, inline valueset.Catalog) (valueset.Catalog, error)
}

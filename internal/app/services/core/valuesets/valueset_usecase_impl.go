package valuesets

import (
	"context"
	"fhirstarter-service/internal/app/contracts"
	"fhirstarter-service/internal/pkg/constvars"
	"fhirstarter-service/internal/pkg/questionnaire"
	"fhirstarter-service/internal/pkg/utils"
	"fhirstarter-service/internal/pkg/valueset"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type valueSetUsecase struct {
	ValueSetFhirClient contracts.ValueSetFhirClient
	RedisRepository    contracts.RedisRepository
	CacheTTL           time.Duration
	Log                *zap.Logger
}

// NewValueSetUsecase builds the catalog provider. redisRepository may be nil,
// in which case every lookup goes to the FHIR server.
func NewValueSetUsecase(
	valueSetFhirClient contracts.ValueSetFhirClient,
	redisRepository contracts.RedisRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) contracts.ValueSetUsecase {
	return &valueSetUsecase{
		ValueSetFhirClient: valueSetFhirClient,
		RedisRepository:    redisRepository,
		CacheTTL:           cacheTTL,
		Log:                logger,
	}
}

// FindCatalog prefetches every value set the questionnaire references. Sets
// supplied inline come first and are never fetched. A set that cannot be
// found is left out so that its questions fall back to free text.
func (uc *valueSetUsecase) FindCatalog(ctx context.Context, root *questionnaire.Group, inline valueset.Catalog) (valueset.Catalog, error) {
	catalog := make(valueset.Catalog, 0, len(inline))
	known := make(map[string]bool, len(inline))
	for _, vs := range inline {
		catalog = append(catalog, vs)
		known[vs.ID] = true
	}

	for _, id := range valueset.References(root) {
		if known[id] {
			continue
		}
		if !utils.IsFhirID(id) {
			uc.Log.Info("valueSetUsecase.FindCatalog skipping non local reference",
				zap.String(constvars.LoggingValueSetIDKey, id),
			)
			continue
		}

		vs, err := uc.findValueSet(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			uc.Log.Warn("valueSetUsecase.FindCatalog value set unavailable",
				zap.String(constvars.LoggingValueSetIDKey, id),
				zap.Error(err),
			)
			continue
		}

		known[id] = true
		catalog = append(catalog, *vs)
	}

	return catalog, nil
}

func (uc *valueSetUsecase) findValueSet(ctx context.Context, id string) (*valueset.ValueSet, error) {
	cacheKey := constvars.RedisKeyPrefixValueSet + id

	if uc.RedisRepository != nil {
		cached, err := uc.RedisRepository.Get(ctx, cacheKey)
		if err != nil {
			uc.Log.Warn("valueSetUsecase.findValueSet cache read failed",
				zap.String(constvars.LoggingCacheKey, cacheKey),
				zap.Error(err),
			)
		}
		if cached != "" {
			vs := new(valueset.ValueSet)
			err = json.Unmarshal([]byte(cached), vs)
			if err == nil {
				return vs, nil
			}
			uc.Log.Warn("valueSetUsecase.findValueSet dropping undecodable cache entry",
				zap.String(constvars.LoggingCacheKey, cacheKey),
				zap.Error(err),
			)
		}
	}

	vs, err := uc.ValueSetFhirClient.ExpandValueSet(ctx, id)
	if err != nil {
		return nil, err
	}
	vs.ID = id

	if uc.RedisRepository != nil {
		err = uc.RedisRepository.Set(ctx, cacheKey, vs, uc.CacheTTL)
		if err != nil {
			uc.Log.Warn("valueSetUsecase.findValueSet cache write failed",
				zap.String(constvars.LoggingCacheKey, cacheKey),
				zap.Error(err),
			)
		}
	}
	return vs, nil
}

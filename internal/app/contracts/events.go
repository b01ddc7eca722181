package contracts

import (
	"context"
	"fhirstarter-service/internal/pkg/dto/requests"
)

type FormEventPublisher interface {
	Publish(ctx context.Context, event *requests.FormEvent) error
}

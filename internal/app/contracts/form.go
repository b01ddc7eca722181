package contracts

import (
	"context"
	"fhirstarter-service/internal/pkg/dto/requests"
	"fhirstarter-service/internal/pkg/dto/responses"
)

type FormUsecase interface {
	StartSession(ctx context.Context, request *requests.StartForm) (*responses.FormSession, error)
	FindSession(ctx context.Context, sessionID string) (*responses.FormSession, error)
	ChangeValue(ctx context.Context, request *requests.ChangeValue) (*responses.ChangedValue, error)
	CommitRecord(ctx context.Context, request *requests.CommitRecord) (*responses.CommittedRecord, error)
	ResetRecord(ctx context.Context, request *requests.ResetRecord) (*responses.FormUnit, error)
	RemoveRecord(ctx context.Context, request *requests.RemoveRecord) (*responses.FormUnit, error)
	UploadAttachment(ctx context.Context, request *requests.UploadAttachment) (*responses.Attachment, error)
	SaveAnswers(ctx context.Context, sessionID string) (*responses.SavedAnswers, error)
	DiscardSession(ctx context.Context, sessionID string) error
	SweepExpiredSessions(ctx context.Context) int
}

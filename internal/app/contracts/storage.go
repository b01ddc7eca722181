package contracts

import (
	"context"
	"io"
)

type AttachmentStorage interface {
	UploadAttachment(ctx context.Context, objectName, contentType string, size int64, file io.Reader) (string, error)
}

package storage

import (
	"context"
	"fhirstarter-service/internal/app/contracts"
	"fhirstarter-service/internal/pkg/constvars"
	"fhirstarter-service/internal/pkg/exceptions"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

type minioStorage struct {
	MinioClient   *minio.Client
	BucketName    string
	PublicBaseUrl string
}

func NewMinioStorage(minioClient *minio.Client, bucketName, publicBaseUrl string) contracts.AttachmentStorage {
	return &minioStorage{
		MinioClient:   minioClient,
		BucketName:    bucketName,
		PublicBaseUrl: strings.TrimRight(publicBaseUrl, "/"),
	}
}

// UploadAttachment stores the file and returns the URL the answer document
// should reference.
func (m *minioStorage) UploadAttachment(ctx context.Context, objectName, contentType string, size int64, file io.Reader) (string, error) {
	if contentType == "" {
		contentType = constvars.MIMEOctetStream
	}

	_, err := m.MinioClient.PutObject(ctx, m.BucketName, objectName, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", exceptions.ErrMinioCreateObject(err, m.BucketName)
	}

	return m.objectURL(objectName), nil
}

func (m *minioStorage) objectURL(objectName string) string {
	if m.PublicBaseUrl == "" {
		return m.MinioClient.EndpointURL().String() + "/" + m.BucketName + "/" + objectName
	}
	return m.PublicBaseUrl + "/" + m.BucketName + "/" + objectName
}

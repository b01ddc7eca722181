package utils

import (
	"fhirstarter-service/internal/pkg/constvars"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

// GenerateAttachmentObjectName builds the storage object name of an uploaded
// answer attachment, keeping the original file extension.
func GenerateAttachmentObjectName(sessionID, controlID, fileName string) string {
	timestamp := time.Now().UTC().Format("20060102_150405.000000000")
	extension := strings.ToLower(path.Ext(fileName))
	controlSegment := strings.NewReplacer("[", "", "]", "", "/", "_").Replace(controlID)
	return fmt.Sprintf("forms/%s/%s_%s%s", sessionID, controlSegment, timestamp, extension)
}

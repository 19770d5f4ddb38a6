package server

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const dataURIPrefix = "data:image/"

// saveBase64Image decodes a "data:image/<ext>;base64,<payload>" string
// into a file under the media root and returns the stored path. The
// extension comes from the MIME prefix.
func saveBase64Image(mediaRoot string, data string) (string, error) {
	if !strings.HasPrefix(data, dataURIPrefix) {
		return "", newValidationError("image", "expected a base64-encoded data:image payload")
	}

	header, payload, found := strings.Cut(data, ";base64,")
	if !found {
		return "", newValidationError("image", "expected a base64-encoded data:image payload")
	}

	extension := strings.TrimPrefix(header, dataURIPrefix)

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", newValidationError("image", "invalid base64 image payload")
	}

	directory := filepath.Join(mediaRoot, "recipes", "images")
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(directory, fmt.Sprintf("%s.%s", uuid.NewString(), extension))
	if err := os.WriteFile(path, decoded, 0o644); err != nil {
		return "", err
	}

	return path, nil
}

package resume

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// DocconvExtractor extracts plain text from PDF, DOC(X), ODT, RTF and text uploads.
type DocconvExtractor struct{}

func (DocconvExtractor) ExtractText(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".txt" || ext == ".md" {
		return string(data), nil
	}

	mimeType := docconv.MimeTypeByExtension(filename)
	if mimeType == "application/octet-stream" {
		return "", fmt.Errorf("unsupported resume format %q", ext)
	}

	res, err := docconv.Convert(bytes.NewReader(data), mimeType, false)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", mimeType, err)
	}

	return res.Body, nil
}

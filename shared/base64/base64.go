package base64

import (
	stdBase64 "encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"
)

var ErrInvalidDataURL = errors.New("invalid base64 data url")

// GetContentType returns the media type of a data URL, or an empty string.
func GetContentType(file string) string {
	if !strings.HasPrefix(file, dataPrefix) {
		return ""
	}

	end := strings.Index(file, base64Marker)
	if end <= len(dataPrefix) {
		return ""
	}

	return file[len(dataPrefix):end]
}

// Decode splits a data URL into its payload, media type and a file extension for it.
func Decode(file string) (content []byte, contentType, extension string, err error) {
	contentType = GetContentType(file)
	if contentType == "" {
		return nil, "", "", ErrInvalidDataURL
	}

	payload := file[strings.Index(file, base64Marker)+len(base64Marker):]

	content, err = stdBase64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}

	mediaType, _, _ := strings.Cut(contentType, ";")
	if extensions, _ := mime.ExtensionsByType(mediaType); len(extensions) > 0 {
		extension = strings.TrimPrefix(extensions[0], ".")
	} else if _, sub, ok := strings.Cut(mediaType, "/"); ok {
		extension = sub
	}

	return content, contentType, extension, nil
}

package base64_test

import (
	"hotel/shared/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

func TestGetContentType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "room photo png", input: "data:image/png;base64," + pixel, expected: "image/png"},
		{name: "room photo webp", input: "data:image/webp;base64,UklGRg==", expected: "image/webp"},
		{name: "parameters kept", input: "data:image/svg+xml;charset=utf-8;base64,PHN2Zz4=", expected: "image/svg+xml;charset=utf-8"},
		{name: "empty", input: ""},
		{name: "raw base64", input: pixel},
		{name: "not base64 encoded", input: "data:image/png," + pixel},
		{name: "no media type", input: "data:;base64,"},
		{name: "prefix only", input: "data:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, base64.GetContentType(tt.input))
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		content     string
		contentType string
		extension   string
		wantErr     bool
	}{
		{
			name:        "plain text",
			input:       "data:text/plain;base64,SGVsbG8gV29ybGQ=",
			content:     "Hello World",
			contentType: "text/plain",
		},
		{
			name:        "json payload",
			input:       "data:application/json;base64,eyJyb29tIjoxMDF9",
			content:     `{"room":101}`,
			contentType: "application/json",
			extension:   "json",
		},
		{
			name:        "unknown subtype falls back to the subtype name",
			input:       "data:image/x-hotel;base64,SGk=",
			content:     "Hi",
			contentType: "image/x-hotel",
			extension:   "x-hotel",
		},
		{name: "missing prefix", input: "SGVsbG8gV29ybGQ=", wantErr: true},
		{name: "corrupted payload", input: "data:image/png;base64,@@@", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, contentType, extension, err := base64.Decode(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, base64.ErrInvalidDataURL)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.content, string(content))
			assert.Equal(t, tt.contentType, contentType)

			if tt.extension != "" {
				assert.Equal(t, tt.extension, extension)
			}
		})
	}
}

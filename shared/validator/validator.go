package validator

import (
	"encoding/json"
	"fmt"
	"hotel/shared/base64"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"io"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const megabyte = 1 << 20

var validate = newValidate()

var rules = map[string]val.Func{
	"notblank":    notBlank,
	"mimetypes":   mimeTypes,
	"maxfilesize": maxFileSize,
}

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonTagName)

	for tag, rule := range rules {
		if err := v.RegisterValidation(tag, rule); err != nil {
			panic(fmt.Sprintf("register %s rule: %v", tag, err))
		}
	}

	return v
}

// upload describes an uploaded file given either as a multipart part or a base64 data URL.
// Size is the raw length of the field, so a data URL counts its encoded bytes.
func upload(field val.FieldLevel) (contentType string, size int) {
	switch file := field.Field().Interface().(type) {
	case multipart.FileHeader:
		return file.Header.Get(constant.RequestHeaderContentType), int(file.Size)
	case *multipart.FileHeader:
		if file == nil {
			return "", 0
		}

		return file.Header.Get(constant.RequestHeaderContentType), int(file.Size)
	case string:
		return base64.GetContentType(file), len(file)
	}

	return "", 0
}

func mimeTypes(field val.FieldLevel) bool {
	contentType, _ := upload(field)

	return contentType != "" && slices.Contains(strings.Fields(field.Param()), contentType)
}

// maxFileSize takes its limit in megabytes, fractions allowed.
func maxFileSize(field val.FieldLevel) bool {
	limit, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	_, size := upload(field)

	return float64(size) <= limit*megabyte
}

// notBlank rejects strings made only of whitespace.
func notBlank(field val.FieldLevel) bool {
	if str, ok := field.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}

	return !field.Field().IsZero()
}

// jsonTagName reports fields by their json name so messages match the request body.
func jsonTagName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}

	return name
}

// Validate decodes a JSON body into data and checks its validate tags.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err))
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	return asFailure(validate.Struct(data))
}

func ValidateVar(field any, tag string) error {
	return asFailure(validate.Var(field, tag))
}

func asFailure(err error) error {
	if err == nil {
		return nil
	}

	return failure.BadRequestFromString(message(err))
}

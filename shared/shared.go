package shared

import (
	"context"
	"fmt"
	"hotel/shared/cache"
	"hotel/shared/constant"
	"hotel/shared/dto"
	"hotel/shared/timezone"
	"reflect"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

// ConvertStringToBool parses an optional boolean query value. Empty or
// unparsable input yields nil so the filter is skipped.
func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Err(err).Str("value", value).Msg("ignoring non boolean query value")

		return nil
	}

	return &parsed
}

func ConvertStringToInt(value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("failed to convert %q to int: %w", value, err)
	}

	return parsed, nil
}

// CalculateTotalPage is the number of pages of size limit needed for total
// rows. An empty listing still has one page.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// TransformFields collects the non-zero db tagged fields of an update request
// into a column map and stamps it with the modifier. Optional request fields
// should be pointers so an explicit zero value is kept.
func TransformFields(data any, username string) map[string]any {
	value := reflect.ValueOf(data)
	columns := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: username,
	}

	for _, field := range reflect.VisibleFields(value.Type()) {
		column := field.Tag.Get("db")
		if column == "" || column == "-" || !field.IsExported() {
			continue
		}

		if current := value.FieldByIndex(field.Index); !current.IsZero() {
			columns[column] = current.Interface()
		}
	}

	return columns
}

func FilterByID(id any, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

func FilterByIDs[T any](ids []T, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    ids,
				Operator: dto.FilterOperatorIn,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins the prefix and parts with ':'.
func BuildCacheKey(prefix string, parts ...any) string {
	keys := make([]string, 0, len(parts)+1)
	keys = append(keys, prefix)

	for _, part := range parts {
		keys = append(keys, fmt.Sprint(part))
	}

	return strings.Join(keys, cacheKeySeparator)
}

// BuildCacheKeyWithQuery keys a listing by a hash of its query params and filter.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	digest := xxhash.Sum64String(fmt.Sprintf("%+v|%+v", params, filter))

	return BuildCacheKey(prefix, strconv.FormatUint(digest, 16))
}

// InvalidateCaches removes every key under prefix. Errors are logged only.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	pattern := prefix + cacheKeySeparator + constant.Asterix

	if err := redisCache.Clear(ctx, pattern); err != nil {
		log.Error().Err(err).Str("pattern", pattern).Msg("failed to invalidate caches")
	}
}

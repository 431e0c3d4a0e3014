// Package timezone pins every timestamp the service produces to the zone named by
// APP_TIMEZONE (an IANA name such as "UTC" or "Asia/Jakarta"). The zone is
// resolved once when the package is imported and falls back to UTC.
//
// Calendar dates (booking start and end dates) are parsed and formatted with
// ParseDate and FormatDate, which never shift the day across zones.
package timezone

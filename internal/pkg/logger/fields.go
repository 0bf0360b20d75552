package logger

import (
	"time"

	"go.uber.org/zap"
)

// Helper functions for consistent log field names.

// RequestID returns a request ID field.
func RequestID(id string) zap.Field {
	return zap.String("request_id", id)
}

// Collection returns a collection name field.
func Collection(name string) zap.Field {
	return zap.String("collection", name)
}

// CountryCode returns a country code field.
func CountryCode(code string) zap.Field {
	return zap.String("country_code", code)
}

// SportID returns a sport ID field.
func SportID(id int64) zap.Field {
	return zap.Int64("sport_id", id)
}

// SubSportID returns a sub-sport type ID field.
func SubSportID(id int64) zap.Field {
	return zap.Int64("type_id", id)
}

// Operation returns an operation name field.
func Operation(op string) zap.Field {
	return zap.String("operation", op)
}

// Duration returns a duration field.
func Duration(d time.Duration) zap.Field {
	return zap.Duration("duration", d)
}

// DurationMs returns the duration in milliseconds.
func DurationMs(d time.Duration) zap.Field {
	return zap.Float64("duration_ms", float64(d.Milliseconds()))
}

// HTTPMethod returns an HTTP method field.
func HTTPMethod(method string) zap.Field {
	return zap.String("http_method", method)
}

// HTTPPath returns an HTTP path field.
func HTTPPath(path string) zap.Field {
	return zap.String("http_path", path)
}

// HTTPStatus returns an HTTP status code field.
func HTTPStatus(status int) zap.Field {
	return zap.Int("http_status", status)
}

// RemoteAddr returns a remote address field.
func RemoteAddr(addr string) zap.Field {
	return zap.String("remote_addr", addr)
}

// ErrorCode returns an error code field.
func ErrorCode(code string) zap.Field {
	return zap.String("error_code", code)
}

// Count returns a generic count field.
func Count(n int) zap.Field {
	return zap.Int("count", n)
}

// Field returns a generic field with any value.
func Field(key string, value interface{}) zap.Field {
	return zap.Any(key, value)
}

// Package ports defines the interfaces the query engine consumes.
package ports

// Logger defines the interface for structured logging.
// Args are alternating key-value pairs, slog style.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(err error, args ...any)
	// SetLevel adjusts the minimum emitted level. Accepts the settings
	// level strings debug, info, warn, error.
	SetLevel(level string)
}

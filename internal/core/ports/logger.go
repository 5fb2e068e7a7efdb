package ports

// Logger defines the interface for structured logging. Fields are
// alternating key-value pairs, slog style.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(err error, fields ...any)
}

package errors

import (
	"go.uber.org/zap"
)

// LogHandler is an ErrorHandler that writes errors through a zap logger.
// A nil Logger falls back to zap's global logger.
type LogHandler struct {
	// Logger receives the entries. Defaults to zap.L().
	Logger *zap.Logger
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

func (h *LogHandler) logger() *zap.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return zap.L()
}

// HandleError logs a LayerError.
func (h *LogHandler) HandleError(err *LayerError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Layer != "" {
		fields = append(fields, zap.String("layer", err.Layer))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("layer error", fields...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.Stringer("kind", KindPanic),
		zap.Any("value", err.Value),
	}
	if err.Op != "" {
		fields = append(fields, zap.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("layer panic", fields...)
}

// HandleBuildError logs a BuildError.
func (h *LogHandler) HandleBuildError(err *BuildError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.Stringer("kind", KindBuild),
		zap.String("widget", err.Widget),
		zap.String("element", err.Element),
		zap.String("error", err.Error()),
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("build error", fields...)
}

package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/go-drift/layerkit/cmd/layerdemo/internal/config"
	"github.com/go-drift/layerkit/pkg/errors"
	"github.com/go-drift/layerkit/pkg/layer"
)

func newLogger(r *config.Resolved) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if r.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(r.LogLevel)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// countingHandler logs reports like errors.LogHandler and counts them.
type countingHandler struct {
	*errors.LogHandler
	errs   int
	panics int
	builds int
}

func (h *countingHandler) HandleError(err *errors.LayerError) {
	h.errs++
	h.LogHandler.HandleError(err)
}

func (h *countingHandler) HandlePanic(err *errors.PanicError) {
	h.panics++
	h.LogHandler.HandlePanic(err)
}

func (h *countingHandler) HandleBuildError(err *errors.BuildError) {
	h.builds++
	h.LogHandler.HandleBuildError(err)
}

func (h *countingHandler) total() int {
	return h.errs + h.panics + h.builds
}

// install routes layer logging and error reports through logger until the
// returned function is called.
func install(logger *zap.Logger, verbose bool) (*countingHandler, func()) {
	handler := &countingHandler{LogHandler: &errors.LogHandler{Logger: logger, Verbose: verbose}}
	previous := errors.SetHandler(handler)
	layer.SetLogger(logger)
	return handler, func() {
		errors.SetHandler(previous)
		layer.SetLogger(nil)
	}
}

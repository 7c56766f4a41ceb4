package helper

import (
	"fmt"
	"net/http"
	"sync"
)

// ServerErrorReporter keeps this package decoupled from the error handler
// that implements it.
type ServerErrorReporter interface {
	ReportServerError(r *http.Request, err error)
}

type HelperInterface interface {
	NewEmailData() map[string]any
	BackgroundTask(r *http.Request, fn func() error)
}

type HelperRepository struct {
	baseUrl  *string
	WG       *sync.WaitGroup
	reporter ServerErrorReporter
}

func New(baseUrl *string, wg *sync.WaitGroup, reporter ServerErrorReporter) *HelperRepository {
	return &HelperRepository{
		baseUrl:  baseUrl,
		WG:       wg,
		reporter: reporter,
	}
}

func (h *HelperRepository) NewEmailData() map[string]any {
	data := map[string]any{
		"BaseURL": h.baseUrl,
	}

	return data
}

// BackgroundTask runs fn on its own goroutine, tracked by the application
// wait group so graceful shutdown can wait for in-flight sends and logs.
func (h *HelperRepository) BackgroundTask(r *http.Request, fn func() error) {
	h.WG.Add(1)

	go func() {
		defer h.WG.Done()

		defer func() {
			err := recover()
			if err != nil {
				h.reporter.ReportServerError(nil, fmt.Errorf("%s", err))
			}
		}()

		err := fn()
		if err != nil {
			h.reporter.ReportServerError(r, err)
		}
	}()
}

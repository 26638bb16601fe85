package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/cron"
)

// Ticker runs one scheduler pass.
type Ticker interface {
	Tick(ctx context.Context) (cron.TickResult, error)
}

type SchedulerHandler interface {
	Tick(w http.ResponseWriter, r *http.Request)
}

type schedulerHandlerImpl struct {
	ticker Ticker
}

func NewSchedulerHandler(ticker Ticker) SchedulerHandler {
	return &schedulerHandlerImpl{ticker: ticker}
}

// Tick implements SchedulerHandler.
func (h *schedulerHandlerImpl) Tick(w http.ResponseWriter, r *http.Request) {
	result, err := h.ticker.Tick(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

package api

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"covidtracker/internal/state"
)

// GetEvents streams the state as server-sent events: one snapshot on
// connect, then one after every applied change. The dashboard page reloads
// on any event after the first.
func (h *Handler) GetEvents(c echo.Context) error {
	updates, cancel := h.dash.Store().Subscribe()
	defer cancel()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	for {
		if err := writeEvent(w, h.dash.Store().Snapshot()); err != nil {
			h.log.Debug("event stream closed")
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-updates:
			if !ok {
				return nil
			}
		}
	}
}

func writeEvent(w *echo.Response, s state.State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
		return err
	}
	w.Flush()
	return nil
}

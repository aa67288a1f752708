package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/calendar"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/logging"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/service"
)

type calendarQuery struct {
	mode     string
	offset   int
	selected calendar.Date
}

func parseCalendarQuery(r *http.Request) (calendarQuery, error) {
	q := r.URL.Query()
	cq := calendarQuery{mode: q.Get("mode")}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return cq, fmt.Errorf("offset must be an integer, got %q", s)
		}
		cq.offset = n
	}
	if s := q.Get("selected"); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			return cq, fmt.Errorf("selected must be YYYY-MM-DD, got %q", s)
		}
		cq.selected = d
	}
	return cq, nil
}

func CalendarHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cq, err := parseCalendarQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		view, err := svc.Calendar(r.Context(), cq.mode, cq.offset, cq.selected)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, view)
	}
}

func TrendHandler(hist *service.HistoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		date, err := calendar.ParseDate(q.Get("date"))
		if err != nil {
			http.Error(w, "date is required as YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		tv, err := hist.Series(r.Context(), q.Get("mode"), date)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, tv)
	}
}

func SpikesHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.Spikes(r.Context(), r.URL.Query().Get("mode"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, report)
	}
}

func ReloadHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := svc.Reload(r.URL.Query().Get("mode")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}
}

// CalendarSSEHandler pushes the calendar view once on connect and then every
// interval until the client goes away.
func CalendarSSEHandler(svc *service.DashboardService, interval time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cq, err := parseCalendarQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		log := logging.Log.WithFields(logrus.Fields{"stream": "sse", "mode": cq.mode})
		updateTick := time.NewTicker(interval)
		defer updateTick.Stop()

		ctx := r.Context()
		for {
			view, err := svc.Calendar(ctx, cq.mode, cq.offset, cq.selected)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				fmt.Fprintf(w, "event: error\ndata: %q\n\n", err.Error())
				flusher.Flush()
				if errors.Is(err, service.ErrUnknownMode) {
					return
				}
			} else if payload, err := json.Marshal(view); err != nil {
				log.Errorf("encode calendar: %v", err)
				fmt.Fprintf(w, "event: error\ndata: %q\n\n", "calendar could not be encoded")
				flusher.Flush()
			} else {
				fmt.Fprintf(w, "event: calendar\ndata: %s\n\n", payload)
				flusher.Flush()
			}

			select {
			case <-ctx.Done():
				log.Debug("SSE client closed")
				return
			case <-updateTick.C:
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// trendCommand is a client message on the trend websocket. Action is one of
// prev, next, select (with Date) or close.
type trendCommand struct {
	Action string `json:"action"`
	Date   string `json:"date,omitempty"`
}

type wsError struct {
	Error string `json:"error"`
}

// TrendWSHandler keeps a selected date per connection. Every command moves
// the selection and answers with the series of the new date.
func TrendWSHandler(hist *service.HistoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		mode := q.Get("mode")
		date, err := calendar.ParseDate(q.Get("date"))
		if err != nil {
			http.Error(w, "date is required as YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Log.Warnf("upgrade error: %v", err)
			return
		}
		defer conn.Close()

		log := logging.Log.WithFields(logrus.Fields{"stream": "ws", "mode": mode})
		ctx := r.Context()
		date, ok := sendTrend(ctx, conn, hist, mode, date, 0, log)
		if !ok {
			return
		}
		for {
			var cmd trendCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debugf("read error: %v", err)
				}
				return
			}
			delta := 0
			switch strings.ToLower(cmd.Action) {
			case "prev":
				delta = -1
			case "next":
				delta = 1
			case "select":
				d, err := calendar.ParseDate(cmd.Date)
				if err != nil {
					if err := conn.WriteJSON(wsError{Error: "select needs a YYYY-MM-DD date"}); err != nil {
						return
					}
					continue
				}
				date, delta = d, 0
			case "close":
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			default:
				if err := conn.WriteJSON(wsError{Error: fmt.Sprintf("unknown action %q", cmd.Action)}); err != nil {
					return
				}
				continue
			}
			if date, ok = sendTrend(ctx, conn, hist, mode, date, delta, log); !ok {
				return
			}
		}
	}
}

// sendTrend writes the series delta days from date and returns the date now
// selected. A failed load keeps the old selection.
func sendTrend(ctx context.Context, conn *websocket.Conn, hist *service.HistoryService, mode string, date calendar.Date, delta int, log logrus.FieldLogger) (calendar.Date, bool) {
	tv, err := hist.Step(ctx, mode, date, delta)
	if err != nil {
		_ = conn.WriteJSON(wsError{Error: err.Error()})
		return date, !errors.Is(err, service.ErrUnknownMode) && ctx.Err() == nil
	}
	if err := conn.WriteJSON(tv); err != nil {
		log.Debugf("write error: %v", err)
		return date, false
	}
	return tv.Date, true
}

// writeJSON encodes before writing so an unencodable value turns into a 500
// instead of an empty 200.
func writeJSON(w http.ResponseWriter, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logging.Log.Errorf("encode response: %v", err)
		http.Error(w, "response could not be encoded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, service.ErrUnknownMode):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = http.StatusGatewayTimeout
	}
	http.Error(w, err.Error(), status)
}

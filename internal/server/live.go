package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/goliatone/go-logbook/pkg/flight"
	"github.com/goliatone/go-logbook/pkg/form"
	"github.com/goliatone/go-logbook/pkg/formstate"
)

const (
	maxLiveMessage = 16 << 10
	writeWait      = 10 * time.Second
	liveReplyType  = "state"
)

// liveReply is sent after the snapshot on connect and after every message.
type liveReply struct {
	Type  string          `json:"type"`
	HTML  string          `json:"html,omitempty"`
	State formstate.State `json:"state"`
	Saved *flight.Record  `json:"saved,omitempty"`
	Error string          `json:"error,omitempty"`
}

// handleLive streams actions for one form. Each text message is a
// formstate.Message; FORM_SUBMIT runs the full submission. The socket closing
// does not unmount the form: a reload reattaches to it, and the TTL collects
// it once abandoned.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, ok := s.sessions.Get(id)
	if !ok {
		s.respondError(w, r, id, fmt.Errorf("%w: %q", errUnknownForm, id))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("live upgrade failed", zap.String("form", id), zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxLiveMessage)

	logger := s.logger.With(zap.String("form", id))
	logger.Debug("live connected")

	ctx := r.Context()
	if err := s.sendState(ctx, conn, f, nil, nil); err != nil {
		logger.Debug("live write failed", zap.Error(err))
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger.Warn("live read failed", zap.Error(err))
			}
			logger.Debug("live disconnected")
			return
		}

		var msg formstate.Message
		var saved *flight.Record
		if err = json.Unmarshal(data, &msg); err != nil {
			err = fmt.Errorf("%w: %v", errBadRequest, err)
		} else {
			saved, err = s.applyLive(ctx, f, msg)
		}

		if werr := s.sendState(ctx, conn, f, saved, err); werr != nil {
			logger.Debug("live write failed", zap.Error(werr))
			return
		}
		if errors.Is(err, form.ErrClosed) {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "form closed"),
				time.Now().Add(writeWait))
			return
		}
	}
}

// applyLive runs one client message. Submit outcomes are server-driven, so
// SUBMIT_SUCCESS and SUBMIT_ERROR are refused.
func (s *Server) applyLive(ctx context.Context, f *form.Form, msg formstate.Message) (*flight.Record, error) {
	switch formstate.Type(strings.ToUpper(strings.TrimSpace(string(msg.Type)))) {
	case formstate.TypeSubmitStart:
		saved, err := f.Submit(ctx)
		if err != nil {
			return nil, err
		}
		return &saved, nil
	case formstate.TypeSubmitSuccess, formstate.TypeSubmitError:
		return nil, fmt.Errorf("%w: %s", errClientOnly, msg.Type)
	}

	action, err := f.Engine().Decode(msg)
	if err != nil {
		return nil, err
	}
	_, err = f.Dispatch(action)
	return nil, err
}

func (s *Server) sendState(ctx context.Context, conn *websocket.Conn, f *form.Form, saved *flight.Record, cause error) error {
	state := f.State()
	reply := liveReply{Type: liveReplyType, State: state, Saved: saved}
	if cause != nil {
		reply.Error = cause.Error()
	}

	html, err := s.renderForm(ctx, f.ID(), f.Engine(), state)
	if err != nil {
		s.logger.Error("live render failed", zap.String("form", f.ID()), zap.Error(err))
		if reply.Error == "" {
			reply.Error = err.Error()
		}
	}
	reply.HTML = html

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(reply)
}

package chi

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/tutor"
	tutorjson "github.com/fwojciec/tutor/json"
)

//go:embed index.html
var indexHTML []byte

type askRequest struct {
	Text string `json:"text"`
}

type infoResponse struct {
	Title    string `json:"title"`
	Greeting string `json:"greeting"`
	Mode     string `json:"mode"`
	Images   bool   `json:"images"`
}

type historyResponse struct {
	Turns   []tutorjson.Turn   `json:"turns"`
	Display []tutorjson.Output `json:"display"`
}

type actionResponse struct {
	History []tutorjson.Turn   `json:"history"`
	Outputs []tutorjson.Output `json:"outputs"`
	Error   string             `json:"error,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		Title:    tutor.Title,
		Greeting: tutor.Greeting,
		Mode:     string(s.pipeline.Mode()),
		Images:   s.pipeline.Mode().AcceptsImages(),
	})
}

// handleNewSession discards the visitor's session, if any, and starts a
// new one.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(cookieName); err == nil {
		s.sessions.remove(c.Value)
	}
	e := s.sessions.add()
	s.setCookie(w, e.session.ID)
	writeJSON(w, http.StatusCreated, historyResponse{
		Turns:   tutorjson.FromTurns(nil),
		Display: tutorjson.FromOutputs(nil),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	e.mu.Lock()
	turns := e.session.Transcript.Turns()
	e.mu.Unlock()

	display := make([]tutor.Output, len(turns))
	for i, t := range turns {
		display[i] = tutor.PresentTurn(t)
	}
	writeJSON(w, http.StatusOK, historyResponse{
		Turns:   tutorjson.FromTurns(turns),
		Display: tutorjson.FromOutputs(display),
	})
}

// handleTranscript downloads the visitor's transcript.
func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	e.mu.Lock()
	data, err := tutorjson.MarshalSession(e.session)
	e.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="transcript.json"`)
	_, _ = w.Write(data)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	s.step(w, r, &requestHost{text: req.Text})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	if !s.pipeline.Mode().AcceptsImages() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("mode %q does not accept images", s.pipeline.Mode()))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+1<<20)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("image exceeds %d bytes", s.maxUpload))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid upload: "+err.Error())
		return
	}
	f, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image field is required")
		return
	}
	defer f.Close()
	// One byte past the limit tells a full-size image from an oversize one.
	data, err := io.ReadAll(io.LimitReader(f, s.maxUpload+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read image: "+err.Error())
		return
	}
	if int64(len(data)) > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("image exceeds %d bytes", s.maxUpload))
		return
	}
	img, err := tutor.NewImage(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.step(w, r, &requestHost{text: strings.TrimSpace(r.FormValue("text")), image: &img})
}

// step runs one pipeline step for the visitor and writes what it rendered.
func (s *Server) step(w http.ResponseWriter, r *http.Request, h *requestHost) {
	e := s.entry(w, r)
	if !e.allow() {
		s.logger.Warn("rate limited", "session", e.session.ID)
		writeError(w, http.StatusTooManyRequests, "too many requests, please wait a moment")
		return
	}
	ctx := r.Context()
	if d := s.actionTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	e.mu.Lock()
	err := s.pipeline.Step(ctx, e.session, h)
	turns := e.session.Transcript.Turns()
	e.mu.Unlock()

	resp := actionResponse{
		History: tutorjson.FromTurns(turns),
		Outputs: tutorjson.FromOutputs(h.outputs),
	}
	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, tutor.ErrSessionClosed), errors.Is(err, tutor.ErrAuthentication):
		status = http.StatusForbidden
	case errors.Is(err, tutor.ErrValidation):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	if err != nil {
		resp.Error = err.Error()
		s.logger.Warn("step failed", "session", e.session.ID, "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}

// entry returns the visitor's session, creating one and setting the
// cookie when the request has none or it has expired.
func (s *Server) entry(w http.ResponseWriter, r *http.Request) *entry {
	if c, err := r.Cookie(cookieName); err == nil {
		if e, ok := s.sessions.get(c.Value); ok {
			return e
		}
	}
	e := s.sessions.add()
	s.setCookie(w, e.session.ID)
	return e
}

func (s *Server) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	})
}

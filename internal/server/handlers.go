package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/igx/internal/formatter"
	"github.com/desertthunder/igx/internal/models"
	"github.com/desertthunder/igx/internal/shared"
	"github.com/desertthunder/igx/internal/tasks"
)

const (
	maxTextBody   = 1 << 20
	maxUploadBody = 10 << 20
)

// Handlers implements the HTTP controls for a session.
type Handlers struct {
	session *tasks.Session
	logger  *log.Logger

	mu     sync.RWMutex
	runCtx context.Context
}

// NewHandlers creates handlers for session. Runs use [context.Background] until the server binds its own context.
func NewHandlers(session *tasks.Session, logger *log.Logger) *Handlers {
	return &Handlers{session: session, logger: logger, runCtx: context.Background()}
}

func (h *Handlers) bind(ctx context.Context) {
	h.mu.Lock()
	h.runCtx = ctx
	h.mu.Unlock()
}

func (h *Handlers) baseContext() context.Context {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.runCtx
}

type statsView struct {
	models.ProcessingStats
	Pending  int     `json:"pending"`
	Progress float64 `json:"progress"`
}

func newStatsView(s models.ProcessingStats) statsView {
	return statsView{ProcessingStats: s, Pending: s.Pending(), Progress: s.Progress()}
}

type runView struct {
	ID       string          `json:"id"`
	Eligible int             `json:"eligible"`
	Result   tasks.RunResult `json:"result"`
}

func newRunView(run *tasks.Run) *runView {
	if run == nil {
		return nil
	}
	res := run.Result()
	return &runView{ID: run.ID, Eligible: res.Eligible, Result: res}
}

type addRequest struct {
	Text      string   `json:"text"`
	Usernames []string `json:"usernames"`
}

// Health reports liveness and the run state.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"state":  h.session.State().String(),
	})
}

// ListRecords returns every record with aggregate stats.
func (h *Handlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	records := h.session.Records()
	respondJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"stats":   newStatsView(tasks.Aggregate(records)),
		"state":   h.session.State().String(),
	})
}

// AddRecords queues usernames from a JSON or plain-text body.
func (h *Handlers) AddRecords(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxTextBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var added []models.UsernameRecord
	if isJSON(r) {
		var req addRequest
		if err := json.Unmarshal(body, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		added = append(h.session.AddText(req.Text), h.session.Add(req.Usernames)...)
	} else {
		added = h.session.AddText(string(body))
	}

	h.respondAdded(w, added)
}

// UploadRecords queues usernames from an uploaded spreadsheet.
func (h *Handlers) UploadRecords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	added, err := h.session.AddReader(header.Filename, file)
	if err != nil {
		if errors.Is(err, shared.ErrUnsupportedFormat) {
			respondError(w, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		h.logger.Warn("upload failed", "file", header.Filename, "err", err)
		respondError(w, http.StatusBadRequest, "could not read spreadsheet")
		return
	}

	h.respondAdded(w, added)
}

func (h *Handlers) respondAdded(w http.ResponseWriter, added []models.UsernameRecord) {
	status := http.StatusOK
	if len(added) > 0 {
		status = http.StatusCreated
	}
	if added == nil {
		added = []models.UsernameRecord{}
	}
	respondJSON(w, status, map[string]any{
		"added": added,
		"stats": newStatsView(h.session.Stats()),
	})
}

// ClearRecords stops any run and empties the queue.
func (h *Handlers) ClearRecords(w http.ResponseWriter, r *http.Request) {
	h.session.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// RunStatus reports the active run, if any.
func (h *Handlers) RunStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"state": h.session.State().String(),
		"run":   newRunView(h.session.Current()),
		"stats": newStatsView(h.session.Stats()),
	})
}

// StartRun starts a run over the eligible records. Responds 202 when a run starts and 200 when one is already active.
func (h *Handlers) StartRun(w http.ResponseWriter, r *http.Request) {
	run, started := h.session.Start(h.baseContext())

	status := http.StatusOK
	if started {
		status = http.StatusAccepted
	}
	respondJSON(w, status, map[string]any{
		"started": started,
		"run":     newRunView(run),
	})
}

// StopRun stops the active run.
func (h *Handlers) StopRun(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"stopped": h.session.Stop()})
}

// Stats returns aggregate counts.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, newStatsView(h.session.Stats()))
}

// Export streams the results in the requested format.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	format, err := formatter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := h.session.Export(&buf, format); err != nil {
		if errors.Is(err, shared.ErrNothingToExport) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("export failed", "format", format, "err", err)
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	name := strings.TrimSuffix(formatter.DefaultExportPath, ".xlsx") + "." + string(format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// internal/handlers/import.go
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammarques/stockroom-be/internal/handlers/middleware"
	"github.com/ammarques/stockroom-be/internal/workers"
)

// ImportHandler accepts spreadsheet uploads and hands them to the worker
type ImportHandler struct {
	client      *asynq.Client
	inspector   *asynq.Inspector
	logger      *slog.Logger
	maxFileSize int64
	tempDir     string
}

// NewImportHandler creates a new import handler
func NewImportHandler(client *asynq.Client, inspector *asynq.Inspector, logger *slog.Logger, maxFileSize int64, tempDir string) *ImportHandler {
	return &ImportHandler{
		client:      client,
		inspector:   inspector,
		logger:      logger.With(slog.String("handler", "import")),
		maxFileSize: maxFileSize,
		tempDir:     tempDir,
	}
}

// ImportExcel handles POST /api/v1/import/excel
func (h *ImportHandler) ImportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess := middleware.SessionFromContext(ctx)
	if err := sess.Validate(); err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "missing actor identity")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "file too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" {
		respondError(w, h.logger, http.StatusBadRequest, "only .xlsx files are supported")
		return
	}

	jobID := uuid.New().String()
	tempPath := filepath.Join(h.tempDir, fmt.Sprintf("import_%s%s", jobID, ext))

	dst, err := os.Create(tempPath)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create temp file",
			slog.String("path", tempPath),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "failed to store upload")
		return
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(tempPath)
		respondError(w, h.logger, http.StatusInternalServerError, "failed to store upload")
		return
	}
	dst.Close()

	payload, err := json.Marshal(map[string]string{
		"job_id":    jobID,
		"file_path": tempPath,
		"actor_id":  sess.ActorID,
	})
	if err != nil {
		os.Remove(tempPath)
		respondError(w, h.logger, http.StatusInternalServerError, "failed to enqueue import")
		return
	}

	task := asynq.NewTask(workers.TypeExcelImport, payload, asynq.TaskID(jobID), asynq.MaxRetry(3))
	if _, err := h.client.EnqueueContext(ctx, task); err != nil {
		os.Remove(tempPath)
		h.logger.ErrorContext(ctx, "failed to enqueue import task",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "failed to enqueue import")
		return
	}

	h.logger.InfoContext(ctx, "Excel import enqueued",
		slog.String("job_id", jobID),
		slog.String("filename", header.Filename),
		slog.String("actor", sess.ActorID))

	respondJSON(w, h.logger, http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"status": "queued",
	})
}

// ImportStatus handles GET /api/v1/import/status/{jobId}
func (h *ImportHandler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobId")
	if jobID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "job id is required")
		return
	}

	for _, queue := range []string{"critical", "default", "low"} {
		info, err := h.inspector.GetTaskInfo(queue, jobID)
		if err != nil {
			continue
		}
		respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
			"job_id":  jobID,
			"queue":   info.Queue,
			"state":   info.State.String(),
			"retried": info.Retried,
		})
		return
	}

	// Asynq drops completed task metadata, so an unknown id most likely
	// means the import already finished.
	respondJSON(w, h.logger, http.StatusOK, map[string]string{
		"job_id": jobID,
		"state":  "completed_or_unknown",
	})
}

package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"orgmanager-backend/archive"
	"orgmanager-backend/config"
	"orgmanager-backend/dtos"
	"orgmanager-backend/importer"
	"orgmanager-backend/middleware"
	"orgmanager-backend/models"
	"orgmanager-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const archiveTimeout = 30 * time.Second

type ImportHandler struct {
	DB       *gorm.DB
	Importer *importer.Importer
	Jobs     *utils.JobStore
	Archiver archive.Archiver
	Config   config.ImportConfig
}

// requestError is a problem with the request itself, answered with 400.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

// Import runs an import synchronously and returns its ImportResult.
func (h *ImportHandler) Import(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	opts, cleanup, err := h.buildOptions(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer cleanup()

	result, err := h.Importer.Import(c.Request.Context(), opts, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// History returns every recorded import, oldest first.
func (h *ImportHandler) History(c *gin.Context) {
	entries, err := h.Importer.History(c.Request.Context())
	if err != nil {
		log.Printf("[import] failed to load history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load import history"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// StartJob validates the request, then runs the import in the background.
func (h *ImportHandler) StartJob(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	opts, cleanup, err := h.buildOptions(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if _, _, err := h.Importer.Resolve(opts); err != nil {
		cleanup()
		h.respondError(c, err)
		return
	}

	job := h.Jobs.CreateJob(string(opts.Type), userID)
	opts.Progress = func(processed, total int) {
		h.Jobs.SetProgress(job.ID, processed, total)
	}

	go h.runJob(job.ID, opts, userID, cleanup)

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": job.ID.String(),
		"status": dtos.JobStatusProcessing,
	})
}

// GetJob returns the status of a background import.
func (h *ImportHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	job, exists := h.Jobs.GetJob(jobID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *ImportHandler) runJob(jobID uuid.UUID, opts importer.Options, userID uint, cleanup func()) {
	defer cleanup()
	h.Jobs.SetProcessing(jobID)

	result, err := h.Importer.Import(context.Background(), opts, userID)
	h.Jobs.CompleteJob(jobID, result, err)
	if err != nil {
		log.Printf("[jobs] import job %s failed: %v", jobID, err)
	} else {
		log.Printf("[jobs] import job %s completed: %d/%d rows imported", jobID, result.SuccessCount, result.TotalRecords)
	}

	job, ok := h.Jobs.GetJob(jobID)
	if !ok || h.DB == nil {
		return
	}
	var user models.User
	if err := h.DB.Select("email", "name").Where("id = ?", userID).Take(&user).Error; err != nil {
		log.Printf("[jobs] no summary email for job %s: %v", jobID, err)
		return
	}
	utils.SendImportSummaryEmail(user.Email, user.Name, job)
}

// buildOptions reads either a multipart upload or a JSON body. The returned
// cleanup archives and removes any saved upload and must always be called
// when err is nil.
func (h *ImportHandler) buildOptions(c *gin.Context) (importer.Options, func(), error) {
	noop := func() {}
	var req dtos.ImportRequest

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&req); err != nil {
			return importer.Options{}, noop, &requestError{utils.SanitizeValidationError(err)}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		return importer.Options{}, noop, &requestError{utils.SanitizeValidationError(err)}
	}

	entity, err := importer.ParseEntityType(req.Type)
	if err != nil {
		return importer.Options{}, noop, err
	}

	opts := importer.Options{
		Type:         entity,
		APIEndpoint:  req.APIEndpoint,
		JSONData:     req.JSONData,
		ValidateOnly: req.ValidateOnly,
	}
	if req.APIAuth != nil {
		opts.APIAuth = &importer.BasicAuth{Username: req.APIAuth.Username, Password: req.APIAuth.Password}
	}

	fh, err := c.FormFile("file")
	if err != nil {
		// No upload: the importer picks the API or inline JSON source.
		return opts, noop, nil
	}
	if err := utils.ValidateImportUpload(fh, h.Config.MaxUploadSize); err != nil {
		return importer.Options{}, noop, &requestError{err.Error()}
	}

	if err := os.MkdirAll(h.Config.UploadDir, 0o750); err != nil {
		return importer.Options{}, noop, err
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	path := filepath.Join(h.Config.UploadDir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fh, path); err != nil {
		return importer.Options{}, noop, err
	}
	opts.FilePath = path

	originalName := fh.Filename
	cleanup := func() {
		h.archiveUpload(path, originalName)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("[import] failed to remove upload %s: %v", path, err)
		}
	}
	return opts, cleanup, nil
}

func (h *ImportHandler) archiveUpload(path, name string) {
	if h.Archiver == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	location, err := h.Archiver.Archive(ctx, path, name)
	if err != nil {
		log.Printf("[archive] failed to archive %s: %v", name, err)
		return
	}
	if location != "" {
		log.Printf("[archive] archived %s to %s", name, location)
	}
}

func (h *ImportHandler) respondError(c *gin.Context, err error) {
	var reqErr *requestError
	var cfgErr *importer.ConfigError
	switch {
	case errors.As(err, &reqErr), errors.As(err, &cfgErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[import] request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

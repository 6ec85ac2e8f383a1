package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/contracts"
	"github.com/joseph-ayodele/contracts-tracker/internal/pipeline"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type handlers struct {
	contracts      *contracts.Service
	exporter       Exporter
	logger         *slog.Logger
	maxUploadBytes int64
}

type saveRequest struct {
	ExtractedData pipeline.ExtendedExtractionResult `json:"extractedData"`
	UserID        string                            `json:"userId"`
	FilePath      string                            `json:"filePath"`
}

func (h *handlers) upload(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		// multipart overhead on top of the file itself
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithError(c, common.NewInvalidInputError("File too large"))
			return
		}
		abortWithError(c, common.NewInvalidInputError("No file uploaded"))
		return
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		abortWithError(c, common.NewInvalidInputError(fmt.Sprintf("File too large (max %d bytes)", h.maxUploadBytes)))
		return
	}
	f, err := fh.Open()
	if err != nil {
		abortWithError(c, common.NewInvalidInputError("Uploaded file could not be read"))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		abortWithError(c, common.NewInvalidInputError("Uploaded file could not be read"))
		return
	}

	res, err := h.contracts.Upload(c.Request.Context(), contracts.UploadInput{
		Data:     data,
		FileName: fh.Filename,
		UserID:   c.Query("userId"),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}

func (h *handlers) save(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	if err := validateBody(saveSchema, body); err != nil {
		abortWithError(c, err)
		return
	}
	var req saveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		abortWithError(c, common.NewInvalidInputError("invalid request body"))
		return
	}
	contract, err := h.contracts.Save(c.Request.Context(), contracts.SaveInput{
		ExtractedData: req.ExtractedData,
		UserID:        req.UserID,
		FilePath:      req.FilePath,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"contract": contracts.ToDTO(contract)}})
}

func (h *handlers) get(c *gin.Context) {
	contract, err := h.contracts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts.ToDTO(contract))
}

func (h *handlers) listByUser(c *gin.Context) {
	list, err := h.contracts.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts.ToDTOs(list))
}

func (h *handlers) update(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	if err := validateBody(updateSchema, body); err != nil {
		abortWithError(c, err)
		return
	}
	var in contracts.UpdateInput
	if err := json.Unmarshal(body, &in); err != nil {
		abortWithError(c, common.NewInvalidInputError("invalid request body"))
		return
	}
	contract, err := h.contracts.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts.ToDTO(contract))
}

func (h *handlers) scheduleReminder(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	if err := validateBody(reminderSchema, body); err != nil {
		abortWithError(c, err)
		return
	}
	var in contracts.ReminderInput
	if err := json.Unmarshal(body, &in); err != nil {
		abortWithError(c, common.NewInvalidInputError("invalid request body"))
		return
	}
	res, err := h.contracts.ScheduleReminder(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := gin.H{"success": true, "status": res.Status}
	if !res.FireAt.IsZero() {
		out["reminderDate"] = res.FireAt.UTC().Format("2006-01-02")
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) reminderStatus(c *gin.Context) {
	st, err := h.contracts.ReminderStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *handlers) upcomingRenewals(c *gin.Context) {
	days := contracts.DefaultDaysAhead
	if raw := strings.TrimSpace(c.Query("daysAhead")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, common.NewInvalidInputError("daysAhead must be a positive integer"))
			return
		}
		days = n
	}
	list, err := h.contracts.UpcomingRenewals(c.Request.Context(), c.Param("userId"), days)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

func (h *handlers) export(c *gin.Context) {
	if h.exporter == nil {
		abortWithError(c, common.NewNotFoundError("Export is not enabled"))
		return
	}
	userID, err := uuid.Parse(strings.TrimSpace(c.Param("userId")))
	if err != nil {
		abortWithError(c, common.NewInvalidInputError("userId must be a valid UUID"))
		return
	}
	xlsx, err := h.exporter.ExportContractsXLSX(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="contracts-%s.xlsx"`, userID))
	c.Data(http.StatusOK, xlsxContentType, xlsx)
}

func (h *handlers) readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWithError(c, common.NewInvalidInputError("request body could not be read"))
		return nil, false
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		abortWithError(c, common.NewInvalidInputError("request body is required"))
		return nil, false
	}
	return body, true
}

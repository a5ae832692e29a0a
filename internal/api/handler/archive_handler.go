package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/statement-ledger/internal/api/service"
	"github.com/statement-ledger/internal/domain/archive"
	"github.com/statement-ledger/internal/domain/statement"
)

// ArchiveHandler handles HTTP requests against the statement archive read
// model. Archive responses trail the ledger: entries appear once the event
// pipeline has processed the committed record.
type ArchiveHandler struct {
	archiveService service.ArchiveService
	logger         *slog.Logger
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(logger *slog.Logger, archiveService service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{
		archiveService: archiveService,
		logger:         logger,
	}
}

// GetUserArchive retrieves paginated archived records for the path user,
// newest first
func (h *ArchiveHandler) GetUserArchive(c *gin.Context) {
	userIDParam := c.Param("user_id")
	userID, err := uuid.Parse(userIDParam)
	if err != nil {
		h.logger.Error("Invalid user ID", "id", userIDParam, "error", err)
		RespondBadRequest(c, "Invalid user ID")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	entries, total, err := h.archiveService.GetUserArchive(
		c.Request.Context(),
		userID,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to get user archive", "user_id", userIDParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, mapArchiveEntries(entries), pagination.Page, pagination.PerPage, int(total))
}

// GetByTimeRange retrieves paginated archived records created inside the
// requested window, across all users
func (h *ArchiveHandler) GetByTimeRange(c *gin.Context) {
	var rangeParams ArchiveRangeParams
	if err := c.ShouldBindQuery(&rangeParams); err != nil {
		h.logger.Error("Invalid time range parameters", "error", err)
		RespondBadRequest(c, "Both 'from' and 'to' timestamps are required")
		return
	}

	from, err := time.Parse(time.RFC3339, rangeParams.From)
	if err != nil {
		RespondBadRequest(c, "Invalid 'from' timestamp, expected RFC 3339")
		return
	}
	to, err := time.Parse(time.RFC3339, rangeParams.To)
	if err != nil {
		RespondBadRequest(c, "Invalid 'to' timestamp, expected RFC 3339")
		return
	}
	if to.Before(from) {
		RespondBadRequest(c, "'to' must not precede 'from'")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	entries, err := h.archiveService.GetArchiveByTimeRange(
		c.Request.Context(),
		from,
		to,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to get archive by time range",
			"from", rangeParams.From,
			"to", rangeParams.To,
			"error", err,
		)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapArchiveEntries(entries))
}

func mapArchiveEntries(entries []*archive.Entry) []ArchiveEntryResponse {
	responses := make([]ArchiveEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, mapArchiveEntryToResponse(entry))
	}
	return responses
}

// mapArchiveEntryToResponse maps an archive entry to a response DTO. The
// counterparty id is exposed only on incoming transfer legs, matching the
// live statement endpoints.
func mapArchiveEntryToResponse(entry *archive.Entry) ArchiveEntryResponse {
	response := ArchiveEntryResponse{
		StatementID: entry.StatementID.String(),
		UserID:      entry.UserID.String(),
		Type:        string(entry.Type),
		Direction:   string(entry.Direction),
		Amount:      json.Number(entry.Amount),
		Description: entry.Description,
		CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
		ArchivedAt:  entry.ArchivedAt.Format(time.RFC3339),
	}
	if entry.Type == statement.OperationTypeTransfer && entry.SenderID != nil && *entry.SenderID != entry.UserID {
		response.SenderID = entry.SenderID.String()
	}
	return response
}

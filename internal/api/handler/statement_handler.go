package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/statement-ledger/internal/api/service"
	"github.com/statement-ledger/internal/domain/statement"
	"github.com/statement-ledger/internal/domain/user"
)

// StatementHandler handles HTTP requests for ledger operations
type StatementHandler struct {
	statementService service.StatementService
	transferService  service.TransferService
	logger           *slog.Logger
}

// NewStatementHandler creates a new statement handler
func NewStatementHandler(logger *slog.Logger, statementService service.StatementService, transferService service.TransferService) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
		transferService:  transferService,
		logger:           logger,
	}
}

// Deposit handles recording a deposit for a user
func (h *StatementHandler) Deposit(c *gin.Context) {
	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	var req OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		RespondBadRequest(c, "Invalid amount")
		return
	}

	op, err := h.statementService.RecordDeposit(c.Request.Context(), userID, amount, req.Description)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	RespondCreated(c, mapOperationToResponse(op))
}

// Withdraw handles recording a withdrawal for a user
func (h *StatementHandler) Withdraw(c *gin.Context) {
	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	var req OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		RespondBadRequest(c, "Invalid amount")
		return
	}

	op, err := h.statementService.RecordWithdrawal(c.Request.Context(), userID, amount, req.Description)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	RespondCreated(c, mapOperationToResponse(op))
}

// Transfer handles moving funds from the path user to the receiver in the
// request body. The response carries the receiver's credit leg.
func (h *StatementHandler) Transfer(c *gin.Context) {
	senderID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		RespondBadRequest(c, "Invalid receiver ID")
		return
	}
	if receiverID == senderID {
		RespondBadRequest(c, "Cannot transfer to the same user")
		return
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		RespondBadRequest(c, "Invalid amount")
		return
	}

	op, err := h.transferService.Transfer(c.Request.Context(), senderID, receiverID, amount, req.Description)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	RespondCreated(c, mapOperationToResponse(op))
}

// GetBalance derives the user's balance, attaching the statement when
// include_statement=true is passed
func (h *StatementHandler) GetBalance(c *gin.Context) {
	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	includeStatement := c.Query("include_statement") == "true"

	balance, err := h.statementService.GetBalance(c.Request.Context(), userID, includeStatement)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	response := BalanceResponse{
		UserID:  userID.String(),
		Balance: json.Number(balance.Total.String()),
	}
	if includeStatement {
		response.Statement = make([]OperationResponse, 0, len(balance.Statement))
		for _, op := range balance.Statement {
			response.Statement = append(response.Statement, mapOperationToResponse(op))
		}
	}

	RespondOK(c, response)
}

// GetOperation retrieves one record owned by the path user
func (h *StatementHandler) GetOperation(c *gin.Context) {
	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	statementIDParam := c.Param("statement_id")
	statementID, err := uuid.Parse(statementIDParam)
	if err != nil {
		RespondBadRequest(c, "Invalid statement ID")
		return
	}

	op, err := h.statementService.GetOperation(c.Request.Context(), userID, statementID)
	if err != nil {
		if errors.Is(err, statement.ErrStatementNotFound{}) {
			RespondNotFound(c, "Statement operation not found")
			return
		}
		h.respondOperationError(c, err)
		return
	}

	RespondOK(c, mapOperationToResponse(op))
}

func (h *StatementHandler) parseUserID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("user_id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid user ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}

// respondOperationError maps domain errors to HTTP responses
func (h *StatementHandler) respondOperationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, statement.ErrInvalidAmount):
		RespondBadRequest(c, "Amount must be positive")
	case errors.Is(err, statement.ErrInsufficientFunds):
		RespondWithError(c, http.StatusBadRequest, "INSUFFICIENT_FUNDS", "Insufficient funds for this operation")
	case errors.Is(err, statement.ErrSendingUserNotFound):
		RespondNotFound(c, "Sending user not found")
	case errors.Is(err, statement.ErrReceivingUserNotFound):
		RespondNotFound(c, "Receiving user not found")
	case errors.Is(err, user.ErrUserNotFound{}):
		RespondNotFound(c, "User not found")
	default:
		h.logger.Error("Operation failed", "error", err)
		RespondInternalError(c)
	}
}

// mapOperationToResponse maps an operation record to a response DTO. The
// counterparty id is exposed only on incoming transfer legs.
func mapOperationToResponse(op *statement.Operation) OperationResponse {
	response := OperationResponse{
		ID:          op.ID.String(),
		UserID:      op.UserID.String(),
		Type:        string(op.Type),
		Direction:   string(op.Direction),
		Amount:      json.Number(op.Amount.String()),
		Description: op.Description,
		CreatedAt:   op.CreatedAt.Format(time.RFC3339),
	}
	if op.IsIncomingTransfer() {
		response.SenderID = op.SenderID.String()
	}
	return response
}

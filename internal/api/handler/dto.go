package handler

import "encoding/json"

// CreateUserRequest represents a request to register a new user
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// OperationRequest represents a request to record a deposit or withdrawal.
// Amount is kept as a JSON number and parsed into exact decimal before any
// arithmetic happens.
type OperationRequest struct {
	Amount      json.Number `json:"amount" binding:"required"`
	Description string      `json:"description"`
}

// TransferRequest represents a request to move funds to another user
type TransferRequest struct {
	ReceiverID  string      `json:"receiver_id" binding:"required,uuid"`
	Amount      json.Number `json:"amount" binding:"required"`
	Description string      `json:"description"`
}

// OperationResponse represents an operation record in API responses.
// SenderID is present only on incoming transfer legs.
type OperationResponse struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	SenderID    string      `json:"sender_id,omitempty"`
	Type        string      `json:"type"`
	Direction   string      `json:"direction"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description,omitempty"`
	CreatedAt   string      `json:"created_at"`
}

// BalanceResponse represents a derived balance in API responses. Statement
// is included only when the caller asked for it.
type BalanceResponse struct {
	UserID    string              `json:"user_id"`
	Balance   json.Number         `json:"balance"`
	Statement []OperationResponse `json:"statement,omitempty"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

// ArchiveRangeParams represents the time window for archive range queries.
// Both bounds are required RFC 3339 timestamps.
type ArchiveRangeParams struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// ArchiveEntryResponse represents an archived record in API responses.
// SenderID follows the same exposure rule as live records: incoming transfer
// legs only.
type ArchiveEntryResponse struct {
	StatementID string      `json:"statement_id"`
	UserID      string      `json:"user_id"`
	SenderID    string      `json:"sender_id,omitempty"`
	Type        string      `json:"type"`
	Direction   string      `json:"direction"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description,omitempty"`
	CreatedAt   string      `json:"created_at"`
	ArchivedAt  string      `json:"archived_at"`
}

// Package statement holds the append-only operation ledger: the operation
// record entity, the store contract, and the balance derivation over it.
// Records are immutable once created; corrections are new records.
package statement

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationType defines the kinds of money movement a record can describe
type OperationType string

const (
	OperationTypeDeposit  OperationType = "DEPOSIT"
	OperationTypeWithdraw OperationType = "WITHDRAW"
	OperationTypeTransfer OperationType = "TRANSFER"
)

// Direction is the signed contribution of a record to its owner's balance.
// It is fixed at creation and never re-derived from other fields.
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// Common errors
var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrSendingUserNotFound   = errors.New("sending user not found")
	ErrReceivingUserNotFound = errors.New("receiving user not found")
)

// Operation is one immutable money movement owned by a single user.
// SenderID is set only on transfer legs and always carries the sender's id,
// on both the debit and the credit leg.
type Operation struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	SenderID    *uuid.UUID      `json:"sender_id,omitempty"`
	Type        OperationType   `json:"type"`
	Direction   Direction       `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewDeposit creates a credit record for the given user
func NewDeposit(userID uuid.UUID, amount decimal.Decimal, description string) (*Operation, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := time.Now().UTC()
	return &Operation{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        OperationTypeDeposit,
		Direction:   DirectionCredit,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewWithdrawal creates a debit record for the given user. The sufficient
// funds check belongs to the caller; this only validates the amount.
func NewWithdrawal(userID uuid.UUID, amount decimal.Decimal, description string) (*Operation, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := time.Now().UTC()
	return &Operation{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        OperationTypeWithdraw,
		Direction:   DirectionDebit,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewTransferLegs creates both records of a transfer: a debit leg owned by
// the sender and a credit leg owned by the receiver. The legs share amount,
// description, counterparty and creation instant; they differ only in owner
// and direction.
func NewTransferLegs(senderID, receiverID uuid.UUID, amount decimal.Decimal, description string) (debit, credit *Operation, err error) {
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	counterparty := senderID
	now := time.Now().UTC()

	debit = &Operation{
		ID:          uuid.New(),
		UserID:      senderID,
		SenderID:    &counterparty,
		Type:        OperationTypeTransfer,
		Direction:   DirectionDebit,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	credit = &Operation{
		ID:          uuid.New(),
		UserID:      receiverID,
		SenderID:    &counterparty,
		Type:        OperationTypeTransfer,
		Direction:   DirectionCredit,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return debit, credit, nil
}

// Contribution returns the signed effect of the record on its owner's balance
func (o *Operation) Contribution() decimal.Decimal {
	if o.Direction == DirectionDebit {
		return o.Amount.Neg()
	}
	return o.Amount
}

// IsIncomingTransfer reports whether the record is a transfer leg owned by
// someone other than the sender. Only such legs expose the counterparty to
// callers.
func (o *Operation) IsIncomingTransfer() bool {
	return o.Type == OperationTypeTransfer && o.SenderID != nil && *o.SenderID != o.UserID
}

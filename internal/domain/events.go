package domain

import "time"

// Event types
const (
	EventTypeDeposited   = "transaction.deposited"
	EventTypeWithdrawn   = "transaction.withdrawn"
	EventTypeTransferred = "transaction.transferred"
)

// Aggregate types
const (
	AggregateTypeAccount = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// MovementEvent is the payload of deposit and withdrawal events.
type MovementEvent struct {
	TransactionID string `json:"transaction_id"`
	AccountNumber string `json:"account_number"`
	Amount        string `json:"amount"`
	BalanceAfter  string `json:"balance_after"`
	EventAt       string `json:"event_at"`
}

// TransferredEvent payload
type TransferredEvent struct {
	DebitTransactionID  string `json:"debit_transaction_id"`
	CreditTransactionID string `json:"credit_transaction_id"`
	SourceAccountNumber string `json:"source_account_number"`
	TargetAccountNumber string `json:"target_account_number"`
	Amount              string `json:"amount"`
	EventAt             string `json:"event_at"`
}

// Payload flattens the event for the outbox.
func (e MovementEvent) Payload() map[string]any {
	return map[string]any{
		"transaction_id": e.TransactionID,
		"account_number": e.AccountNumber,
		"amount":         e.Amount,
		"balance_after":  e.BalanceAfter,
		"event_at":       e.EventAt,
	}
}

// Payload flattens the event for the outbox.
func (e TransferredEvent) Payload() map[string]any {
	return map[string]any{
		"debit_transaction_id":  e.DebitTransactionID,
		"credit_transaction_id": e.CreditTransactionID,
		"source_account_number": e.SourceAccountNumber,
		"target_account_number": e.TargetAccountNumber,
		"amount":                e.Amount,
		"event_at":              e.EventAt,
	}
}

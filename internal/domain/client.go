package domain

import (
	"strings"
	"time"
)

// ClientStatus gates whether a client may initiate operations.
type ClientStatus string

const (
	ClientStatusActive    ClientStatus = "ACTIVE"
	ClientStatusSuspended ClientStatus = "SUSPENDED"
)

// Client is a bank customer owning zero or more accounts.
type Client struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	Nationality string
	Gender      string
	BirthDate   *time.Time
	Status      ClientStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FullName returns "First Last".
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// IsSuspended reports whether the client is blocked from initiating operations.
func (c *Client) IsSuspended() bool {
	return c.Status == ClientStatusSuspended
}

package dto

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// BirthDateLayout is the wire format of client birth dates.
const BirthDateLayout = "2006-01-02"

// ErrInvalidBirthDate is returned for malformed birth dates.
var ErrInvalidBirthDate = errors.New("invalid birth date, expected YYYY-MM-DD")

// ClientRequest is the body of client create and update requests.
type ClientRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Gender      string `json:"gender,omitempty"`
	BirthDate   string `json:"birth_date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ClientRequest) ToUseCaseInput() (usecase.ClientProfile, error) {
	profile := usecase.ClientProfile{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		Nationality: r.Nationality,
		Gender:      r.Gender,
	}

	if r.BirthDate != "" {
		birthDate, err := time.Parse(BirthDateLayout, r.BirthDate)
		if err != nil {
			return usecase.ClientProfile{}, ErrInvalidBirthDate
		}
		profile.BirthDate = &birthDate
	}

	return profile, nil
}

// CreateAccountRequest represents a request to open an account.
type CreateAccountRequest struct {
	ClientID string `json:"client_id"`
	Type     string `json:"type"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		ClientID: r.ClientID,
		Type:     domain.AccountType(r.Type),
	}
}

// MovementRequest is the body of deposit and withdrawal requests.
type MovementRequest struct {
	AccountNumber string `json:"account_number"`
	Amount        string `json:"amount"`
	Description   string `json:"description,omitempty"`
}

// ToDepositInput converts to deposit input.
func (r *MovementRequest) ToDepositInput() (usecase.DepositInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.DepositInput{}, err
	}

	return usecase.DepositInput{
		AccountNumber: r.AccountNumber,
		Amount:        amount,
		Description:   r.Description,
	}, nil
}

// ToWithdrawInput converts to withdrawal input.
func (r *MovementRequest) ToWithdrawInput() (usecase.WithdrawInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.WithdrawInput{}, err
	}

	return usecase.WithdrawInput{
		AccountNumber: r.AccountNumber,
		Amount:        amount,
		Description:   r.Description,
	}, nil
}

// TransferRequest represents a request to move funds between accounts.
type TransferRequest struct {
	SourceAccountNumber string `json:"source_account_number"`
	TargetAccountNumber string `json:"target_account_number"`
	Amount              string `json:"amount"`
	Description         string `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() (usecase.TransferInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.TransferInput{}, err
	}

	return usecase.TransferInput{
		SourceAccountNumber: r.SourceAccountNumber,
		TargetAccountNumber: r.TargetAccountNumber,
		Amount:              amount,
		Description:         r.Description,
	}, nil
}

// parseAmount parses a decimal string. Sign and range checks are left to
// the engine so they surface as ErrInvalidAmount with operation context.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a decimal", domain.ErrInvalidAmount, s)
	}

	return amount, nil
}

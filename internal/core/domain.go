package core

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts and percentages travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type (
	User struct {
		ID           int64     `json:"id"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"-"`
		CreatedAt    time.Time `json:"createdAt"`
		UpdatedAt    time.Time `json:"updatedAt"`
	}

	Account struct {
		ID        int64     `json:"id"`
		UserID    int64     `json:"userId"`
		Name      string    `json:"name"`
		Type      string    `json:"type"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	Category struct {
		ID        int64     `json:"id"`
		UserID    int64     `json:"userId"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	Fund struct {
		ID           int64     `json:"id"`
		UserID       int64     `json:"userId"`
		Name         string    `json:"name"`
		ISIN         string    `json:"isin"`
		CategoryType string    `json:"categoryType"`
		CreatedAt    time.Time `json:"createdAt"`
		UpdatedAt    time.Time `json:"updatedAt"`
	}

	Year struct {
		ID         int64     `json:"id"`
		UserID     int64     `json:"userId"`
		YearNumber int64     `json:"yearNumber"`
		CreatedAt  time.Time `json:"createdAt"`
		UpdatedAt  time.Time `json:"updatedAt"`
	}

	MonthlyRecord struct {
		ID          int64           `json:"id"`
		UserID      int64           `json:"userId"`
		YearID      int64           `json:"yearId"`
		Month       int64           `json:"month"`
		GrossSalary decimal.Decimal `json:"grossSalary"`
		NetSalary   decimal.Decimal `json:"netSalary"`
		CreatedAt   time.Time       `json:"createdAt"`
		UpdatedAt   time.Time       `json:"updatedAt"`
	}

	// MonthlyBalance, CategoryAllocation and FundContribution carry no user
	// column: they belong to whoever owns both of their parents.
	MonthlyBalance struct {
		ID              int64           `json:"id"`
		MonthlyRecordID int64           `json:"monthlyRecordId"`
		AccountID       int64           `json:"accountId"`
		Balance         decimal.Decimal `json:"balance"`
		CreatedAt       time.Time       `json:"createdAt"`
		UpdatedAt       time.Time       `json:"updatedAt"`
	}

	CategoryAllocation struct {
		ID              int64           `json:"id"`
		MonthlyRecordID int64           `json:"monthlyRecordId"`
		CategoryID      int64           `json:"categoryId"`
		PercentageOfNet decimal.Decimal `json:"percentageOfNet"`
		CreatedAt       time.Time       `json:"createdAt"`
		UpdatedAt       time.Time       `json:"updatedAt"`
	}

	FundContribution struct {
		ID                     int64           `json:"id"`
		MonthlyRecordID        int64           `json:"monthlyRecordId"`
		FundID                 int64           `json:"fundId"`
		PercentageOfInvestment decimal.Decimal `json:"percentageOfInvestment"`
		CreatedAt              time.Time       `json:"createdAt"`
		UpdatedAt              time.Time       `json:"updatedAt"`
	}
)

var (
	ErrEmptyEmail    = errors.New("email is required")
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrEmptyPassword = errors.New("password is required")
	ErrLongPassword  = errors.New("password is too long")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmptyEmail
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

func ValidatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return ErrLongPassword
	}
	return nil
}

// ValidateCredentials checks the fields required by register and login.
func ValidateCredentials(email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}

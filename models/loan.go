// models/loan.go
package models

import "time"

const LoanTable = "loans"

// OpenLoanIndex is the partial unique index that allows at most one open
// loan per key.
const OpenLoanIndex = LoanTable + "_one_open_per_key"

type Loan struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	KeyID      uint      `gorm:"index;not null" json:"keyId"`
	BorrowerID uint      `gorm:"index;not null" json:"borrowerId"`
	Activite   string    `gorm:"type:text" json:"activite"`
	LoanAt     time.Time `gorm:"index;not null" json:"loanAt"`
	// DueAt is a calendar day, stored as 00:00 of that day. A loan due the
	// day it opens therefore has DueAt before LoanAt; the rule is
	// StartOfDay(LoanAt) <= DueAt, and the loan is overdue from the next day.
	DueAt time.Time `gorm:"not null" json:"dueAt"`

	ReturnedAt *time.Time `gorm:"index" json:"returnedAt,omitempty"` // nil = open

	Key      *Key      `gorm:"foreignKey:KeyID;constraint:OnDelete:RESTRICT" json:"key,omitempty"`
	Borrower *Borrower `gorm:"foreignKey:BorrowerID;constraint:OnDelete:RESTRICT" json:"borrower,omitempty"`
}

func (Loan) TableName() string { return LoanTable }

func (l Loan) IsOpen() bool { return l.ReturnedAt == nil }

// Overdue reports whether an open loan is past its due day.
func (l Loan) Overdue(now time.Time) bool {
	return l.IsOpen() && l.DueAt.Before(StartOfDay(now))
}

type LoanStatus string

const (
	LoanOpen   LoanStatus = "open"
	LoanClosed LoanStatus = "closed"
)

func (l Loan) Status() LoanStatus {
	if l.IsOpen() {
		return LoanOpen
	}
	return LoanClosed
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

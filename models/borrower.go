package models

import "time"

const BorrowerTable = "borrowers"

type Borrower struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Matricule string    `gorm:"size:50;uniqueIndex;not null" json:"matricule"`
	Nom       string    `gorm:"size:100;not null" json:"nom"`
	Prenoms   string    `gorm:"size:100;not null" json:"prenoms"`
	Telephone string    `gorm:"size:20" json:"telephone"`
	Email     string    `gorm:"size:100" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Borrower) TableName() string { return BorrowerTable }

func (b Borrower) FullName() string {
	if b.Prenoms == "" {
		return b.Nom
	}
	return b.Nom + " " + b.Prenoms
}

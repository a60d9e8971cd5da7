package models

import (
	"time"

	"github.com/syssam/magicdao/schema"
)

type Status string

type Order struct {
	ID         int64     `dao:"id,autoincrement"`
	CustomerID int64     `dao:"customer_id"`
	Status     Status    `dao:"status"`
	Note       *string   `dao:"note"`
	CreatedAt  time.Time `dao:",readonly"`
	Ignored    string    `dao:"-"`
	transient  int
}

func (Order) TableName() string { return "order" }

type Audit struct {
	CreatedBy string `dao:"created_by"`
}

type Account struct {
	*Audit
	ID     string `dao:"id,key"`
	email  string `dao:"email"`
	Active bool   `dao:"active"`
}

func (*Account) TableName() string { return "account" }

func (a *Account) GetEmail() string { return a.email }

func (a *Account) SetEmail(v string) error {
	a.email = v
	return nil
}

func (a *Account) IsActive() (bool, error) { return a.Active, nil }

type Payment struct {
	ID     int64 `dao:"id,key"`
	Amount int64 `dao:"amount"`
}

func (Payment) TableName() string { return "payment" }

func (Payment) ShardSpec() schema.ShardSpec {
	return schema.ShardSpec{Count: 2, Column: "id"}
}

// Untagged has a table but no tagged fields.
type Untagged struct {
	ID int64
}

func (Untagged) TableName() string { return "untagged" }

// NoTable is tagged but has no TableName method.
type NoTable struct {
	ID int64 `dao:"id,key"`
}

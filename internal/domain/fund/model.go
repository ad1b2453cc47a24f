package fund

import "time"

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Entry is one ledger line. Amount is a positive whole number of VND; Kind
// decides the sign.
type Entry struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	Kind          Kind      `gorm:"type:varchar(16);not null;index"`
	Amount        int64     `gorm:"not null"`
	OccurredOn    time.Time `gorm:"type:date;not null;index"`
	Description   string    `gorm:"not null"`
	ContributorID *string   `gorm:"type:uuid"`
	RecordedBy    *string   `gorm:"type:uuid"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Entry) TableName() string {
	return "fund_entries"
}

type ListFilter struct {
	From   *time.Time
	To     *time.Time
	Kind   Kind
	Limit  int
	Offset int
}

type Summary struct {
	Income  int64
	Expense int64
	Balance int64
}

type Input struct {
	Kind          Kind
	Amount        int64
	OccurredOn    time.Time
	Description   string
	ContributorID *string
	RecordedBy    string
}

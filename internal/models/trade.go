package models

import "time"

// Trade directions.
const (
	DirectionLong  = "Long"
	DirectionShort = "Short"
)

// Trade represents one closed position in the journal.
//
// Result is the realized P&L as entered by the user. It is deliberately not
// derived from entry/exit/lots: those are independent user-entered fields,
// and the journal stores whatever the user reported.
//
// UserEmail is indexed but nullable: rows migrated from the single-user
// schema predate trade ownership.
type Trade struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserEmail  string    `gorm:"index" json:"user_email"`
	Date       string    `gorm:"not null" json:"date"` // calendar date, YYYY-MM-DD
	Pair       string    `gorm:"not null" json:"pair"`
	Direction  string    `gorm:"not null" json:"direction"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Lots       float64   `json:"lots"`
	Result     float64   `gorm:"not null" json:"result"`
	Timestamp  time.Time `json:"timestamp"`
}

// TableName keeps the table name aligned with the hosted schema.
func (Trade) TableName() string {
	return "trades"
}

// ValidDirection reports whether s is one of the two allowed directions.
func ValidDirection(s string) bool {
	return s == DirectionLong || s == DirectionShort
}

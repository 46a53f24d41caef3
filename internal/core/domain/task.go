package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Task is a microtask posting published by an admin.
type Task struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Reward      decimal.Decimal `json:"reward"`
	CreatedAt   time.Time       `json:"created_at"`
}

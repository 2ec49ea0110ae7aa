package entity

import "time"

// Category agrupa productos. El nombre es único.
type Category struct {
	ID          string
	Name        string
	Description string // opcional
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

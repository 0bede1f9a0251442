package recorder

import "time"

// Run is one simulation session.
type Run struct {
	ID        uint `gorm:"primarykey"`
	Level     string
	StartedAt time.Time
	EndedAt   *time.Time
	Frames    uint64
	Events    []Event `gorm:"constraint:OnDelete:CASCADE"`
}

// Event is one gameplay event observed during a run.
type Event struct {
	ID     uint   `gorm:"primarykey"`
	RunID  uint   `gorm:"index"`
	Frame  uint64 `gorm:"index"`
	Time   float64
	Type   string `gorm:"index;size:64"`
	Entity string `gorm:"size:32"`
	Name   string `gorm:"size:128"`
	Detail string
}

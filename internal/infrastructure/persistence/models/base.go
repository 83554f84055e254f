package models

import "time"

// BaseModel provides the surrogate key and creation time shared by all tables
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
}

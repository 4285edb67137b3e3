package recurrence

import (
	"time"

	"github.com/shopspring/decimal"
)

type Rule struct {
	ID         int64           `gorm:"primaryKey"`
	UserID     int64           `gorm:"column:user_id;not null;index"`
	Title      string          `gorm:"column:title;not null"`
	CategoryID int64           `gorm:"column:category_id;not null"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(14,2);not null"`
	Type       string          `gorm:"column:type;not null"`
	Comment    string          `gorm:"column:comment"`
	StartDate  time.Time       `gorm:"column:start_date;type:date;not null"`
	EndDate    time.Time       `gorm:"column:end_date;type:date;not null"`
	Frequency  string          `gorm:"column:frequency;not null"`
	IsActive   bool            `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Rule) TableName() string {
	return "recurrence_rules"
}

package category

import "time"

type Category struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:idx_categories_name_type"`
	Type      string    `gorm:"column:type;not null;uniqueIndex:idx_categories_name_type"`
	Color     string    `gorm:"column:color;not null;default:'#808080'"`
	Icon      string    `gorm:"column:icon;not null;default:'❓'"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}

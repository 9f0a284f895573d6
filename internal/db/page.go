package db

import "time"

// Page 是站点的静态页面（关于、规则），内容为 Markdown
type Page struct {
	ID        uint   `gorm:"primaryKey"`
	Slug      string `gorm:"size:64;uniqueIndex;not null"`
	Title     string `gorm:"size:256;not null"`
	Summary   string `gorm:"size:256"`
	Content   string `gorm:"type:text"`
	UpdatedAt time.Time
}

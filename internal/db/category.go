package db

import "time"

// Category 定义了文章分类，通过 slug 暴露在 URL 中
type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:256;not null"`
	Description string `gorm:"type:text"`
	Slug        string `gorm:"size:64;uniqueIndex;not null"`
	IsPublished bool   `gorm:"not null"`
	CreatedAt   time.Time

	Posts []Post `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}

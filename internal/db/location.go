package db

import "time"

// Location 定义了文章的地理位置标签
type Location struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:256;not null"`
	IsPublished bool   `gorm:"not null"`
	CreatedAt   time.Time

	Posts []Post `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL"`
}

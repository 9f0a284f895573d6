package db

import "time"

// Post 定义了文章模型
type Post struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:256;not null"`
	Text        string    `gorm:"type:text;not null"`
	PubDate     time.Time `gorm:"index;not null"`
	IsPublished bool      `gorm:"not null"`
	Image       string    `gorm:"size:512"`
	AuthorID    uint      `gorm:"index;not null"`
	Author      User
	CategoryID  *uint `gorm:"index"`
	Category    *Category
	LocationID  *uint `gorm:"index"`
	Location    *Location
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`

	// CommentCount 仅在查询时通过子查询填充，不落库
	CommentCount int64 `gorm:"->;-:migration"`
}

// VisibleAt reports whether the post is visible to the public at the given
// instant. The category must be loaded for posts that reference one.
func (p *Post) VisibleAt(now time.Time) bool {
	if p == nil || !p.IsPublished {
		return false
	}
	if p.PubDate.After(now) {
		return false
	}
	if p.CategoryID != nil && (p.Category == nil || !p.Category.IsPublished) {
		return false
	}
	return true
}

// IsAuthoredBy reports whether userID owns the post.
func (p *Post) IsAuthoredBy(userID uint) bool {
	return p != nil && userID != 0 && p.AuthorID == userID
}

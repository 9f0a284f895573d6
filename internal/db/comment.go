package db

import "time"

// CommentMaxLength bounds the comment text, counted in runes.
const CommentMaxLength = 100

// Comment 定义了文章评论
type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	Text      string    `gorm:"size:100;not null"`
	CreatedAt time.Time `gorm:"index;<-:create"`
	AuthorID  uint      `gorm:"index;not null"`
	Author    User
	PostID    uint `gorm:"index;not null"`
	Post      *Post
}

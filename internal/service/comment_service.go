package service

import (
	"errors"
	"fmt"

	"github.com/blogicum/internal/db"
	"gorm.io/gorm"
)

// CommentService wraps comment related database operations.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// ListForPost returns the comments of a post, oldest first.
func (s *CommentService) ListForPost(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at asc, id asc").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Get returns the comment with commentID that belongs to postID.
func (s *CommentService) Get(postID, commentID uint) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.Preload("Author").
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// Create attaches a new comment by author to postID. The post's
// publication state is not consulted.
func (s *CommentService) Create(author Identity, postID uint, input CommentInput) (*db.Comment, error) {
	if !author.Authenticated() {
		return nil, ErrUserNotFound
	}
	if err := ValidateComment(&input); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&db.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check post: %w", err)
	}
	if count == 0 {
		return nil, ErrPostNotFound
	}

	comment := db.Comment{Text: input.Text, AuthorID: author.UserID, PostID: postID}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

// Update replaces the text of a comment. Author, post and creation time
// never change.
func (s *CommentService) Update(commentID uint, input CommentInput) (*db.Comment, error) {
	if err := ValidateComment(&input); err != nil {
		return nil, err
	}

	result := s.db.Model(&db.Comment{}).Where("id = ?", commentID).Update("text", input.Text)
	if result.Error != nil {
		return nil, fmt.Errorf("update comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrCommentNotFound
	}

	var comment db.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		return nil, fmt.Errorf("reload comment: %w", err)
	}
	return &comment, nil
}

// Delete removes a comment.
func (s *CommentService) Delete(commentID uint) error {
	result := s.db.Delete(&db.Comment{}, commentID)
	if result.Error != nil {
		return fmt.Errorf("delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

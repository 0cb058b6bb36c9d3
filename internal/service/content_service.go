package service

import (
	"context"
	"fmt"
	"strings"

	"anonboard/internal/domain"
	"anonboard/internal/repository"
)

// ContentService covers posts, comments and voting. These are plain
// keyed reads and writes; the interesting contracts all live in the
// identity layer.
type ContentService interface {
	CreatePost(ctx context.Context, ownerID int64, content, imageURL string) (*domain.Post, error)
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]domain.Post, error)
	CreateComment(ctx context.Context, ownerID, postID, parentID int64, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]domain.Comment, error)
	CastVote(ctx context.Context, userID, postID, commentID int64, value int) (*domain.Vote, error)
}

type contentService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	votes    repository.VoteRepository
}

func NewContentService(posts repository.PostRepository, comments repository.CommentRepository, votes repository.VoteRepository) ContentService {
	return &contentService{posts: posts, comments: comments, votes: votes}
}

func (s *contentService) CreatePost(ctx context.Context, ownerID int64, content, imageURL string) (*domain.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: post content is required", ErrInvalidInput)
	}

	post := &domain.Post{
		Content:  content,
		ImageURL: imageURL,
		OwnerID:  ownerID,
	}
	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *contentService) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *contentService) ListPosts(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.posts.List(ctx, limit, offset)
}

func (s *contentService) CreateComment(ctx context.Context, ownerID, postID, parentID int64, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrInvalidInput)
	}

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	if parentID != 0 {
		parent, err := s.comments.GetByID(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, fmt.Errorf("%w: parent comment belongs to another post", ErrInvalidInput)
		}
	}

	comment := &domain.Comment{
		Content:  content,
		OwnerID:  ownerID,
		PostID:   postID,
		ParentID: parentID,
	}
	if _, err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *contentService) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

func (s *contentService) CastVote(ctx context.Context, userID, postID, commentID int64, value int) (*domain.Vote, error) {
	if value != domain.VoteUp && value != domain.VoteDown {
		return nil, fmt.Errorf("%w: vote value must be 1 or -1", ErrInvalidInput)
	}
	if (postID == 0) == (commentID == 0) {
		return nil, fmt.Errorf("%w: vote targets exactly one of post or comment", ErrInvalidInput)
	}

	vote := &domain.Vote{
		UserID:    userID,
		PostID:    postID,
		CommentID: commentID,
		Value:     value,
	}
	if err := s.votes.Cast(ctx, vote); err != nil {
		return nil, err
	}
	return vote, nil
}

package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/repository"
)

// PostService 博客文章业务服务
type PostService struct {
	repo repository.PostRepository
}

// NewPostService 创建文章服务
func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{repo: repo}
}

// CreatePostInput 创建/更新文章输入
type CreatePostInput struct {
	Slug        string
	Title       string
	Content     string
	Image       string
	Author      string
	IsPublished *bool
	PublishedAt *time.Time
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 由标题生成 slug
func Slugify(title string) string {
	slug := slugInvalidChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	return strings.Trim(slug, "-")
}

// ListPublic 获取已发布文章列表
func (s *PostService) ListPublic(page, pageSize int) ([]models.Post, int64, error) {
	return s.repo.List(repository.PostListFilter{
		Page:          page,
		PageSize:      pageSize,
		OnlyPublished: true,
	})
}

// GetPublicBySlug 获取已发布文章详情
func (s *PostService) GetPublicBySlug(slug string) (*models.Post, error) {
	post, err := s.repo.GetBySlug(strings.TrimSpace(slug), true)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// ListAdmin 获取后台文章列表
func (s *PostService) ListAdmin(search string, page, pageSize int) ([]models.Post, int64, error) {
	return s.repo.List(repository.PostListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   search,
		OrderBy:  "id DESC",
	})
}

// GetAdminByID 获取后台文章详情
func (s *PostService) GetAdminByID(id string) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// Create 创建文章
func (s *PostService) Create(input CreatePostInput) (*models.Post, error) {
	post := &models.Post{}
	if err := s.apply(post, input, nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update 更新文章
func (s *PostService) Update(id string, input CreatePostInput) (*models.Post, error) {
	post, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(post, input, &id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete 删除文章
func (s *PostService) Delete(id string) error {
	if _, err := s.GetAdminByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *PostService) apply(post *models.Post, input CreatePostInput, excludeID *string) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return ErrInvalidInput
	}
	slug := Slugify(input.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return ErrInvalidInput
	}
	count, err := s.repo.CountBySlug(slug, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}

	post.Slug = slug
	post.Title = title
	post.Content = input.Content
	post.Image = strings.TrimSpace(input.Image)
	post.Author = strings.TrimSpace(input.Author)
	if input.IsPublished != nil {
		post.IsPublished = *input.IsPublished
	}
	if input.PublishedAt != nil {
		published := *input.PublishedAt
		post.PublishedAt = &published
	}
	if post.IsPublished && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}
	return nil
}

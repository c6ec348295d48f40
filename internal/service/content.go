package service

import (
	"bytes"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lumeon-dev/accounts/internal/domain"
	"github.com/lumeon-dev/accounts/internal/errors"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type ContentService interface {
	CreateArticle(authorId domain.UserId, title, body string) (domain.Article, error)
	UpdateArticle(id, title, body string) (domain.Article, error)
	DeleteArticle(id string) error
	Article(id string) (domain.Article, error)
	Articles() ([]domain.Article, error)

	CreateTestimonial(author, quote string, rating int) (domain.Testimonial, error)
	DeleteTestimonial(id string) error
	Testimonials() ([]domain.Testimonial, error)
}

type ContentStorage interface {
	SaveArticle(article domain.Article) error
	ArticleByID(id string) (domain.Article, error)
	Articles() ([]domain.Article, error)
	DeleteArticle(id string) error

	SaveTestimonial(t domain.Testimonial) error
	Testimonials() ([]domain.Testimonial, error)
	DeleteTestimonial(id string) error
}

// Content renders article markdown to HTML and sanitizes the result before
// it is stored, so stored HTML is always safe to serve as-is.
type Content struct {
	storage   ContentStorage
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
	strict    *bluemonday.Policy
}

func NewContent(storage ContentStorage) *Content {
	return &Content{
		storage:   storage,
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		sanitizer: bluemonday.UGCPolicy(),
		strict:    bluemonday.StrictPolicy(),
	}
}

func (c *Content) renderBody(body string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return c.sanitizer.Sanitize(buf.String()), nil
}

func (c *Content) CreateArticle(authorId domain.UserId, title, body string) (domain.Article, error) {
	html, err := c.renderBody(body)
	if err != nil {
		return domain.Article{}, err
	}

	now := time.Now().UTC()
	article := domain.Article{
		Id:        uuid.NewString(),
		Title:     c.strict.Sanitize(strings.TrimSpace(title)),
		Body:      body,
		Html:      html,
		AuthorId:  authorId,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.storage.SaveArticle(article); err != nil {
		return domain.Article{}, err
	}
	return article, nil
}

func (c *Content) UpdateArticle(id, title, body string) (domain.Article, error) {
	article, err := c.storage.ArticleByID(id)
	if err != nil {
		return domain.Article{}, err
	}

	html, err := c.renderBody(body)
	if err != nil {
		return domain.Article{}, err
	}

	article.Title = c.strict.Sanitize(strings.TrimSpace(title))
	article.Body = body
	article.Html = html
	article.UpdatedAt = time.Now().UTC()

	if err := c.storage.SaveArticle(article); err != nil {
		return domain.Article{}, err
	}
	return article, nil
}

func (c *Content) DeleteArticle(id string) error {
	return c.storage.DeleteArticle(id)
}

func (c *Content) Article(id string) (domain.Article, error) {
	return c.storage.ArticleByID(id)
}

func (c *Content) Articles() ([]domain.Article, error) {
	return c.storage.Articles()
}

func (c *Content) CreateTestimonial(author, quote string, rating int) (domain.Testimonial, error) {
	if rating < 1 || rating > 5 {
		return domain.Testimonial{}, &errors.ErrorWithStatusCode{Message: "Rating must be between 1 and 5", StatusCode: 400}
	}

	t := domain.Testimonial{
		Id:        uuid.NewString(),
		Author:    c.strict.Sanitize(strings.TrimSpace(author)),
		Quote:     c.strict.Sanitize(strings.TrimSpace(quote)),
		Rating:    rating,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.storage.SaveTestimonial(t); err != nil {
		return domain.Testimonial{}, err
	}
	return t, nil
}

func (c *Content) DeleteTestimonial(id string) error {
	return c.storage.DeleteTestimonial(id)
}

func (c *Content) Testimonials() ([]domain.Testimonial, error) {
	return c.storage.Testimonials()
}

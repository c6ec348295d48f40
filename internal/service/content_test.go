package service

import (
	"testing"

	"github.com/lumeon-dev/accounts/internal/domain"
	internal_errors "github.com/lumeon-dev/accounts/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockContentStorage struct {
	SaveArticleFunc       func(article domain.Article) error
	ArticleByIDFunc       func(id string) (domain.Article, error)
	ArticlesFunc          func() ([]domain.Article, error)
	DeleteArticleFunc     func(id string) error
	SaveTestimonialFunc   func(t domain.Testimonial) error
	TestimonialsFunc      func() ([]domain.Testimonial, error)
	DeleteTestimonialFunc func(id string) error
}

func (m *MockContentStorage) SaveArticle(article domain.Article) error {
	if m.SaveArticleFunc != nil {
		return m.SaveArticleFunc(article)
	}
	return nil
}

func (m *MockContentStorage) ArticleByID(id string) (domain.Article, error) {
	if m.ArticleByIDFunc != nil {
		return m.ArticleByIDFunc(id)
	}
	return domain.Article{}, internal_errors.ErrArticleNotFound
}

func (m *MockContentStorage) Articles() ([]domain.Article, error) {
	if m.ArticlesFunc != nil {
		return m.ArticlesFunc()
	}
	return nil, nil
}

func (m *MockContentStorage) DeleteArticle(id string) error {
	if m.DeleteArticleFunc != nil {
		return m.DeleteArticleFunc(id)
	}
	return nil
}

func (m *MockContentStorage) SaveTestimonial(t domain.Testimonial) error {
	if m.SaveTestimonialFunc != nil {
		return m.SaveTestimonialFunc(t)
	}
	return nil
}

func (m *MockContentStorage) Testimonials() ([]domain.Testimonial, error) {
	if m.TestimonialsFunc != nil {
		return m.TestimonialsFunc()
	}
	return nil, nil
}

func (m *MockContentStorage) DeleteTestimonial(id string) error {
	if m.DeleteTestimonialFunc != nil {
		return m.DeleteTestimonialFunc(id)
	}
	return nil
}

func TestCreateArticle(t *testing.T) {
	t.Run("renders markdown and strips scripts", func(t *testing.T) {
		storage := &MockContentStorage{}
		var saved domain.Article
		storage.SaveArticleFunc = func(article domain.Article) error {
			saved = article
			return nil
		}
		content := NewContent(storage)

		article, err := content.CreateArticle("u1", "Hello", "# Title\n\n**bold** <script>alert(1)</script>")
		require.NoError(t, err)

		assert.NotEmpty(t, article.Id)
		assert.Contains(t, saved.Html, "<h1")
		assert.Contains(t, saved.Html, "<strong>bold</strong>")
		assert.NotContains(t, saved.Html, "<script>")
		assert.Equal(t, "# Title\n\n**bold** <script>alert(1)</script>", saved.Body, "raw markdown is kept")
	})

	t.Run("title tags removed", func(t *testing.T) {
		storage := &MockContentStorage{}
		content := NewContent(storage)

		article, err := content.CreateArticle("u1", "<b>Hi</b>", "text")
		require.NoError(t, err)
		assert.Equal(t, "Hi", article.Title)
	})
}

func TestUpdateArticle(t *testing.T) {
	existing := domain.Article{Id: "a1", Title: "Old", Body: "old", Html: "<p>old</p>", AuthorId: "u1"}
	storage := &MockContentStorage{
		ArticleByIDFunc: func(id string) (domain.Article, error) {
			if id != "a1" {
				return domain.Article{}, internal_errors.ErrArticleNotFound
			}
			return existing, nil
		},
	}
	content := NewContent(storage)

	t.Run("updates body and html", func(t *testing.T) {
		article, err := content.UpdateArticle("a1", "New", "*new*")
		require.NoError(t, err)
		assert.Equal(t, "New", article.Title)
		assert.Contains(t, article.Html, "<em>new</em>")
		assert.Equal(t, "u1", article.AuthorId, "author survives updates")
	})

	t.Run("missing article", func(t *testing.T) {
		_, err := content.UpdateArticle("nope", "New", "x")
		assert.Equal(t, internal_errors.ErrArticleNotFound, err)
	})
}

func TestCreateTestimonial(t *testing.T) {
	storage := &MockContentStorage{}
	content := NewContent(storage)

	t.Run("sanitizes author and quote", func(t *testing.T) {
		tm, err := content.CreateTestimonial("<i>Bob</i>", "Great <script>x</script> product", 5)
		require.NoError(t, err)
		assert.Equal(t, "Bob", tm.Author)
		assert.NotContains(t, tm.Quote, "script")
		assert.Equal(t, 5, tm.Rating)
	})

	t.Run("rating out of range", func(t *testing.T) {
		_, err := content.CreateTestimonial("Bob", "Nice", 6)
		require.Error(t, err)

		_, err = content.CreateTestimonial("Bob", "Nice", 0)
		require.Error(t, err)
	})
}

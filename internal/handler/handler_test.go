package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lumeon-dev/accounts/internal/config"
	"github.com/lumeon-dev/accounts/internal/domain"
	internal_errors "github.com/lumeon-dev/accounts/internal/errors"
	internal_jwt "github.com/lumeon-dev/accounts/internal/jwt"
	"github.com/stretchr/testify/require"
)

// Function-field mocks so each subtest overrides only what it needs.

type MockAuthService struct {
	RegisterFunc            func(reg domain.Registration) (domain.User, string, error)
	ResendCodeFunc          func(email domain.Email) (domain.User, string, error)
	ConfirmRegistrationFunc func(email domain.Email, code string) (domain.User, string, error)
	LoginFunc               func(email domain.Email, password string) (domain.User, string, error)
	ChangePasswordFunc      func(userId domain.UserId, current, newPassword, confirmPassword string) error
	ForgotPasswordFunc      func(email domain.Email) (domain.User, string, error)
	ResetPasswordFunc       func(email domain.Email, code, newPassword, confirmPassword string) error
	ProfileFunc             func(userId domain.UserId) (domain.User, error)
	UsersFunc               func() ([]domain.User, error)
	BlockUserFunc           func(userId domain.UserId) error
	UnblockUserFunc         func(userId domain.UserId) error
	DeleteUserFunc          func(userId domain.UserId) error
	CreateSubUserFunc       func(actor domain.Session, email, password, userName string) (domain.User, error)
}

func (m *MockAuthService) Register(reg domain.Registration) (domain.User, string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(reg)
	}
	return domain.User{}, "", nil
}

func (m *MockAuthService) ResendCode(email domain.Email) (domain.User, string, error) {
	if m.ResendCodeFunc != nil {
		return m.ResendCodeFunc(email)
	}
	return domain.User{}, "", nil
}

func (m *MockAuthService) ConfirmRegistration(email domain.Email, code string) (domain.User, string, error) {
	if m.ConfirmRegistrationFunc != nil {
		return m.ConfirmRegistrationFunc(email, code)
	}
	return domain.User{}, "", nil
}

func (m *MockAuthService) Login(email domain.Email, password string) (domain.User, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(email, password)
	}
	return domain.User{}, "", nil
}

func (m *MockAuthService) ChangePassword(userId domain.UserId, current, newPassword, confirmPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(userId, current, newPassword, confirmPassword)
	}
	return nil
}

func (m *MockAuthService) ForgotPassword(email domain.Email) (domain.User, string, error) {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(email)
	}
	return domain.User{}, "", nil
}

func (m *MockAuthService) ResetPassword(email domain.Email, code, newPassword, confirmPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(email, code, newPassword, confirmPassword)
	}
	return nil
}

func (m *MockAuthService) Profile(userId domain.UserId) (domain.User, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(userId)
	}
	return domain.User{}, nil
}

func (m *MockAuthService) IsBlocked(userId domain.UserId) (bool, error) {
	return false, nil
}

func (m *MockAuthService) Users() ([]domain.User, error) {
	if m.UsersFunc != nil {
		return m.UsersFunc()
	}
	return nil, nil
}

func (m *MockAuthService) BlockUser(userId domain.UserId) error {
	if m.BlockUserFunc != nil {
		return m.BlockUserFunc(userId)
	}
	return nil
}

func (m *MockAuthService) UnblockUser(userId domain.UserId) error {
	if m.UnblockUserFunc != nil {
		return m.UnblockUserFunc(userId)
	}
	return nil
}

func (m *MockAuthService) DeleteUser(userId domain.UserId) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(userId)
	}
	return nil
}

func (m *MockAuthService) CreateSubUser(actor domain.Session, email, password, userName string) (domain.User, error) {
	if m.CreateSubUserFunc != nil {
		return m.CreateSubUserFunc(actor, email, password, userName)
	}
	return domain.User{}, nil
}

type MockContentService struct {
	CreateArticleFunc     func(authorId domain.UserId, title, body string) (domain.Article, error)
	UpdateArticleFunc     func(id, title, body string) (domain.Article, error)
	DeleteArticleFunc     func(id string) error
	ArticleFunc           func(id string) (domain.Article, error)
	ArticlesFunc          func() ([]domain.Article, error)
	CreateTestimonialFunc func(author, quote string, rating int) (domain.Testimonial, error)
	DeleteTestimonialFunc func(id string) error
	TestimonialsFunc      func() ([]domain.Testimonial, error)
}

func (m *MockContentService) CreateArticle(authorId domain.UserId, title, body string) (domain.Article, error) {
	if m.CreateArticleFunc != nil {
		return m.CreateArticleFunc(authorId, title, body)
	}
	return domain.Article{}, nil
}

func (m *MockContentService) UpdateArticle(id, title, body string) (domain.Article, error) {
	if m.UpdateArticleFunc != nil {
		return m.UpdateArticleFunc(id, title, body)
	}
	return domain.Article{}, nil
}

func (m *MockContentService) DeleteArticle(id string) error {
	if m.DeleteArticleFunc != nil {
		return m.DeleteArticleFunc(id)
	}
	return nil
}

func (m *MockContentService) Article(id string) (domain.Article, error) {
	if m.ArticleFunc != nil {
		return m.ArticleFunc(id)
	}
	return domain.Article{}, internal_errors.ErrArticleNotFound
}

func (m *MockContentService) Articles() ([]domain.Article, error) {
	if m.ArticlesFunc != nil {
		return m.ArticlesFunc()
	}
	return nil, nil
}

func (m *MockContentService) CreateTestimonial(author, quote string, rating int) (domain.Testimonial, error) {
	if m.CreateTestimonialFunc != nil {
		return m.CreateTestimonialFunc(author, quote, rating)
	}
	return domain.Testimonial{}, nil
}

func (m *MockContentService) DeleteTestimonial(id string) error {
	if m.DeleteTestimonialFunc != nil {
		return m.DeleteTestimonialFunc(id)
	}
	return nil
}

func (m *MockContentService) Testimonials() ([]domain.Testimonial, error) {
	if m.TestimonialsFunc != nil {
		return m.TestimonialsFunc()
	}
	return nil, nil
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(ctx context.Context) error { return m.err }

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{
		JwtExpireInMins:         60,
		VerificationExpireMins:  10,
		MaxVerificationAttempts: 3,
		ExposeCodeInResponse:    true,
	}}
}

func newTestHandler(auth *MockAuthService, content *MockContentService) *Handler {
	if auth == nil {
		auth = &MockAuthService{}
	}
	if content == nil {
		content = &MockContentService{}
	}
	jwtService := internal_jwt.New("test_secret", time.Hour, "", false)
	return New(auth, content, testConfig(), jwtService, &mockPinger{})
}

func postJSON(t *testing.T, handlerFn http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handlerFn(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) (bool, string, map[string]interface{}, string) {
	t.Helper()
	var body struct {
		Success bool                   `json:"success"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
		Error   string                 `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Success, body.Message, body.Data, body.Error
}

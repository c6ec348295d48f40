package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lumeon-dev/accounts/internal/domain"
	internal_errors "github.com/lumeon-dev/accounts/internal/errors"
)

func (s *Storage) SaveArticle(article domain.Article) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
        INSERT INTO articles(id, title, body, html, author_id, created_at, updated_at)
        VALUES($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO UPDATE SET
            title = EXCLUDED.title,
            body = EXCLUDED.body,
            html = EXCLUDED.html,
            updated_at = EXCLUDED.updated_at`,
			article.Id, article.Title, article.Body, article.Html,
			article.AuthorId, article.CreatedAt, article.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save article: %w", err)
		}
		return nil
	})
}

func (s *Storage) ArticleByID(id string) (domain.Article, error) {
	row := s.db.QueryRow(`
    SELECT id, title, body, html, author_id, created_at, updated_at
    FROM articles WHERE id = $1`, id)

	var a domain.Article
	err := row.Scan(&a.Id, &a.Title, &a.Body, &a.Html, &a.AuthorId, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, internal_errors.ErrArticleNotFound
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("failed to query article: %w", err)
	}
	return a, nil
}

func (s *Storage) Articles() ([]domain.Article, error) {
	rows, err := s.db.Query(`
    SELECT id, title, body, html, author_id, created_at, updated_at
    FROM articles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.Id, &a.Title, &a.Body, &a.Html, &a.AuthorId, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (s *Storage) DeleteArticle(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM articles WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete article: %w", err)
		}
		rowsDeleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for article deletion: %w", err)
		}
		if rowsDeleted == 0 {
			return internal_errors.ErrArticleNotFound
		}
		return nil
	})
}

func (s *Storage) SaveTestimonial(tm domain.Testimonial) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
        INSERT INTO testimonials(id, author, quote, rating, created_at)
        VALUES($1, $2, $3, $4, $5)`,
			tm.Id, tm.Author, tm.Quote, tm.Rating, tm.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save testimonial: %w", err)
		}
		return nil
	})
}

func (s *Storage) Testimonials() ([]domain.Testimonial, error) {
	rows, err := s.db.Query(`
    SELECT id, author, quote, rating, created_at
    FROM testimonials ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query testimonials: %w", err)
	}
	defer rows.Close()

	var testimonials []domain.Testimonial
	for rows.Next() {
		var tm domain.Testimonial
		if err := rows.Scan(&tm.Id, &tm.Author, &tm.Quote, &tm.Rating, &tm.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan testimonial: %w", err)
		}
		testimonials = append(testimonials, tm)
	}
	return testimonials, rows.Err()
}

func (s *Storage) DeleteTestimonial(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM testimonials WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete testimonial: %w", err)
		}
		rowsDeleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for testimonial deletion: %w", err)
		}
		if rowsDeleted == 0 {
			return internal_errors.ErrTestimonialNotFound
		}
		return nil
	})
}

package domain

import "time"

// Article is a blog post. Body keeps the author's markdown; Html is the
// rendered and sanitized form served to clients.
type Article struct {
	Id        string
	Title     string
	Body      string
	Html      string
	AuthorId  UserId
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Testimonial struct {
	Id        string
	Author    string
	Quote     string
	Rating    int
	CreatedAt time.Time
}

package testsupport

import (
	"github.com/goliatone/go-jsonapi/pkg/schema"
)

// Article is a plain struct entity served by the generic schema.
type Article struct {
	ID        int    `json:"id"`
	AuthorID  int    `json:"author_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published string `json:"published"`
}

// Author has a dedicated schema exposing its articles as a relationship.
type Author struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Articles []Article `json:"articles,omitempty"`
}

// AuthorSchema customises attributes and adds the articles relationship.
type AuthorSchema struct {
	*schema.EntitySchema
}

// NewAuthorSchema is the schema.Factory for AuthorSchema.
func NewAuthorSchema(ctx schema.Context) (schema.Schema, error) {
	return &AuthorSchema{EntitySchema: schema.NewEntitySchema(ctx)}, nil
}

// Attributes implements schema.Schema.
func (s *AuthorSchema) Attributes(resource any) (map[string]any, error) {
	author := asAuthor(resource)
	return map[string]any{
		"name": s.Sanitize(author.Name),
	}, nil
}

// Relationships implements schema.RelationshipProvider.
func (s *AuthorSchema) Relationships(resource any) (map[string]schema.Relationship, error) {
	author := asAuthor(resource)
	return map[string]schema.Relationship{
		"articles": {Data: author.Articles},
	}, nil
}

func asAuthor(resource any) Author {
	switch typed := resource.(type) {
	case Author:
		return typed
	case *Author:
		if typed != nil {
			return *typed
		}
	}
	return Author{}
}

// Articles returns the article fixtures.
func Articles() []Article {
	return []Article{
		{ID: 1, AuthorID: 1, Title: "First Article", Body: "First Article Body", Published: "Y"},
		{ID: 2, AuthorID: 3, Title: "Second Article", Body: "Second Article Body", Published: "Y"},
		{ID: 3, AuthorID: 1, Title: "Third Article", Body: "Third Article Body", Published: "Y"},
	}
}

// Authors returns the author fixtures with their articles attached.
func Authors() []Author {
	articles := Articles()
	authors := []Author{
		{ID: 1, Name: "mariano"},
		{ID: 2, Name: "nate"},
		{ID: 3, Name: "larry"},
		{ID: 4, Name: "garrett"},
	}
	for i := range authors {
		for _, article := range articles {
			if article.AuthorID == authors[i].ID {
				authors[i].Articles = append(authors[i].Articles, article)
			}
		}
	}
	return authors
}

// NewCatalog returns a catalog with Article (generic schema) and Author
// (AuthorSchema) registered.
func NewCatalog() *schema.Catalog {
	catalog := schema.NewCatalog()
	catalog.MustRegisterEntity("Article", Article{})
	catalog.MustRegisterEntity("Author", Author{})
	catalog.MustRegisterSchema("Author", NewAuthorSchema)
	return catalog
}

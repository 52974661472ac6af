package encoder_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-jsonapi/pkg/encoder"
	"github.com/goliatone/go-jsonapi/pkg/entity"
	"github.com/goliatone/go-jsonapi/pkg/schema"
	"github.com/goliatone/go-jsonapi/pkg/testsupport"
)

func fixtureSchemas(t *testing.T) schema.Map {
	t.Helper()
	schemas, err := schema.Resolve(testsupport.NewCatalog(), []schema.Entry{{Name: "Author"}, {Name: "Article"}}, schema.Context{})
	if err != nil {
		t.Fatalf("resolve schemas: %v", err)
	}
	return schemas
}

// postSchema exposes the "author" field of a Post record as a relationship.
type postSchema struct {
	*schema.EntitySchema
}

func (s *postSchema) Attributes(resource any) (map[string]any, error) {
	attrs, err := s.EntitySchema.Attributes(resource)
	if err != nil {
		return nil, err
	}
	delete(attrs, "author")
	return attrs, nil
}

func (s *postSchema) Relationships(resource any) (map[string]schema.Relationship, error) {
	author, _ := resource.(*entity.Record).Get("author")
	return map[string]schema.Relationship{"author": {Data: author}}, nil
}

func recordSchemas(t *testing.T) schema.Map {
	t.Helper()
	catalog := schema.NewCatalog()
	catalog.MustRegisterRecord("Post")
	catalog.MustRegisterRecord("User")
	catalog.MustRegisterSchema("Post", func(ctx schema.Context) (schema.Schema, error) {
		return &postSchema{EntitySchema: schema.NewEntitySchema(ctx)}, nil
	})
	schemas, err := schema.Resolve(catalog, []schema.Entry{{Name: "Post"}, {Name: "User"}}, schema.Context{})
	if err != nil {
		t.Fatalf("resolve schemas: %v", err)
	}
	return schemas
}

func TestEncodeData_Nil(t *testing.T) {
	out, err := encoder.New(fixtureSchemas(t)).EncodeData(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out != `{"data":null}` {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestEncodeData_EmptyCollection(t *testing.T) {
	out, err := encoder.New(fixtureSchemas(t)).EncodeData([]testsupport.Article{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out != `{"data":[]}` {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestEncodeMeta(t *testing.T) {
	out, err := encoder.New(fixtureSchemas(t)).
		WithLinks(encoder.Links{{Name: encoder.LinkSelf, Link: encoder.NewLink("/ignored")}}).
		EncodeMeta(map[string]any{"meta": "data"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out != `{"meta":{"meta":"data"}}` {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestEncodeData_SingleResource(t *testing.T) {
	article := testsupport.Articles()[0]
	out, err := encoder.New(fixtureSchemas(t)).WithURLPrefix("http://localhost/").EncodeData(&article)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	testsupport.AssertJSONEqual(t, `{
		"data": {
			"type": "articles",
			"id": "1",
			"attributes": {
				"author_id": 1,
				"title": "First Article",
				"body": "First Article Body",
				"published": "Y"
			},
			"links": {"self": "http://localhost/articles/1"}
		}
	}`, out)
}

func TestEncodeData_DocumentLinksAndMeta(t *testing.T) {
	links := encoder.LinksFromMap(map[string]encoder.Link{
		encoder.LinkLast:  encoder.NewLinkWithMeta("/authors?page=9", map[string]any{"meta": "data"}),
		encoder.LinkFirst: encoder.NewLink("/authors?page=1"),
		encoder.LinkNext:  encoder.NewLink("/authors?page=6"),
		"docs":            {Href: "https://example.com/docs", Absolute: true},
	})

	out, err := encoder.New(fixtureSchemas(t)).
		WithURLPrefix("http://localhost").
		WithLinks(links).
		WithMeta(map[string]any{"meta": "data"}).
		EncodeData(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	want := `{"meta":{"meta":"data"},"links":{"first":"http://localhost/authors?page=1","next":"http://localhost/authors?page=6","last":{"href":"http://localhost/authors?page=9","meta":{"meta":"data"}},"docs":"https://example.com/docs"},"data":null}`
	if out != want {
		t.Fatalf("unexpected output\nwant %s\ngot  %s", want, out)
	}
}

func TestEncodeData_RelationshipsIncludeAndFieldsets(t *testing.T) {
	out, err := encoder.New(fixtureSchemas(t)).
		WithURLPrefix("http://localhost").
		WithIncludedPaths([]string{"articles"}).
		WithFieldsets(map[string][]string{"articles": {"title"}}).
		EncodeData(testsupport.Authors()[:3])
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	testsupport.AssertJSONEqual(t, `{
		"data": [
			{
				"type": "authors", "id": "1",
				"attributes": {"name": "mariano"},
				"relationships": {
					"articles": {
						"data": [{"type": "articles", "id": "1"}, {"type": "articles", "id": "3"}],
						"links": {
							"self": "http://localhost/authors/1/relationships/articles",
							"related": "http://localhost/authors/1/articles"
						}
					}
				},
				"links": {"self": "http://localhost/authors/1"}
			},
			{
				"type": "authors", "id": "2",
				"attributes": {"name": "nate"},
				"relationships": {
					"articles": {
						"data": [],
						"links": {
							"self": "http://localhost/authors/2/relationships/articles",
							"related": "http://localhost/authors/2/articles"
						}
					}
				},
				"links": {"self": "http://localhost/authors/2"}
			},
			{
				"type": "authors", "id": "3",
				"attributes": {"name": "larry"},
				"relationships": {
					"articles": {
						"data": [{"type": "articles", "id": "2"}],
						"links": {
							"self": "http://localhost/authors/3/relationships/articles",
							"related": "http://localhost/authors/3/articles"
						}
					}
				},
				"links": {"self": "http://localhost/authors/3"}
			}
		],
		"included": [
			{"type": "articles", "id": "1", "attributes": {"title": "First Article"}, "links": {"self": "http://localhost/articles/1"}},
			{"type": "articles", "id": "3", "attributes": {"title": "Third Article"}, "links": {"self": "http://localhost/articles/3"}},
			{"type": "articles", "id": "2", "attributes": {"title": "Second Article"}, "links": {"self": "http://localhost/articles/2"}}
		]
	}`, out)
}

func TestEncodeData_FieldsetsFilterRelationships(t *testing.T) {
	out, err := encoder.New(fixtureSchemas(t)).
		WithFieldsets(map[string][]string{"authors": {"name"}}).
		EncodeData(testsupport.Authors()[1])
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	testsupport.AssertJSONEqual(t, `{
		"data": {"type": "authors", "id": "2", "attributes": {"name": "nate"}, "links": {"self": "/authors/2"}}
	}`, out)
}

func TestEncodeData_IncludedResourcesAreDeduplicated(t *testing.T) {
	user := entity.NewRecord("User", map[string]any{"id": "u1", "name": "mariano"})
	first := entity.NewRecord("Post", map[string]any{"id": "p1", "title": "one", "author": user})
	second := entity.NewRecord("Post", map[string]any{"id": "p2", "title": "two", "author": user})
	orphan := entity.NewRecord("Post", map[string]any{"id": "p3", "title": "three"})

	out, err := encoder.New(recordSchemas(t)).
		WithIncludedPaths([]string{"author", " "}).
		EncodeData([]any{first, second, orphan})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	testsupport.AssertJSONEqual(t, `{
		"data": [
			{"type": "posts", "id": "p1", "attributes": {"title": "one"},
			 "relationships": {"author": {"data": {"type": "users", "id": "u1"}, "links": {"self": "/posts/p1/relationships/author", "related": "/posts/p1/author"}}},
			 "links": {"self": "/posts/p1"}},
			{"type": "posts", "id": "p2", "attributes": {"title": "two"},
			 "relationships": {"author": {"data": {"type": "users", "id": "u1"}, "links": {"self": "/posts/p2/relationships/author", "related": "/posts/p2/author"}}},
			 "links": {"self": "/posts/p2"}},
			{"type": "posts", "id": "p3", "attributes": {"title": "three"},
			 "relationships": {"author": {"data": null, "links": {"self": "/posts/p3/relationships/author", "related": "/posts/p3/author"}}},
			 "links": {"self": "/posts/p3"}}
		],
		"included": [
			{"type": "users", "id": "u1", "attributes": {"name": "mariano"}, "links": {"self": "/users/u1"}}
		]
	}`, out)
}

func TestEncodeData_PrimaryResourcesAreNotIncluded(t *testing.T) {
	user := entity.NewRecord("User", map[string]any{"id": "u1", "name": "mariano"})
	post := entity.NewRecord("Post", map[string]any{"id": "p1", "title": "one", "author": user})

	out, err := encoder.New(recordSchemas(t)).
		WithIncludedPaths([]string{"author"}).
		EncodeData([]any{user, post})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(out, `"included"`) {
		t.Fatalf("primary resource must not be repeated in included: %s", out)
	}
}

func TestEncodeData_SchemaNotFound(t *testing.T) {
	_, err := encoder.New(fixtureSchemas(t)).EncodeData(entity.NewRecord("Ghost", map[string]any{"id": 1}))
	if !errors.Is(err, encoder.ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound, got %v", err)
	}

	var notFound *encoder.SchemaNotFoundError
	if !errors.As(err, &notFound) || notFound.Kind != entity.RecordKind("Ghost") {
		t.Fatalf("unexpected error detail %v", err)
	}

	_, err = encoder.New(fixtureSchemas(t)).EncodeData(map[string]any{"id": 1})
	if !errors.Is(err, encoder.ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound for kindless value, got %v", err)
	}
}

func TestEncodeData_RelatedResourceWithoutID(t *testing.T) {
	user := entity.NewRecord("User", map[string]any{"name": "anonymous"})
	post := entity.NewRecord("Post", map[string]any{"id": "p1", "author": user})

	if _, err := encoder.New(recordSchemas(t)).EncodeData(post); err == nil {
		t.Fatalf("expected linkage error for related resource without id")
	}
}

func TestEncodeData_PrettyPrint(t *testing.T) {
	out, err := encoder.New(fixtureSchemas(t)).
		WithEncodeOptions(encoder.PrettyPrint).
		EncodeMeta(map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "{\n    \"meta\": {\n        \"a\": 1\n    }\n}"
	if out != want {
		t.Fatalf("unexpected pretty output\nwant %q\ngot  %q", want, out)
	}
}

func TestEncoder_Flags(t *testing.T) {
	enc := encoder.New(fixtureSchemas(t))
	if enc.Flags() != 0 {
		t.Fatalf("expected no flags by default, got %d", enc.Flags())
	}
	enc.WithEncodeOptions(encoder.HTMLSafe | encoder.PrettyPrint)
	if got := enc.Flags(); got != encoder.HTMLSafe|encoder.PrettyPrint {
		t.Fatalf("unexpected flags %d", got)
	}
	if !enc.Flags().Has(encoder.HexQuot) || enc.Flags().Has(encoder.UnescapedSlashes) {
		t.Fatalf("unexpected flag membership for %d", enc.Flags())
	}
}

func TestEncodeData_HTMLSafeFlags(t *testing.T) {
	esc := func(code string) string { return "\\" + "u" + code }

	out, err := encoder.New(fixtureSchemas(t)).
		WithEncodeOptions(encoder.HTMLSafe).
		EncodeMeta(map[string]any{"html": `<a href='x'>"&"</a>`})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	want := `{"meta":{"html":"` +
		esc("003C") + "a href=" + esc("0027") + "x" + esc("0027") + esc("003E") +
		esc("0022") + esc("0026") + esc("0022") +
		esc("003C") + "/a" + esc("003E") + `"}}`
	if out != want {
		t.Fatalf("unexpected escaped output\nwant %s\ngot  %s", want, out)
	}
	testsupport.MustDecodeJSON(t, out)

	plain, err := encoder.New(fixtureSchemas(t)).EncodeMeta(map[string]any{"html": "<b>&</b>"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if plain != `{"meta":{"html":"<b>&</b>"}}` {
		t.Fatalf("zero flags must not escape: %s", plain)
	}
}

func TestEncodeData_HexQuotKeepsEscapedBackslash(t *testing.T) {
	out, err := encoder.New(fixtureSchemas(t)).
		WithEncodeOptions(encoder.HexQuot).
		EncodeMeta(map[string]any{"path": `C:\`})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out != `{"meta":{"path":"C:\\"}}` {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestLinksSort(t *testing.T) {
	links := encoder.LinksFromMap(map[string]encoder.Link{
		"zeta":              encoder.NewLink("/z"),
		encoder.LinkLast:    encoder.NewLink("/l"),
		encoder.LinkSelf:    encoder.NewLink("/s"),
		"alpha":             encoder.NewLink("/a"),
		encoder.LinkPrev:    encoder.NewLink("/p"),
		encoder.LinkRelated: encoder.NewLink("/r"),
	})

	var names []string
	for _, link := range links {
		names = append(names, link.Name)
	}
	want := []string{"self", "related", "prev", "last", "alpha", "zeta"}
	if diff := testsupport.CompareGolden(want, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	links = links.Set("self", encoder.NewLink("/s2"))
	if got, _ := links.Get("self"); got.Href != "/s2" {
		t.Fatalf("expected replaced self link, got %+v", got)
	}
}

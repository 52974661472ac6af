package render

import (
	"context"
)

// Renderer turns a variable bag into a serialized response body. The caller
// sets the response content type from ContentType().
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, vars map[string]any) (string, error)
}

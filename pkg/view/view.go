package view

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-jsonapi/pkg/config"
	"github.com/goliatone/go-jsonapi/pkg/encoder"
	"github.com/goliatone/go-jsonapi/pkg/render"
	"github.com/goliatone/go-jsonapi/pkg/schema"
)

const (
	// Name is the renderer name the view registers under.
	Name = "jsonapi"
	// ContentType is the media type of every rendered document.
	ContentType = "application/vnd.api+json"
)

// Deprecation describes a deprecated usage detected while rendering.
type Deprecation struct {
	Variable string
	Message  string
}

// DeprecationHandler receives deprecation notices. It must not block.
type DeprecationHandler func(Deprecation)

// Option customises the view configuration.
type Option func(*View)

// WithCatalog sets the catalog entity names are resolved against.
func WithCatalog(catalog *schema.Catalog) Option {
	return func(v *View) {
		v.catalog = catalog
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(v *View) {
		v.logger = logger
	}
}

// WithConfig applies process-wide settings: debug mode, the fallback URL
// prefix, and the default encode flags.
func WithConfig(cfg config.Config) Option {
	return func(v *View) {
		v.debug = cfg.Debug
		v.urlPrefix = cfg.URLPrefix
		v.jsonOptions = nil
		if cfg.DefaultJSONOptions != nil {
			flags := encoder.Flags(*cfg.DefaultJSONOptions)
			v.jsonOptions = &flags
		}
	}
}

// WithDebug toggles pretty printed output.
func WithDebug(debug bool) Option {
	return func(v *View) {
		v.debug = debug
	}
}

// WithHelpers exposes helpers to every schema through schema.Context.
func WithHelpers(helpers schema.Helpers) Option {
	return func(v *View) {
		v.helpers = helpers
	}
}

// WithSanitizePolicy sanitises string attributes of generic schemas with
// policy. Pass nil to disable.
func WithSanitizePolicy(policy *bluemonday.Policy) Option {
	return func(v *View) {
		if policy == nil {
			v.sanitize = nil
			return
		}
		v.sanitize = policy.Sanitize
	}
}

// WithDeprecationHandler registers a callback for deprecated usages.
func WithDeprecationHandler(handler DeprecationHandler) Option {
	return func(v *View) {
		v.onDeprecation = handler
	}
}

// View renders variable bags as JSON:API documents. A View holds no per-render
// state and is safe for concurrent use.
type View struct {
	catalog       *schema.Catalog
	logger        *zap.Logger
	debug         bool
	urlPrefix     string
	jsonOptions   *encoder.Flags
	helpers       schema.Helpers
	sanitize      func(string) string
	onDeprecation DeprecationHandler
}

var _ render.Renderer = (*View)(nil)

// New constructs a View. Without options it resolves entities against
// schema.Default() and does not log.
func New(options ...Option) *View {
	v := &View{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	v.applyDefaults()
	return v
}

func (v *View) applyDefaults() {
	if v.catalog == nil {
		v.catalog = schema.Default()
	}
	if v.logger == nil {
		v.logger = zap.NewNop()
	}
}

// Name implements render.Renderer.
func (v *View) Name() string {
	return Name
}

// ContentType implements render.Renderer.
func (v *View) ContentType() string {
	return ContentType
}

// Resolve reads the reserved variables of vars using the view's settings.
func (v *View) Resolve(vars Vars) (RenderConfig, error) {
	return ResolveConfig(vars, ResolveOptions{
		Debug:              v.debug,
		DefaultURLPrefix:   v.urlPrefix,
		DefaultJSONOptions: v.jsonOptions,
	})
}

// Render serializes vars as a JSON:API document. vars may be a Vars or a
// plain map. On error no output is returned.
func (v *View) Render(ctx context.Context, vars map[string]any) (string, error) {
	if ctx == nil {
		return "", errors.New("view: context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	bag := Vars(vars)
	cfg, err := v.Resolve(bag)
	if err != nil {
		return "", err
	}

	schemas, err := schema.Resolve(v.catalog, cfg.Entities, schema.Context{
		Helpers:  v.helpers,
		Sanitize: v.sanitize,
	})
	if err != nil {
		return "", fmt.Errorf("view: resolve schemas: %w", err)
	}

	enc := encoder.New(schemas).WithEncodeOptions(cfg.EncodeFlags)
	if cfg.URLPrefix != "" {
		enc.WithURLPrefix(cfg.URLPrefix)
	}
	if len(cfg.Links) > 0 {
		enc.WithLinks(cfg.Links)
	}

	data := v.selectData(cfg.Selector, bag)
	empty := isEmptyData(data)

	v.logger.Debug("rendering jsonapi document",
		zap.Strings("entities", cfg.Entities.Names()),
		zap.Stringer("selector", cfg.Selector.Kind),
		zap.Bool("has_data", !empty),
		zap.Bool("has_meta", cfg.HasMeta),
		zap.Int("flags", int(cfg.EncodeFlags)),
	)

	if cfg.HasMeta {
		if empty {
			out, err := enc.EncodeMeta(cfg.Meta)
			if err != nil {
				return "", fmt.Errorf("view: encode meta document: %w", err)
			}
			return out, nil
		}
		enc.WithMeta(cfg.Meta)
	}
	if len(cfg.Fieldsets) > 0 {
		enc.WithFieldsets(cfg.Fieldsets)
	}
	if len(cfg.IncludePaths) > 0 {
		enc.WithIncludedPaths(cfg.IncludePaths)
	}

	out, err := enc.EncodeData(data)
	if err != nil {
		return "", fmt.Errorf("view: encode document: %w", err)
	}
	return out, nil
}

func (v *View) selectData(selector Selector, vars Vars) any {
	data, ambiguous := selector.Resolve(vars)
	if ambiguous {
		keys := vars.DataKeys()
		v.logger.Warn("several data entries available, serializing the first in key order",
			zap.String("selected", keys[0]),
			zap.Strings("candidates", keys),
		)
	}
	if selector.Kind == SelectValue {
		v.deprecated(Deprecation{
			Variable: VarSerialize,
			Message:  "assigning data to _serialize is deprecated, store it under its own key and set _serialize to true",
		})
	}
	return data
}

func (v *View) deprecated(notice Deprecation) {
	v.logger.Warn(notice.Message, zap.String("variable", notice.Variable))
	if v.onDeprecation != nil {
		v.onDeprecation(notice)
	}
}

// isEmptyData reports whether data counts as "no data" for the meta-only
// document: nil, a nil pointer/interface/map/slice, an empty
// collection, or an empty string.
func isEmptyData(data any) bool {
	if data == nil {
		return true
	}
	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	case reflect.Map, reflect.Slice:
		return rv.IsNil() || rv.Len() == 0
	case reflect.Array, reflect.String:
		return rv.Len() == 0
	}
	return false
}

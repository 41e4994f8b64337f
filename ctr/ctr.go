/* ctr/ctr.go */

// Package ctr assembles compile-time extracted skeletons and the RPC hash
// map into a runtime HTTP router: it serves the manifest, dispatches RPC
// and batch calls, streams subscriptions over SSE, and renders pages by
// fanning loaders out concurrently and injecting their results into the
// page's template.
package ctr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/loomctr/loomctr/rpchash"
)

// Error is a typed RPC/page error with a machine-readable code.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func defaultStatus(code string) int {
	switch code {
	case "VALIDATION_ERROR":
		return http.StatusBadRequest
	case "UNAUTHORIZED":
		return http.StatusUnauthorized
	case "FORBIDDEN":
		return http.StatusForbidden
	case "NOT_FOUND":
		return http.StatusNotFound
	case "RATE_LIMITED":
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func errorHTTPStatus(e *Error) int {
	if e.Status != 0 {
		return e.Status
	}
	return defaultStatus(e.Code)
}

// NewError creates an Error with an explicit HTTP status.
func NewError(code, message string, status int) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

func ValidationError(msg string) *Error { return &Error{Code: "VALIDATION_ERROR", Message: msg, Status: http.StatusBadRequest} }
func NotFoundError(msg string) *Error   { return &Error{Code: "NOT_FOUND", Message: msg, Status: http.StatusNotFound} }
func InternalError(msg string) *Error   { return &Error{Code: "INTERNAL_ERROR", Message: msg, Status: http.StatusInternalServerError} }
func UnauthorizedError(msg string) *Error { return &Error{Code: "UNAUTHORIZED", Message: msg, Status: http.StatusUnauthorized} }
func ForbiddenError(msg string) *Error    { return &Error{Code: "FORBIDDEN", Message: msg, Status: http.StatusForbidden} }
func RateLimitedError(msg string) *Error  { return &Error{Code: "RATE_LIMITED", Message: msg, Status: http.StatusTooManyRequests} }

type ctxKey struct{}

// RequestCtx carries request-scoped state (currently just the resolved
// locale) through context.Context into loader/procedure handlers.
type RequestCtx struct {
	Locale string
}

// FromContext extracts RequestCtx from a context, returning a zero value
// when none was set (e.g. a request with no active i18n config).
func FromContext(ctx context.Context) *RequestCtx {
	if v, ok := ctx.Value(ctxKey{}).(*RequestCtx); ok {
		return v
	}
	return &RequestCtx{}
}

// HandlerFunc processes a raw JSON input and returns a result or error.
type HandlerFunc func(ctx context.Context, input json.RawMessage) (any, error)

// ProcedureDef defines a single RPC procedure.
type ProcedureDef struct {
	Name         string
	InputSchema  any
	OutputSchema any
	Handler      HandlerFunc
}

// SubscriptionEvent carries either a value or an error from a subscription stream.
type SubscriptionEvent struct {
	Value any
	Err   *Error
}

// SubscriptionHandlerFunc creates a channel-based event stream from raw JSON input.
type SubscriptionHandlerFunc func(ctx context.Context, input json.RawMessage) (<-chan SubscriptionEvent, error)

// SubscriptionDef defines a streaming subscription.
type SubscriptionDef struct {
	Name         string
	InputSchema  any
	OutputSchema any
	Handler      SubscriptionHandlerFunc
}

// LoaderDef binds a data key to a procedure call with route-param-derived input.
type LoaderDef struct {
	DataKey   string
	Procedure string
	InputFn   func(params map[string]string) any
}

// LayoutChainEntry represents one layout in the chain (outer to inner order).
type LayoutChainEntry struct {
	ID         string
	LoaderKeys []string
}

// PageDef defines a server-rendered page with loaders that fetch data
// before template injection.
type PageDef struct {
	Route           string
	Template        string
	LocaleTemplates map[string]string
	Loaders         []LoaderDef
	DataID          string
	LayoutID        string
	LayoutChain     []LayoutChainEntry
	PageLoaderKeys  []string
	I18nKeys        []string
}

// I18nConfig holds runtime i18n state loaded from build output.
type I18nConfig struct {
	Locales  []string
	Default  string
	RouteHashes map[string]string
	Versions map[string]string
}

// HandlerOptions configures timeout behavior for the generated handler.
type HandlerOptions struct {
	RPCTimeout     time.Duration
	PageTimeout    time.Duration
	SSEIdleTimeout time.Duration
	Logger         *zap.Logger
}

var defaultHandlerOptions = HandlerOptions{
	RPCTimeout:     30 * time.Second,
	PageTimeout:    30 * time.Second,
	SSEIdleTimeout: 30 * time.Second,
}

// Router collects procedure, subscription, and page definitions and
// produces an http.Handler serving the protocol's well-known routes.
type Router struct {
	procedures    []ProcedureDef
	subscriptions []SubscriptionDef
	pages         []PageDef
	rpcHashMap    *rpchash.Map
	i18n          *i18nRuntime
	logger        *zap.Logger
}

func NewRouter() *Router {
	return &Router{logger: zap.NewNop()}
}

func (r *Router) Procedure(def ProcedureDef) *Router {
	r.procedures = append(r.procedures, def)
	return r
}

func (r *Router) Subscription(def SubscriptionDef) *Router {
	r.subscriptions = append(r.subscriptions, def)
	return r
}

func (r *Router) Page(def PageDef) *Router {
	r.pages = append(r.pages, def)
	return r
}

func (r *Router) RpcHashMap(m *rpchash.Map) *Router {
	r.rpcHashMap = m
	return r
}

// WithLogger attaches a structured logger for the router's internal
// errors. A nil logger is treated as a no-op.
func (r *Router) WithLogger(l *zap.Logger) *Router {
	if l == nil {
		l = zap.NewNop()
	}
	r.logger = l
	return r
}

// Handler returns an http.Handler serving all registered routes. Called
// with no arguments, default 30s timeouts apply to RPC/page/SSE-idle.
func (r *Router) Handler(opts ...HandlerOptions) http.Handler {
	o := defaultHandlerOptions
	if len(opts) > 0 {
		o = opts[0]
		if o.Logger == nil {
			o.Logger = r.logger
		}
	} else {
		o.Logger = r.logger
	}
	return buildHandler(r.procedures, r.subscriptions, r.pages, r.rpcHashMap, r.i18n, o)
}

package shortener

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/httpx"
)

// ShortenRequest is the JSON body of POST /shorten.
type ShortenRequest struct {
	OriginalURL string `json:"original_url"`
	CustomAlias string `json:"custom_alias,omitempty"`
}

// ShortenResponse is the JSON body of a successful POST /shorten.
type ShortenResponse struct {
	ShortCode string `json:"short_code"`
	ShortURL  string `json:"short_url"`
	Message   string `json:"message"`
}

// StatsResponse is the JSON body of GET /api/links/{code}.
type StatsResponse struct {
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	ClickCount  int64  `json:"click_count"`
	CreatedAt   string `json:"created_at"`
}

type allocator interface {
	Allocate(ctx context.Context, req AllocateRequest) (ShortLink, error)
}

type resolver interface {
	Resolve(ctx context.Context, code string) (RedirectTarget, error)
	Lookup(ctx context.Context, code string) (ShortLink, error)
}

// Handler serves the shortening, redirect and stats endpoints.
type Handler struct {
	allocator allocator
	resolver  resolver
	logger    *slog.Logger
	baseURL   string
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Allocator allocator
	Resolver  resolver
	Logger    *slog.Logger
	BaseURL   string // e.g. "https://sho.rt"; short URLs are BaseURL + "/r/" + code
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		allocator: cfg.Allocator,
		resolver:  cfg.Resolver,
		logger:    logger,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Shorten handles POST /shorten.
func (h *Handler) Shorten(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[ShortenRequest](r)
	if err != nil {
		status := httpx.DecodeStatus(err)
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error(), "status", status)
		httpx.WriteError(w, status, decodeErrorCode(status), err.Error(), nil)
		return
	}

	if req.OriginalURL == "" {
		logger.WarnContext(ctx, "missing original_url")
		httpx.WriteError(w, http.StatusBadRequest, "missing_url", "Missing original_url", nil)
		return
	}

	link, err := h.allocator.Allocate(ctx, AllocateRequest{
		TargetURL: req.OriginalURL,
		Alias:     req.CustomAlias,
	})
	if err != nil {
		h.handleShortenError(ctx, w, err, req)
		return
	}

	logger.InfoContext(ctx, "short link created",
		"link_id", link.ID.String(),
		"code", link.Code,
		"custom_alias", req.CustomAlias != "",
	)

	httpx.WriteJSON(w, http.StatusCreated, ShortenResponse{
		ShortCode: link.Code,
		ShortURL:  h.shortURL(link.Code),
		Message:   "URL shortened successfully",
	})
}

// Redirect handles GET /r/{code}. Every successful hit counts one click and
// answers with a permanent redirect.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := r.PathValue("code")

	target, err := h.resolver.Resolve(ctx, code)
	if err != nil {
		h.handleLookupError(ctx, w, err, code)
		return
	}

	h.requestLogger(r).DebugContext(ctx, "short link resolved",
		"code", code,
		"target_url", target.URL,
		"referer", r.Referer(),
	)

	http.Redirect(w, r, target.URL, target.Status)
}

// Stats handles GET /api/links/{code}.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := r.PathValue("code")

	link, err := h.resolver.Lookup(ctx, code)
	if err != nil {
		h.handleLookupError(ctx, w, err, code)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, StatsResponse{
		ShortCode:   link.Code,
		OriginalURL: link.TargetURL,
		ClickCount:  link.ClickCount,
		CreatedAt:   link.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleShortenError(ctx context.Context, w http.ResponseWriter, err error, req ShortenRequest) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
		"custom_alias", req.CustomAlias,
	}

	switch kind {
	case errx.Invalid:
		h.logger.WarnContext(ctx, "invalid shorten request", logAttrs...)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", validationMessage(err), nil)

	case errx.Conflict:
		h.logger.WarnContext(ctx, "alias taken", logAttrs...)
		httpx.WriteError(w, http.StatusConflict, "alias_taken",
			"Custom alias already taken",
			map[string]string{
				"hint": "Try a different alias or omit it to get a generated code",
			})

	case errx.Exhausted:
		h.logger.ErrorContext(ctx, "code generation exhausted", logAttrs...)
		httpx.Report(ctx, err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorKindToCode(kind),
			"Failed to generate unique code. Please try again.", nil)

	default:
		h.logger.ErrorContext(ctx, "failed to create short link", logAttrs...)
		httpx.Report(ctx, err)
		httpx.WriteError(w, httpx.ErrorKindToStatus(kind), httpx.ErrorKindToCode(kind),
			"Unable to create short link at this time. Please try again.", nil)
	}
}

func (h *Handler) handleLookupError(ctx context.Context, w http.ResponseWriter, err error, code string) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
		"code", code,
	}

	if kind == errx.NotFound {
		h.logger.InfoContext(ctx, "short link not found", logAttrs...)
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Short URL not found", nil)
		return
	}

	h.logger.ErrorContext(ctx, "failed to resolve short link", logAttrs...)
	if httpx.IsServerKind(kind) {
		httpx.Report(ctx, err)
	}
	httpx.WriteError(w, httpx.ErrorKindToStatus(kind), httpx.ErrorKindToCode(kind),
		"Unable to resolve this link at this time", nil)
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

func (h *Handler) shortURL(code string) string {
	return h.baseURL + "/r/" + code
}

func decodeErrorCode(status int) string {
	switch status {
	case http.StatusRequestEntityTooLarge:
		return "request_too_large"
	case http.StatusUnsupportedMediaType:
		return "unsupported_media_type"
	default:
		return "invalid_request"
	}
}

// validationMessage returns the message of the innermost error, which for
// validation failures is the rule that was broken.
func validationMessage(err error) string {
	for {
		var e *errx.Error
		if !errors.As(err, &e) || e.Err == nil {
			break
		}
		err = e.Err
	}
	if err == nil {
		return "invalid input"
	}
	return err.Error()
}

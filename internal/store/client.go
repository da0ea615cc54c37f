package store

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/manchete-hq/manchete-harvester/internal/domain"
	"github.com/manchete-hq/manchete-harvester/internal/logger"
)

const (
	requestTimeout = 15 * time.Second

	// The store login response carries no explicit expiry; tokens are
	// rotated on this fixed horizon instead.
	tokenTTL = 12 * time.Hour

	// FieldOriginalURL and FieldSlug are the record fields the store
	// supports equality filters on.
	FieldOriginalURL = "originalUrl"
	FieldSlug        = "slug"
)

// Client talks to the content store CRUD API: credential login,
// filtered count queries, and record creation.
type Client struct {
	base   string
	http   *resty.Client
	tokens *TokenManager
	log    logger.Logger
}

// NewClient builds a store client for the given API base URL and login
// credential.
func NewClient(baseURL, identifier, password string, log logger.Logger) *Client {
	c := &Client{
		base: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: resty.New().SetTimeout(requestTimeout),
		log:  logger.Ensure(log),
	}
	c.tokens = NewTokenManager(func(ctx context.Context) (string, time.Time, error) {
		return c.exchangeCredential(ctx, identifier, password)
	})
	return c
}

// loginResponse is the credential exchange result.
type loginResponse struct {
	JWT string `json:"jwt"`
}

// exchangeCredential performs the login call and derives the token
// expiry.
func (c *Client) exchangeCredential(ctx context.Context, identifier, password string) (string, time.Time, error) {
	var out loginResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"identifier": identifier, "password": password}).
		SetResult(&out).
		ForceContentType("application/json").
		Post(c.base + "/api/auth/local")
	if err != nil {
		return "", time.Time{}, fmt.Errorf("store login: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("store login returned status %d", resp.StatusCode())
	}
	if out.JWT == "" {
		return "", time.Time{}, fmt.Errorf("store login returned no token")
	}

	c.log.DebugObj("store token refreshed", "store_login", map[string]any{
		"valid_until": time.Now().Add(tokenTTL).Format(time.RFC3339),
	})
	return out.JWT, time.Now().Add(tokenTTL), nil
}

// countResponse is the shape of a filtered count query result.
type countResponse struct {
	Meta struct {
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

// CountByField returns how many records hold the exact value in the
// given filterable field.
func (c *Client) CountByField(ctx context.Context, field, value string) (int, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, fmt.Errorf("store token: %w", err)
	}

	var out countResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam(fmt.Sprintf("filters[%s][$eq]", field), value).
		SetQueryParam("pagination[pageSize]", "1").
		SetResult(&out).
		ForceContentType("application/json").
		Get(c.base + "/api/articles")
	if err != nil {
		return 0, fmt.Errorf("store query by %s: %w", field, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		c.tokens.Invalidate()
		return 0, fmt.Errorf("store query by %s: unauthorized", field)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("store query by %s returned status %d", field, resp.StatusCode())
	}

	return out.Meta.Pagination.Total, nil
}

// createResponse is the shape of a successful create result.
type createResponse struct {
	Data struct {
		ID int `json:"id"`
	} `json:"data"`
}

// createErrorResponse is the structured error the store returns on a
// rejected create.
type createErrorResponse struct {
	Error struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

// Create inserts one record and returns its generated identifier. A
// uniqueness-constraint rejection comes back as domain.ErrDuplicate so
// concurrent-insert races resolve quietly.
func (c *Client) Create(ctx context.Context, rec domain.PublishedRecord) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	var out createResponse
	var storeErr createErrorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(map[string]any{"data": rec}).
		SetResult(&out).
		SetError(&storeErr).
		ForceContentType("application/json").
		Post(c.base + "/api/articles")
	if err != nil {
		return "", fmt.Errorf("store create: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK || resp.StatusCode() == http.StatusCreated:
		return fmt.Sprintf("%d", out.Data.ID), nil
	case resp.StatusCode() == http.StatusBadRequest && isUniqueViolation(storeErr):
		return "", domain.ErrDuplicate
	case resp.StatusCode() == http.StatusUnauthorized:
		c.tokens.Invalidate()
		return "", fmt.Errorf("store create: unauthorized")
	default:
		return "", fmt.Errorf("store create returned status %d: %s", resp.StatusCode(), storeErr.Error.Message)
	}
}

// isUniqueViolation recognizes the store's duplicate-constraint error.
func isUniqueViolation(e createErrorResponse) bool {
	msg := strings.ToLower(e.Error.Message)
	return strings.Contains(msg, "unique") || strings.Contains(msg, "already taken")
}

// Package supabase implements the store contract against a hosted Supabase
// project through its PostgREST API. It is a thin row-CRUD client: filters
// and ordering travel in the query string, rows as JSON bodies.
package supabase

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tradeflow/internal/config"
	"tradeflow/internal/models"
	"tradeflow/internal/store"
)

const restPath = "/rest/v1"

// Client is a rate-limited PostgREST client implementing store.Store.
type Client struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure Client implements the interface
var _ store.Store = (*Client)(nil)

// NewClient creates a new Supabase store client. The anon key is sent both
// as the apikey header and as the bearer token, as PostgREST expects.
func NewClient(cfg *config.Supabase, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.URL+restPath).
		SetHeader("apikey", cfg.Key).
		SetHeader("Authorization", "Bearer "+cfg.Key).
		SetHeader("Content-Type", "application/json")

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		logger:  logger,
		limiter: limiter,
	}
}

// doRequest executes the request with rate limiting and bounded retries on
// throttling and server errors. Anything that never reached the backend is
// reported as store.ErrUnavailable so read paths can degrade gracefully.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing store request", zap.String("method", method), zap.String("url", url))
		resp, err = req.SetContext(ctx).Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		shouldRetry := false
		var retryAfter time.Duration

		if err != nil {
			// Network or other client-side errors
			shouldRetry = true
		} else {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, err := strconv.Atoi(resp.Header().Get("Retry-After")); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
		}

		if !shouldRetry {
			return resp, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		if retryAfter == 0 {
			// Exponential backoff: 1s, 2s, 4s
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("Store request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return resp, fmt.Errorf("%w: request failed after %d attempts with status %s",
		store.ErrUnavailable, maxRetries, resp.Status())
}

// Ping checks that the trades table is reachable with the configured keys.
func (c *Client) Ping(ctx context.Context) error {
	req := c.client.R().
		SetQueryParam("select", "id").
		SetQueryParam("limit", "1")

	if _, err := c.doRequest(ctx, http.MethodGet, "/trades", req); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// CreateUser inserts a new account row. A unique-constraint conflict on the
// email column surfaces as store.ErrDuplicateEmail.
func (c *Client) CreateUser(ctx context.Context, user *models.User) error {
	var created []models.User
	req := c.client.R().
		SetHeader("Prefer", "return=representation").
		SetBody(user).
		SetResult(&created)

	resp, err := c.doRequest(ctx, http.MethodPost, "/users", req)
	if err != nil {
		if resp != nil && resp.StatusCode() == http.StatusConflict {
			return store.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if len(created) > 0 {
		user.ID = created[0].ID
	}
	return nil
}

// UserByEmail fetches an account by its unique email.
func (c *Client) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var users []models.User
	req := c.client.R().
		SetQueryParam("email", "eq."+email).
		SetQueryParam("limit", "1").
		SetResult(&users)

	if _, err := c.doRequest(ctx, http.MethodGet, "/users", req); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if len(users) == 0 {
		return nil, store.ErrNotFound
	}
	return &users[0], nil
}

// InsertTrade appends one closed trade to the owner's journal.
func (c *Client) InsertTrade(ctx context.Context, trade *models.Trade) error {
	var created []models.Trade
	req := c.client.R().
		SetHeader("Prefer", "return=representation").
		SetBody(trade).
		SetResult(&created)

	if _, err := c.doRequest(ctx, http.MethodPost, "/trades", req); err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}

	if len(created) > 0 {
		trade.ID = created[0].ID
	}
	return nil
}

// TradesByUser lists the owner's trades ordered by date, with the row id
// as the tiebreak so same-day trades keep insertion order.
func (c *Client) TradesByUser(ctx context.Context, email string, order store.Order) ([]models.Trade, error) {
	orderClause := "date.asc,id.asc"
	if order == store.Descending {
		orderClause = "date.desc,id.desc"
	}

	var trades []models.Trade
	req := c.client.R().
		SetQueryParam("user_email", "eq."+email).
		SetQueryParam("order", orderClause).
		SetResult(&trades)

	if _, err := c.doRequest(ctx, http.MethodGet, "/trades", req); err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// DeleteTradesByUser removes all of the owner's trades in one filtered
// DELETE instead of looping row by row.
func (c *Client) DeleteTradesByUser(ctx context.Context, email string) (int64, error) {
	var deleted []models.Trade
	req := c.client.R().
		SetHeader("Prefer", "return=representation").
		SetQueryParam("user_email", "eq."+email).
		SetResult(&deleted)

	if _, err := c.doRequest(ctx, http.MethodDelete, "/trades", req); err != nil {
		return 0, fmt.Errorf("failed to delete trades: %w", err)
	}
	return int64(len(deleted)), nil
}

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quizhub/internal/config"
	"quizhub/internal/domain"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// maxBatchDelete is the provider's limit on ids per batch delete call.
const maxBatchDelete = 1000

// APIError is a non-success response from the identity admin API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity admin API returned %d: %s", e.StatusCode, e.Body)
}

// AdminClient calls the identity provider's admin API. Requests are
// authenticated with OAuth2 client credentials and throttled locally.
type AdminClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAdminClient builds an admin client from the identity config. Without a
// token URL requests go out unauthenticated, which only local emulators accept.
func NewAdminClient(ctx context.Context, cfg config.IdentityConfig) *AdminClient {
	httpClient := &http.Client{Timeout: 15 * time.Second}
	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		httpClient = cc.Client(ctx)
		httpClient.Timeout = 15 * time.Second
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	return &AdminClient{
		baseURL:    strings.TrimRight(cfg.AdminBaseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)+1),
	}
}

func (c *AdminClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("identity admin rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity admin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrIdentityAccountNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode identity admin response: %w", err)
	}
	return nil
}

// DeleteAccount removes one provider account. A missing account yields domain.ErrIdentityAccountNotFound.
func (c *AdminClient) DeleteAccount(ctx context.Context, authID string) error {
	return c.do(ctx, http.MethodDelete, "/accounts/"+url.PathEscape(authID), nil, nil)
}

type batchDeleteRequest struct {
	IDs []string `json:"ids"`
}

// DeleteAccounts removes accounts in batches of at most maxBatchDelete.
func (c *AdminClient) DeleteAccounts(ctx context.Context, authIDs []string) error {
	for start := 0; start < len(authIDs); start += maxBatchDelete {
		end := start + maxBatchDelete
		if end > len(authIDs) {
			end = len(authIDs)
		}
		if err := c.do(ctx, http.MethodPost, "/accounts:batchDelete", batchDeleteRequest{IDs: authIDs[start:end]}, nil); err != nil {
			return err
		}
	}
	return nil
}

type listAccountsResponse struct {
	Accounts []struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"accounts"`
	NextPageToken string `json:"nextPageToken"`
}

// ListAccounts fetches one page of accounts.
func (c *AdminClient) ListAccounts(ctx context.Context, pageSize int, pageToken string) (*domain.IdentityAccountPage, error) {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(pageSize))
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	var resp listAccountsResponse
	if err := c.do(ctx, http.MethodGet, "/accounts?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	page := &domain.IdentityAccountPage{
		Accounts:      make([]domain.IdentityAccount, 0, len(resp.Accounts)),
		NextPageToken: resp.NextPageToken,
	}
	for _, a := range resp.Accounts {
		page.Accounts = append(page.Accounts, domain.IdentityAccount{AuthID: a.ID, Email: a.Email})
	}
	return page, nil
}

// ListAllAccounts follows page tokens one page at a time until the listing is exhausted.
func ListAllAccounts(ctx context.Context, admin domain.IdentityAdmin, pageSize int) ([]domain.IdentityAccount, error) {
	return listFrom(ctx, admin, pageSize, "", nil)
}

func listFrom(ctx context.Context, admin domain.IdentityAdmin, pageSize int, pageToken string, acc []domain.IdentityAccount) ([]domain.IdentityAccount, error) {
	page, err := admin.ListAccounts(ctx, pageSize, pageToken)
	if err != nil {
		return nil, err
	}
	acc = append(acc, page.Accounts...)
	if page.NextPageToken == "" {
		return acc, nil
	}
	return listFrom(ctx, admin, pageSize, page.NextPageToken, acc)
}

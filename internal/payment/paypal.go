package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PayPal order statuses, per the REST checkout API.
const (
	StatusCreated   = "CREATED"
	StatusApproved  = "APPROVED"
	StatusCompleted = "COMPLETED"
)

// PayPalClient talks to the PayPal REST API. It caches the OAuth access
// token until shortly before expiry.
type PayPalClient struct {
	baseURL  string
	clientID string
	secret   string
	http     *http.Client
	log      *logrus.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewPayPalClient(baseURL, clientID, secret string, log *logrus.Logger) *PayPalClient {
	return &PayPalClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		clientID: clientID,
		secret:   secret,
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// ClientID is exposed so the storefront client can render the PayPal buttons.
func (c *PayPalClient) ClientID() string {
	return c.clientID
}

type remoteOrder struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	UpdateTime    string `json:"update_time"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
	Payer struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

// VerifyCapture looks up the remote order and confirms its capture completed.
// Any transport or provider failure maps to an ExternalDependency error so
// the caller leaves local state untouched.
func (c *PayPalClient) VerifyCapture(ctx context.Context, remoteOrderID string) (Receipt, error) {
	token, err := c.token(ctx)
	if err != nil {
		return Receipt{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/checkout/orders/"+url.PathEscape(remoteOrderID), nil)
	if err != nil {
		return Receipt{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("PayPal-Request-Id", uuid.NewString())

	res, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("remote_order_id", remoteOrderID).Warn("paypal order lookup failed")
		return Receipt{}, ErrUnavailable
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return Receipt{}, ErrUnknownRemote
	case res.StatusCode != http.StatusOK:
		c.log.WithField("status", res.StatusCode).Warn("paypal order lookup returned non-200")
		return Receipt{}, ErrUnavailable
	}

	var remote remoteOrder
	if err := json.NewDecoder(res.Body).Decode(&remote); err != nil {
		return Receipt{}, ErrUnavailable
	}
	if remote.Status != StatusCompleted {
		return Receipt{}, ErrNotCompleted
	}

	return Receipt{
		ID:           remote.ID,
		Status:       remote.Status,
		UpdateTime:   remote.UpdateTime,
		EmailAddress: remote.Payer.EmailAddress,
	}, nil
}

// token returns a cached OAuth token, fetching a fresh one when expired.
func (c *PayPalClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).Warn("paypal token request failed")
		return "", ErrUnavailable
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token request returned %d: %w", res.StatusCode, ErrUnavailable)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", ErrUnavailable
	}

	c.accessToken = body.AccessToken
	// refresh a minute early to avoid using a token mid-expiry; a provider
	// reporting a lifetime at or below the margin still gets a short cache
	// window instead of a refetch on every call
	ttl := time.Duration(body.ExpiresIn-60) * time.Second
	if ttl < time.Minute {
		ttl = time.Minute
	}
	c.tokenExpiry = time.Now().Add(ttl)
	return c.accessToken, nil
}

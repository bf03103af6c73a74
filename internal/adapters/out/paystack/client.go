// Package paystack is a payment gateway client for the Paystack transaction API.
// Amounts cross the wire in kobo; the rest of the system uses whole naira.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketplace/internal/core/ports"

	"github.com/pkg/errors"
)

const koboPerNaira = 100

type Client struct {
	baseURL     string
	secretKey   string
	callbackURL string
	httpc       *http.Client
}

var _ ports.PaymentGateway = (*Client)(nil)

func New(baseURL, secretKey, callbackURL string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		secretKey:   secretKey,
		callbackURL: callbackURL,
		httpc:       &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type initializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Metadata  struct {
		OrderID string `json:"order_id"`
	} `json:"metadata"`
}

func (c *Client) Initiate(ctx context.Context, req ports.PaymentRequest) (ports.PaymentSession, error) {
	body, err := json.Marshal(initializeRequest{
		Email:       req.Email,
		Amount:      req.Amount * koboPerNaira,
		Reference:   req.Reference,
		CallbackURL: c.callbackURL,
		Metadata:    map[string]string{"order_id": req.OrderID.String()},
	})
	if err != nil {
		return ports.PaymentSession{}, errors.Wrap(err, "encode initialize request")
	}

	var out envelope[initializeData]
	if err = c.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body), &out); err != nil {
		return ports.PaymentSession{}, err
	}
	if !out.Status || out.Data.AuthorizationURL == "" {
		return ports.PaymentSession{}, fmt.Errorf("paystack initialize rejected: %s", out.Message)
	}

	ref := out.Data.Reference
	if ref == "" {
		ref = req.Reference
	}
	return ports.PaymentSession{AuthorizationURL: out.Data.AuthorizationURL, Reference: ref}, nil
}

func (c *Client) Verify(ctx context.Context, reference string) (ports.PaymentVerification, error) {
	var out envelope[verifyData]
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &out); err != nil {
		return ports.PaymentVerification{}, err
	}
	if !out.Status {
		return ports.PaymentVerification{}, fmt.Errorf("paystack verify rejected: %s", out.Message)
	}

	ref := out.Data.Reference
	if ref == "" {
		ref = reference
	}
	return ports.PaymentVerification{
		Reference: ref,
		OrderID:   out.Data.Metadata.OrderID,
		Amount:    out.Data.Amount / koboPerNaira,
		Paid:      out.Data.Status == "success",
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "new request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrap(err, "paystack request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("paystack http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode paystack response")
	}
	return nil
}

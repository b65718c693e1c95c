// Package payment is a client for the taxi fare payment gateway.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/go-resty/resty/v2"
)

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	Id       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type Client struct {
	http      *resty.Client
	keyId     string
	keySecret string
}

func New(cfg config.Payment) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(15*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: client, keyId: cfg.KeyID, keySecret: cfg.KeySecret}
}

// KeyId is the public key the client-side checkout needs.
func (c *Client) KeyId() string {
	return c.keyId
}

// CreateOrder registers an order for amount minor units.
func (c *Client) CreateOrder(amount int64, currency, receipt string) (domain.PaymentOrder, error) {
	var result orderResponse
	var failure errorResponse
	resp, err := c.http.R().
		SetBody(orderRequest{Amount: amount, Currency: currency, Receipt: receipt}).
		SetResult(&result).
		SetError(&failure).
		Post("/orders")
	if err != nil {
		logger.Log.Error("payment gateway call failed", "component", "payment", "error", err)
		return domain.PaymentOrder{}, fmt.Errorf("failed to call payment gateway: %w", err)
	}
	if resp.IsError() {
		logger.Log.Error("payment gateway rejected order",
			"component", "payment",
			"status_code", resp.StatusCode(),
			"code", failure.Error.Code,
			"description", failure.Error.Description)
		return domain.PaymentOrder{}, fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode(), failure.Error.Description)
	}
	if result.Id == "" {
		return domain.PaymentOrder{}, fmt.Errorf("payment gateway returned an order without id")
	}

	return domain.PaymentOrder{
		OrderId:  result.Id,
		Amount:   result.Amount,
		Currency: result.Currency,
		Receipt:  result.Receipt,
	}, nil
}

// VerifySignature checks the checkout signature: hex HMAC-SHA256 of
// "order_id|payment_id" keyed with the gateway secret.
func (c *Client) VerifySignature(orderId, paymentId, signature string) bool {
	expected := Sign(c.keySecret, orderId, paymentId)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func Sign(secret, orderId, paymentId string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderId + "|" + paymentId))
	return hex.EncodeToString(mac.Sum(nil))
}

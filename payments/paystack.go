package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const ChargeSuccess = "success"

// Gateway is the part of the payment provider the workflows depend on.
type Gateway interface {
	InitializeCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
	VerifyCharge(ctx context.Context, reference string) (*ChargeStatus, error)
	CreateTransferRecipient(ctx context.Context, req RecipientRequest) (string, error)
	InitiateTransfer(ctx context.Context, req TransferRequest) (*Transfer, error)
}

type ChargeRequest struct {
	Email       string
	Amount      float64
	Currency    string
	Reference   string
	CallbackURL string
	Metadata    map[string]string
}

type Charge struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type ChargeStatus struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	// GatewayResponse is the human readable reason from the provider.
	GatewayResponse string `json:"gateway_response"`
}

func (s *ChargeStatus) Succeeded() bool {
	return s.Status == ChargeSuccess
}

type RecipientRequest struct {
	Name          string
	AccountNumber string
	BankCode      string
	Currency      string
}

type TransferRequest struct {
	Amount    float64
	Recipient string
	Reference string
	Reason    string
	Currency  string
}

type Transfer struct {
	TransferCode string `json:"transfer_code"`
	Reference    string `json:"reference"`
	Status       string `json:"status"`
}

const (
	TransferStatusFailed   = "failed"
	TransferStatusReversed = "reversed"
)

// ErrTransferFailed is returned for transfers the provider accepted but
// immediately marked as failed.
var ErrTransferFailed = errors.New("transfer was rejected by the payment provider")

// Failed reports whether the provider acknowledged the transfer as dead on
// arrival.
func (t *Transfer) Failed() bool {
	return t.Status == TransferStatusFailed || t.Status == TransferStatusReversed
}

type Paystack struct {
	SecretKey  string
	BaseURL    string
	HTTPClient *http.Client
}

func NewPaystack(secretKey, baseURL string) *Paystack {
	return &Paystack{
		SecretKey: secretKey,
		BaseURL:   strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ToMinorUnit converts a major currency amount to kobo/cents.
func ToMinorUnit(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (p *Paystack) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("Paystack API error: Status %d, Body: %s", resp.StatusCode, string(raw))
		return fmt.Errorf("paystack returned status %d", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Status {
		if env.Message == "" {
			env.Message = fmt.Sprintf("paystack returned status %d", resp.StatusCode)
		}
		return errors.New(env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode paystack data: %w", err)
		}
	}
	return nil
}

func (p *Paystack) InitializeCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	payload := map[string]interface{}{
		"email":     req.Email,
		"amount":    ToMinorUnit(req.Amount),
		"currency":  req.Currency,
		"reference": req.Reference,
	}
	if req.CallbackURL != "" {
		payload["callback_url"] = req.CallbackURL
	}
	if len(req.Metadata) > 0 {
		payload["metadata"] = req.Metadata
	}

	var charge Charge
	if err := p.do(ctx, http.MethodPost, "/transaction/initialize", payload, &charge); err != nil {
		return nil, err
	}
	if charge.Reference == "" {
		charge.Reference = req.Reference
	}
	return &charge, nil
}

func (p *Paystack) VerifyCharge(ctx context.Context, reference string) (*ChargeStatus, error) {
	var status ChargeStatus
	if err := p.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (p *Paystack) CreateTransferRecipient(ctx context.Context, req RecipientRequest) (string, error) {
	payload := map[string]interface{}{
		"type":           "nuban",
		"name":           req.Name,
		"account_number": req.AccountNumber,
		"bank_code":      req.BankCode,
		"currency":       req.Currency,
	}

	var data struct {
		RecipientCode string `json:"recipient_code"`
	}
	if err := p.do(ctx, http.MethodPost, "/transferrecipient", payload, &data); err != nil {
		return "", err
	}
	if data.RecipientCode == "" {
		return "", errors.New("paystack returned no recipient code")
	}
	return data.RecipientCode, nil
}

func (p *Paystack) InitiateTransfer(ctx context.Context, req TransferRequest) (*Transfer, error) {
	payload := map[string]interface{}{
		"source":    "balance",
		"amount":    ToMinorUnit(req.Amount),
		"recipient": req.Recipient,
		"reference": req.Reference,
		"reason":    req.Reason,
	}
	if req.Currency != "" {
		payload["currency"] = req.Currency
	}

	var transfer Transfer
	if err := p.do(ctx, http.MethodPost, "/transfer", payload, &transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}

// VerifySignature checks the x-paystack-signature header, an HMAC-SHA512 of
// the raw body keyed with the secret key.
func VerifySignature(secretKey string, body []byte, signature string) bool {
	if secretKey == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(secretKey, body)), []byte(strings.ToLower(signature)))
}

func Sign(secretKey string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// WebhookEvent is the envelope Paystack posts to the webhook.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference     string `json:"reference"`
		Status        string `json:"status"`
		Amount        int64  `json:"amount"`
		TransferCode  string `json:"transfer_code"`
		Reason        string `json:"reason"`
		GatewayReason string `json:"gateway_response"`
	} `json:"data"`
}

const (
	EventChargeSuccess    = "charge.success"
	EventTransferSuccess  = "transfer.success"
	EventTransferFailed   = "transfer.failed"
	EventTransferReversed = "transfer.reversed"
)

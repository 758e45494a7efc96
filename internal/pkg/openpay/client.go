package openpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/xydatalabs/orderpay/internal/pkg/config"
)

const (
	SandboxBaseURL    = "https://sandbox-api.openpay.mx/v1"
	ProductionBaseURL = "https://api.openpay.mx/v1"
)

// Client talks to the OpenPay REST API. Credentials are fixed at construction.
type Client struct {
	MerchantID   string
	PrivateKey   string
	IsProduction bool
	APIBaseURL   string

	HTTPClient *http.Client
}

func NewClient(merchantID, privateKey string, isProduction bool) *Client {
	base := SandboxBaseURL
	if isProduction {
		base = ProductionBaseURL
	}
	return &Client{
		MerchantID:   merchantID,
		PrivateKey:   privateKey,
		IsProduction: isProduction,
		APIBaseURL:   base,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewClientFromConfig honours OPENPAY_API_BASE_URL when it is set.
func NewClientFromConfig(cfg *config.OpenPay) *Client {
	c := NewClient(cfg.MerchantID, cfg.PrivateKey, cfg.IsProduction)
	if base := strings.TrimSpace(cfg.APIBaseURL); base != "" {
		c.APIBaseURL = base
	}
	return c
}

func (c *Client) CreateCustomer(ctx context.Context, customer *Customer) (*Customer, error) {
	log.Infof("[OpenPay] creating customer with email: %s", customer.Email)

	var out Customer
	if err := c.post(ctx, "/customers", customer, &out); err != nil {
		log.Errorf("[OpenPay] failed to create customer with email %s: %v", customer.Email, err)
		return nil, err
	}

	log.Infof("[OpenPay] created customer with ID: %s", out.ID)
	return &out, nil
}

func (c *Client) CreateCardToken(ctx context.Context, card *Card) (*Card, error) {
	log.Infof("[OpenPay] creating card token for holder: %s", card.HolderName)

	var out Card
	if err := c.post(ctx, "/cards", card, &out); err != nil {
		log.Errorf("[OpenPay] failed to create card token for holder %s: %v", card.HolderName, err)
		return nil, err
	}

	log.Infof("[OpenPay] created card token with ID: %s", out.ID)
	return &out, nil
}

func (c *Client) CreateCharge(ctx context.Context, req *ChargeRequest) (*Charge, error) {
	log.Infof("[OpenPay] creating charge for amount: %s %s", req.Amount.StringFixed(2), req.Currency)

	var out Charge
	if err := c.post(ctx, "/charges", req, &out); err != nil {
		log.Errorf("[OpenPay] failed to create charge for amount %s %s: %v", req.Amount.StringFixed(2), req.Currency, err)
		return nil, err
	}

	log.Infof("[OpenPay] created charge with ID: %s (status=%s)", out.ID, out.Status)
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	if strings.TrimSpace(c.MerchantID) == "" || strings.TrimSpace(c.PrivateKey) == "" {
		return errors.New("OPENPAY_MERCHANT_ID/OPENPAY_PRIVATE_KEY are not configured")
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	endpoint := strings.TrimRight(c.APIBaseURL, "/") + "/" + c.MerchantID + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.PrivateKey, "")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, body)
	}

	return json.Unmarshal(body, out)
}

func decodeError(status int, body []byte) error {
	var apiErr Error
	if err := json.Unmarshal(body, &apiErr); err != nil || (apiErr.Description == "" && apiErr.ErrorCode == 0) {
		return fmt.Errorf("openpay request failed: status=%d body=%s", status, string(body))
	}
	if apiErr.HTTPCode == 0 {
		apiErr.HTTPCode = status
	}
	return &apiErr
}

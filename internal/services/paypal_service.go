package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const mockPaypalPrefix = "MOCK-"

// PaypalService talks to the PayPal Orders v2 REST API: create an order
// intent with amount and currency, then capture it by order id.
//
// When credentials are absent the service runs in mock mode, answering
// with synthetic completed responses so checkout works in development.
// Mock mode is refused outright in production.
type PaypalService struct {
	clientID string
	secret   string
	baseURL  string
	mock     bool

	httpClient *http.Client

	tokenMu     sync.RWMutex
	token       string
	tokenExpiry time.Time
}

// NewPaypalService wires the client. production guards the mock fallback:
// missing credentials are tolerated only outside production.
func NewPaypalService(clientID, secret, baseURL string, production bool) (*PaypalService, error) {
	mock := clientID == "" || secret == ""
	if mock && production {
		return nil, errors.New("paypal credentials are required in production")
	}
	if mock {
		log.Println("[Paypal] credentials not configured, using mock responses")
	}

	return &PaypalService{
		clientID:   clientID,
		secret:     secret,
		baseURL:    strings.TrimRight(baseURL, "/"),
		mock:       mock,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (s *PaypalService) accessToken() (string, error) {
	s.tokenMu.RLock()
	if s.token != "" && time.Now().Before(s.tokenExpiry) {
		t := s.token
		s.tokenMu.RUnlock()
		return t, nil
	}
	s.tokenMu.RUnlock()

	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()

	// Double-check after acquiring write lock.
	if s.token != "" && time.Now().Before(s.tokenExpiry) {
		return s.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("paypal token request build: %w", err)
	}
	req.SetBasicAuth(s.clientID, s.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("paypal token status %d: %s", resp.StatusCode, string(body))
	}

	var parsed paypalTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("paypal token decode: %w", err)
	}

	s.token = parsed.AccessToken
	s.tokenExpiry = time.Now().Add(time.Duration(parsed.ExpiresIn-60) * time.Second)
	return s.token, nil
}

func (s *PaypalService) doJSON(method, path string, payload any, out any) error {
	token, err := s.accessToken()
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("paypal %s %s status %d: %s", method, path, resp.StatusCode, string(raw))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

type paypalOrderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Links         []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CreatedOrder is the result of CreateOrder.
type CreatedOrder struct {
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	ApproveURL string `json:"approve_url"`
}

// CreateOrder opens a CAPTURE-intent PayPal order for the given amount.
func (s *PaypalService) CreateOrder(amount float64, currency string) (*CreatedOrder, error) {
	if currency == "" {
		currency = "EUR"
	}

	if s.mock {
		return &CreatedOrder{
			OrderID: mockPaypalPrefix + uuid.NewString(),
			Status:  "CREATED",
		}, nil
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"amount": map[string]string{
				"currency_code": currency,
				"value":         fmt.Sprintf("%.2f", amount),
			},
		}},
	}

	var resp paypalOrderResponse
	if err := s.doJSON(http.MethodPost, "/v2/checkout/orders", payload, &resp); err != nil {
		return nil, err
	}

	created := &CreatedOrder{OrderID: resp.ID, Status: resp.Status}
	for _, link := range resp.Links {
		if link.Rel == "approve" {
			created.ApproveURL = link.Href
		}
	}
	return created, nil
}

// CaptureOrder captures an approved PayPal order and returns the capture id.
func (s *PaypalService) CaptureOrder(orderID string) (string, string, error) {
	if s.mock {
		if !strings.HasPrefix(orderID, mockPaypalPrefix) {
			return "", "", errors.New("unknown mock paypal order")
		}
		return mockPaypalPrefix + "CAPTURE-" + uuid.NewString(), "COMPLETED", nil
	}

	var resp paypalOrderResponse
	if err := s.doJSON(http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture", nil, &resp); err != nil {
		return "", "", err
	}

	captureID := ""
	for _, unit := range resp.PurchaseUnits {
		for _, capture := range unit.Payments.Captures {
			captureID = capture.ID
		}
	}
	return captureID, resp.Status, nil
}

// VerifyCapture checks that a PayPal order has a completed capture. Order
// placement with paymentMethod=paypal goes through this server-side; the
// client's word is never trusted.
func (s *PaypalService) VerifyCapture(orderID string) (string, bool, error) {
	if s.mock {
		if strings.HasPrefix(orderID, mockPaypalPrefix) {
			return mockPaypalPrefix + "CAPTURE", true, nil
		}
		return "", false, nil
	}

	var resp paypalOrderResponse
	if err := s.doJSON(http.MethodGet, "/v2/checkout/orders/"+orderID, nil, &resp); err != nil {
		return "", false, err
	}

	for _, unit := range resp.PurchaseUnits {
		for _, capture := range unit.Payments.Captures {
			if capture.Status == "COMPLETED" {
				return capture.ID, true, nil
			}
		}
	}
	return "", resp.Status == "COMPLETED", nil
}

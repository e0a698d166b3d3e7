package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrGateway = errors.New("payment gateway")

type OrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

type Order struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type Razorpay struct {
	client *resty.Client
}

func NewRazorpay(baseURL, keyID, keySecret string) *Razorpay {
	c := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(keyID, keySecret).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Razorpay{client: c}
}

// CreateOrder calls the Orders API. Any non-200 answer is reported as ErrGateway.
func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	var order Order
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&order).
		Post("/v1/orders")
	if err != nil {
		return Order{}, fmt.Errorf("%w: request failed: %v", ErrGateway, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Order{}, fmt.Errorf("%w: status %d: %s", ErrGateway, resp.StatusCode(), string(resp.Body()))
	}
	if order.ID == "" {
		return Order{}, fmt.Errorf("%w: order id missing in response", ErrGateway)
	}
	return order, nil
}

package transport

import "github.com/Skotchmaster/storefront/internal/service"

type RegisterRequest struct {
	FullName string `json:"fullName" form:"fullName"`
	Email    string `json:"email"    form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Address  string `json:"address"  form:"address"`
	City     string `json:"city"     form:"city"`
	State    string `json:"state"    form:"state"`
	Pincode  string `json:"pincode"  form:"pincode"`
}

func (r RegisterRequest) Input(uniqueAddress bool) service.RegisterInput {
	return service.RegisterInput{
		FullName:      r.FullName,
		Email:         r.Email,
		Username:      r.Username,
		Password:      r.Password,
		Address:       r.Address,
		City:          r.City,
		State:         r.State,
		Pincode:       r.Pincode,
		UniqueAddress: uniqueAddress,
	}
}

type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CheckoutRequest struct {
	Items []service.LineItem `json:"items"`
}

type CheckoutResponse struct {
	ID string `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type FeedbackForm struct {
	Name    string `form:"feedback_name"`
	Email   string `form:"feedback_email"`
	Message string `form:"feedback_message"`
}

type ContactForm struct {
	Name    string `form:"contact_name"`
	Email   string `form:"contact_email"`
	Subject string `form:"contact_subject"`
	Message string `form:"contact_message"`
}

package dto

type CartItem struct {
	ID       string `json:"id"`
	Type     string `json:"type"` // program | coaching
	Quantity int    `json:"quantity"`
}

type CheckoutRequest struct {
	Items []*CartItem `json:"items"`
}

type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type NewsletterRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Booking struct {
	OrderID           string `json:"orderId"`
	OrderNumber       string `json:"orderNumber"`
	CoachingPackageID string `json:"coachingPackageId"`
	Name              string `json:"name"`
	Quantity          int    `json:"quantity"`
	PurchasedAt       string `json:"purchasedAt"`
}

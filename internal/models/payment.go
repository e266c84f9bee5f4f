package models

// UnlockStatus is the answer of payments/check-unlock/
type UnlockStatus struct {
	Unlocked bool `json:"unlocked"`
	Credits  int  `json:"credits"`
}

type UnlockRequest struct {
	Phone      string `json:"phone"`
	PropertyID int64  `json:"property_id"`
}

// Contact is the broker contact revealed by an unlock
type Contact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	WhatsAppLink string `json:"whatsapp_link"`
}

type UnlockResult struct {
	Message string   `json:"message"`
	Credits int      `json:"credits"`
	Contact *Contact `json:"contact"`
}

type OrderRequest struct {
	Phone  string `json:"phone"`
	Amount int    `json:"amount"`
}

// Order is a payment order created with the gateway
type Order struct {
	OrderID     string `json:"order_id"`
	AmountPaise int64  `json:"amount_paise"`
	Key         string `json:"key"`
}

// PaymentVerification carries the raw fields the checkout widget hands back
type PaymentVerification struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

type VerifyResult struct {
	Credits      int `json:"credits"`
	CreditsAdded int `json:"credits_added"`
}

type Wallet struct {
	Phone   string `json:"phone,omitempty"`
	Credits int    `json:"credits"`
}

package entities

// Client is the prospect/customer profile used to personalize documents.
type Client struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

// Project is owned by a single client user. The billing core only reads it.
//
// Amount is the deposit charged once the quote is signed.
type Project struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Client      Client  `json:"client"`
}

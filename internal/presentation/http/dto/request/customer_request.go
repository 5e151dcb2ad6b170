package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name           string `json:"name" binding:"required,max=100"`
	Email          string `json:"email" binding:"required,email,max=100"`
	Phone          string `json:"phone" binding:"max=20"`
	Address        string `json:"address" binding:"max=200"`
	DocumentType   string `json:"document_type" binding:"max=20"`
	DocumentNumber string `json:"document_number" binding:"max=20"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email          *string `json:"email" binding:"omitempty,email,max=100"`
	Phone          *string `json:"phone" binding:"omitempty,max=20"`
	Address        *string `json:"address" binding:"omitempty,max=200"`
	DocumentType   *string `json:"document_type" binding:"omitempty,max=20"`
	DocumentNumber *string `json:"document_number" binding:"omitempty,max=20"`
}

// CustomerFilterRequest represents customer filter parameters
type CustomerFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

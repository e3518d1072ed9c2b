package lead

// Request fields are pointers so an absent field reaches the database as NULL
// and is rejected there instead of being stored as an empty string.

// CreateLeadRequest represents a new lead
type CreateLeadRequest struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	Phone      *string `json:"phone"`
	Occupation *string `json:"occupation"`
	Status     *Status `json:"status"`
}

// UpdateStatusRequest represents a status change
type UpdateStatusRequest struct {
	Status *Status `json:"status"`
}

// EditLeadRequest replaces the contact details of a lead
type EditLeadRequest struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	Phone      *string `json:"phone"`
	Occupation *string `json:"occupation"`
}

// CreatedResponse is returned by POST /leads
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// MessageResponse is returned by the update endpoints
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error envelope
type ErrorResponse struct {
	Error string `json:"error"`
}

package note

// CreateNoteRequest represents a new note. The lead comes from the path.
type CreateNoteRequest struct {
	Content *string `json:"content"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

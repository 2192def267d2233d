package transport

import "time"

type AddNoteRequest struct {
	Author  string `json:"author,omitempty" validate:"max=80"`
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type NoteResponse struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"leadId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type NoteListResponse struct {
	Items []NoteResponse `json:"items"`
}

package model

import (
	"encoding/json"
)

// ProjectInput is the body for creating or updating a project.
type ProjectInput struct {
	Name         string        `json:"name" validate:"required"`
	Description  string        `json:"description,omitempty"`
	Status       ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=NEW IN_PROGRESS CLOSED"`
	StartDate    *Date         `json:"start_date,omitempty"`
	EndDate      *Date         `json:"end_date,omitempty"`
	Requirements []Requirement `json:"requirements,omitempty" validate:"dive"`
}

// AssignEngineerInput is the body of POST /project/:id/assign-engineer.
type AssignEngineerInput struct {
	UserID      ID     `json:"user_id" validate:"required"`
	Designation string `json:"designation,omitempty"`
	StartDate   *Date  `json:"start_date,omitempty"`
}

// NoteInput is the body for creating or updating a note.
type NoteInput struct {
	Content string `json:"content" validate:"required"`
}

// ChatRequest is the body of POST /chatbot.
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// ChatReply is the chatbot answer. The backend is opaque, so the reply text
// is taken from the first of reply, response, message or answer that is set.
type ChatReply struct {
	Reply string          `json:"reply"`
	Raw   json.RawMessage `json:"-"`
}

// UnmarshalJSON picks the reply text out of the known field names.
func (c *ChatReply) UnmarshalJSON(data []byte) error {
	var fields struct {
		Reply    string `json:"reply"`
		Response string `json:"response"`
		Message  string `json:"message"`
		Answer   string `json:"answer"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, v := range []string{fields.Reply, fields.Response, fields.Message, fields.Answer} {
		if v != "" {
			c.Reply = v
			break
		}
	}
	c.Raw = append(c.Raw[:0], data...)
	return nil
}

package booking

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Inquiry is a booking request sent from the public booking form.
type Inquiry struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone"`
	EventDate *time.Time `json:"event_date"`
	Venue     *string    `json:"venue"`
	City      *string    `json:"city"`
	Budget    *string    `json:"budget"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
}

// Validate returns the first missing or malformed field, or "".
func (i *Inquiry) Validate() string {
	switch {
	case strings.TrimSpace(i.Name) == "":
		return "name is required"
	case strings.TrimSpace(i.Email) == "":
		return "email is required"
	case strings.TrimSpace(i.Message) == "":
		return "message is required"
	}
	if _, err := mail.ParseAddress(i.Email); err != nil {
		return "email is not a valid address"
	}
	return ""
}

type Repository interface {
	Save(ctx context.Context, i *Inquiry) error
	List(ctx context.Context, limit, offset int) ([]*Inquiry, error)
}

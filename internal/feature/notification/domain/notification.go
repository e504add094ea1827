// Package domain defines the notification events emitted by other features.
package domain

import "heartlink/internal/domain/entity"

// Kind identifies which email a notification renders to.
type Kind string

const (
	KindVerification  Kind = "verification"
	KindPasswordReset Kind = "password_reset"
	KindLike          Kind = "like"
	KindMessage       Kind = "message"
)

// Sender is the public card of the user who triggered a like or message notification.
type Sender struct {
	ID             string
	Name           string
	Age            int
	Gender         string
	Bio            string
	Interests      []string
	ProfilePicture string
}

// SenderFrom builds a Sender from u without credentials or contact details.
func SenderFrom(u *entity.User) *Sender {
	return &Sender{
		ID:             u.ID,
		Name:           u.Name,
		Age:            u.Age,
		Gender:         string(u.Gender),
		Bio:            u.Bio,
		Interests:      u.Interests,
		ProfilePicture: u.ProfilePicture,
	}
}

// Notification is an email to deliver to a single recipient.
// Token is set for verification and reset emails; Sender for like and message emails.
type Notification struct {
	Kind   Kind
	To     string
	Token  string
	Sender *Sender
}

// Email is a rendered notification ready for a Mailer.
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

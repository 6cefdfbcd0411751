package services

import "errors"

// Domain errors surfaced by the messaging core. Routes map these onto HTTP
// statuses; nothing below ever partially applies before failing.
var (
	ErrInvalidMessage       = errors.New("invalid message payload")
	ErrInvalidAmount        = errors.New("offer amount must be a positive integer")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrIllegalTransition    = errors.New("offer is no longer pending")
	ErrConversationBlocked  = errors.New("conversation is blocked")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
)

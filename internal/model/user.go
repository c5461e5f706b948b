package model

// User is either Anonymous or Authenticated.
type User interface {
	isUser()
}

// Anonymous is a caller without a verified identity.
type Anonymous struct{}

// Authenticated is a caller whose token was verified by the identity provider's secret.
type Authenticated struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (Anonymous) isUser()     {}
func (Authenticated) isUser() {}

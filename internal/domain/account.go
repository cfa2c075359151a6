package domain

type AccountID string

// Account is a customer account the dashboard watches. The list is loaded
// once at startup and never changes for the lifetime of the process.
type Account struct {
	ID   AccountID
	Name string
}

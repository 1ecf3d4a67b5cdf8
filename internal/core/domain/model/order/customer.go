package order

import "strings"

// Customer is the snapshot of the buyer taken when the order was placed.
type Customer struct {
	firstName string
	lastName  string
	email     string
}

func NewCustomer(firstName, lastName, email string) Customer {
	return Customer{
		firstName: strings.TrimSpace(firstName),
		lastName:  strings.TrimSpace(lastName),
		email:     strings.TrimSpace(email),
	}
}

func (c Customer) FirstName() string {
	return c.firstName
}

func (c Customer) LastName() string {
	return c.lastName
}

func (c Customer) Email() string {
	return c.email
}

// FullName joins first and last name, skipping blanks.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.firstName + " " + c.lastName)
}

// DisplayName renders "First Last (email)", using "Sin email" when the
// address is missing.
func (c Customer) DisplayName() string {
	email := c.email
	if email == "" {
		email = "Sin email"
	}
	return strings.TrimSpace(c.FullName() + " (" + email + ")")
}

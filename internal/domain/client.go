package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

var (
	emailPattern      = regexp.MustCompile(`^[\w\-.]+@([\w\-]+\.)+[\w\-]{2,4}$`)
	phonePattern      = regexp.MustCompile(`^\d{10,11}$`)
	postalCodePattern = regexp.MustCompile(`^\d{5}-\d{3}$`)
)

type Client struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Address   *Address // optional, owned by the client
	AuthorID  uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Address has no lifecycle of its own; it is stored inline with its client.
type Address struct {
	Street     string
	City       string
	PostalCode string // empty means absent
}

// NewClient creates a new client with the contact fields set
func NewClient(name, email, phone string) *Client {
	now := time.Now()
	return &Client{
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Phone:     strings.TrimSpace(phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ValidateClient checks every field of a new client in a fixed order:
// name, email shape, phone, address. Email uniqueness is a storage concern
// and is checked by the client service between the email and phone checks.
func ValidateClient(c *Client) error {
	if c == nil {
		return errors.NewNotValid(nil, "client must not be nil")
	}
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}
	return ValidateContact(c)
}

// ValidateContact checks the mutable fields that follow the email check:
// phone and the optional address.
func ValidateContact(c *Client) error {
	if err := ValidatePhone(c.Phone); err != nil {
		return err
	}
	if c.Address != nil {
		return c.Address.Validate()
	}
	return nil
}

// ValidateName requires a non-blank client name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewNotValid(nil, "client name is required")
	}
	return nil
}

// ValidateEmail requires a non-blank address matching the accepted shape.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.NewNotValid(nil, "client email is required")
	}
	if !emailPattern.MatchString(email) {
		return errors.NotValidf("email %q", email)
	}
	return nil
}

// ValidatePhone requires 10 or 11 digits and nothing else.
func ValidatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return errors.NewNotValid(nil, "client phone is required")
	}
	if !phonePattern.MatchString(phone) {
		return errors.NewNotValid(nil, "phone must contain 10 or 11 digits")
	}
	return nil
}

// Validate returns an error if the address is incomplete or the postal code
// is malformed
func (a *Address) Validate() error {
	if strings.TrimSpace(a.Street) == "" {
		return errors.NewNotValid(nil, "address street is required")
	}
	if strings.TrimSpace(a.City) == "" {
		return errors.NewNotValid(nil, "address city is required")
	}
	if a.PostalCode != "" && !postalCodePattern.MatchString(a.PostalCode) {
		return errors.NotValidf("postal code %q", a.PostalCode)
	}
	return nil
}

// Package validation checks scenario records against the storefront's own
// form rules before a run starts.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const (
	DefaultEmailPattern      = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	DefaultMinPasswordLength = 6
	DefaultMaxPasswordLength = 32

	// first and last name bounds enforced by the registration form
	maxNameLength = 32
)

// Rules - field constraints
type Rules struct {
	EmailPattern      string
	MinPasswordLength int
	MaxPasswordLength int
}

func DefaultRules() Rules {
	return Rules{
		EmailPattern:      DefaultEmailPattern,
		MinPasswordLength: DefaultMinPasswordLength,
		MaxPasswordLength: DefaultMaxPasswordLength,
	}
}

type Validator struct {
	email  *regexp.Regexp
	rules  Rules
	logger logrus.FieldLogger
}

func NewValidator(rules Rules, logger logrus.FieldLogger) (*Validator, error) {
	email, err := regexp.Compile(rules.EmailPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid email pattern: %w", err)
	}
	if rules.MinPasswordLength > rules.MaxPasswordLength {
		return nil, fmt.Errorf("password length bounds %d..%d are inverted", rules.MinPasswordLength, rules.MaxPasswordLength)
	}
	return &Validator{email: email, rules: rules, logger: logger}, nil
}

// FieldError - one rejected field
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: field, Reason: "is required"}
	}
	return nil
}

func (v *Validator) checkEmail(field, value string) error {
	if err := required(field, value); err != nil {
		return err
	}
	if !v.email.MatchString(value) {
		return &FieldError{Field: field, Reason: fmt.Sprintf("%q is not a valid email address", value)}
	}
	return nil
}

func (v *Validator) checkPassword(field, value string) error {
	n := utf8.RuneCountInString(value)
	if n < v.rules.MinPasswordLength || n > v.rules.MaxPasswordLength {
		return &FieldError{Field: field, Reason: fmt.Sprintf("must be between %d and %d characters", v.rules.MinPasswordLength, v.rules.MaxPasswordLength)}
	}
	return nil
}

func checkName(field, value string) error {
	if err := required(field, value); err != nil {
		return err
	}
	if utf8.RuneCountInString(value) > maxNameLength {
		return &FieldError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", maxNameLength)}
	}
	return nil
}

// finish wraps the collected field errors so callers can tell data problems
// apart from page problems
func (v *Validator) finish(record string, err error) error {
	if err == nil {
		return nil
	}
	if v.logger != nil {
		v.logger.WithField("record", record).Debugf("Rejected %d field(s)", len(multierr.Errors(err)))
	}
	return fmt.Errorf("%w: %s: %w", entities.ErrInvalidData, record, err)
}

// ValidateCredentials - only presence is checked; wrong passwords are a valid
// negative case
func (v *Validator) ValidateCredentials(c entities.Credentials) error {
	err := multierr.Combine(
		required("login name", c.LoginName),
		required("password", c.Password),
	)
	return v.finish("credentials", err)
}

func (v *Validator) ValidateRegistration(r entities.Registration) error {
	err := multierr.Combine(
		checkName("first name", r.FirstName),
		checkName("last name", r.LastName),
		v.checkEmail("email", r.Email),
		required("address", r.Address),
		required("city", r.City),
		required("country", r.CountryID),
		required("zone", r.ZoneID),
		required("postcode", r.Postcode),
		required("login name", r.LoginName),
		v.checkPassword("password", r.Password),
	)
	return v.finish("registration", err)
}

// ValidateAccount - empty fields are left untouched by an update, so only
// the fields that are set are checked
func (v *Validator) ValidateAccount(d entities.AccountDetails) error {
	var err error
	if d == (entities.AccountDetails{}) {
		err = &FieldError{Field: "account details", Reason: "has no fields to update"}
	}
	if d.FirstName != "" {
		err = multierr.Append(err, checkName("first name", d.FirstName))
	}
	if d.LastName != "" {
		err = multierr.Append(err, checkName("last name", d.LastName))
	}
	if d.Email != "" {
		err = multierr.Append(err, v.checkEmail("email", d.Email))
	}
	return v.finish("account", err)
}

func (v *Validator) ValidatePasswordChange(p entities.PasswordChange) error {
	err := multierr.Combine(
		required("current password", p.Current),
		v.checkPassword("new password", p.New),
	)
	if p.New != p.Confirm {
		err = multierr.Append(err, &FieldError{Field: "confirm password", Reason: "does not match the new password"})
	}
	return v.finish("password change", err)
}

// Ensure Validator implements RecordValidator interface
var _ interfaces.RecordValidator = (*Validator)(nil)

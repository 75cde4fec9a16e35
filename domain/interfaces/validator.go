package interfaces

import "storefront_automation/domain/entities"

// RecordValidator checks scenario records before they are typed into a form.
// Failures wrap entities.ErrInvalidData.
type RecordValidator interface {
	ValidateCredentials(c entities.Credentials) error
	ValidateRegistration(r entities.Registration) error
	ValidateAccount(d entities.AccountDetails) error
	ValidatePasswordChange(p entities.PasswordChange) error
}

// DataGenerator produces values that have to differ between runs, e.g. the
// email of a new account
type DataGenerator interface {
	Email(prefix string) string
	LoginName(prefix string) string
}

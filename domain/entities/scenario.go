package entities

import "time"

// Credentials - login data record
type Credentials struct {
	LoginName string `json:"login_name" yaml:"login_name"`
	Password  string `json:"password" yaml:"password"`
}

// Registration - registration form data record
type Registration struct {
	FirstName  string `json:"firstname" yaml:"firstname"`
	LastName   string `json:"lastname" yaml:"lastname"`
	Email      string `json:"email" yaml:"email"`
	Telephone  string `json:"telephone,omitempty" yaml:"telephone,omitempty"`
	Fax        string `json:"fax,omitempty" yaml:"fax,omitempty"`
	Company    string `json:"company,omitempty" yaml:"company,omitempty"`
	Address    string `json:"address" yaml:"address"`
	City       string `json:"city" yaml:"city"`
	CountryID  string `json:"country_id" yaml:"country_id"`
	ZoneID     string `json:"zone_id" yaml:"zone_id"`
	Postcode   string `json:"postcode" yaml:"postcode"`
	LoginName  string `json:"loginname" yaml:"loginname"`
	Password   string `json:"password" yaml:"password"`
	Newsletter bool   `json:"newsletter,omitempty" yaml:"newsletter,omitempty"`
}

// AccountDetails - editable account information
type AccountDetails struct {
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Email     string `json:"email" yaml:"email"`
	Telephone string `json:"telephone,omitempty" yaml:"telephone,omitempty"`
	Company   string `json:"company,omitempty" yaml:"company,omitempty"`
}

// PasswordChange - change password form data
type PasswordChange struct {
	Current string `json:"current_password" yaml:"current_password"`
	New     string `json:"new_password" yaml:"new_password"`
	Confirm string `json:"confirm_password" yaml:"confirm_password"`
}

// RunStatus - outcome of one scenario run
type RunStatus string

const (
	RunStatusPassed RunStatus = "passed"
	RunStatusFailed RunStatus = "failed"
)

// FailureKind separates UI/environment problems from behavioural mismatches
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureEnvironment FailureKind = "environment"
	FailureBehaviour   FailureKind = "behaviour"
	FailureData        FailureKind = "data"
)

// RunResult - recorded outcome of a scenario run
type RunResult struct {
	ID          string        `json:"id"`
	Scenario    string        `json:"scenario"`
	DataKey     string        `json:"data_key,omitempty"`
	Status      RunStatus     `json:"status"`
	FailureKind FailureKind   `json:"failure_kind,omitempty"`
	Message     string        `json:"message,omitempty"`
	Screenshot  string        `json:"screenshot,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
}

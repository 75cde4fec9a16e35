package runner

import (
	"fmt"

	"storefront_automation/application/flows"
	"storefront_automation/application/page"
	"storefront_automation/application/pages"
	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"
)

// Session is what a scenario gets to work with during one run
type Session struct {
	Page      *page.BasePage
	BaseURL   string
	Data      interfaces.ScenarioStore
	Validator interfaces.RecordValidator
	Generator interfaces.DataGenerator
}

func (s *Session) LoginFlow() *flows.LoginFlow {
	return flows.NewLoginFlow(pages.NewLoginPage(s.Page, s.BaseURL))
}

func (s *Session) RegisterFlow() *flows.RegisterFlow {
	return flows.NewRegisterFlow(pages.NewRegisterPage(s.Page, s.BaseURL))
}

func (s *Session) AccountFlow() *flows.AccountFlow {
	return flows.NewAccountFlow(pages.NewAccountPage(s.Page, s.BaseURL))
}

// decode - loads the record at key into out
func (s *Session) decode(key string, out interface{}) error {
	if s.Data == nil {
		return fmt.Errorf("%w: no scenario data loaded", entities.ErrRecordNotFound)
	}
	return s.Data.Decode(key, out)
}

func (s *Session) validate(fn func(interfaces.RecordValidator) error) error {
	if s.Validator == nil {
		return nil
	}
	return fn(s.Validator)
}

// uniquify - fills the fields a new account needs to be unique with
// generated values when the record leaves them empty
func (s *Session) uniquify(r *entities.Registration) {
	if s.Generator == nil {
		return
	}
	if r.Email == "" {
		r.Email = s.Generator.Email("user")
	}
	if r.LoginName == "" {
		r.LoginName = s.Generator.LoginName("user")
	}
}

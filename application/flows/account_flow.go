package flows

import (
	"context"
	"errors"

	"storefront_automation/application/pages"
	"storefront_automation/domain/entities"
)

// UpdateResult - outcome of saving an account form
type UpdateResult struct {
	Success bool
	Message string
}

// AccountFlow drives the signed-in account area. It expects an
// authenticated session.
type AccountFlow struct {
	page *pages.AccountPage
}

func NewAccountFlow(p *pages.AccountPage) *AccountFlow {
	return &AccountFlow{page: p}
}

// DashboardSections - which dashboard links are present
func (f *AccountFlow) DashboardSections(ctx context.Context) (map[string]bool, error) {
	if err := f.page.Open(ctx); err != nil {
		return nil, err
	}
	if !f.page.IsDashboardDisplayed(ctx) {
		return nil, &entities.AssertionFailure{Subject: "account dashboard", Expected: "displayed", Actual: "not displayed"}
	}
	return f.page.Sections(ctx), nil
}

func (f *AccountFlow) openEditForm(ctx context.Context) error {
	if err := f.page.Open(ctx); err != nil {
		return err
	}
	if err := f.page.ClickEditAccountLink(ctx); err != nil {
		return err
	}
	if !f.page.IsInformationFormDisplayed(ctx) {
		return errors.New("account information form did not open")
	}
	return nil
}

// UpdateAccount - edits the account information and saves it
func (f *AccountFlow) UpdateAccount(ctx context.Context, details entities.AccountDetails) (UpdateResult, error) {
	if err := f.openEditForm(ctx); err != nil {
		return UpdateResult{}, err
	}
	if err := f.page.FillDetails(ctx, details); err != nil {
		return UpdateResult{}, err
	}
	if err := f.page.ClickSaveChanges(ctx); err != nil {
		return UpdateResult{}, err
	}
	return f.outcome(ctx), nil
}

// ReadAccount - the values currently stored in the account information form
func (f *AccountFlow) ReadAccount(ctx context.Context) (entities.AccountDetails, error) {
	if err := f.openEditForm(ctx); err != nil {
		return entities.AccountDetails{}, err
	}
	return f.page.ReadDetails(ctx)
}

// ChangePassword - submits the change password form
func (f *AccountFlow) ChangePassword(ctx context.Context, change entities.PasswordChange) (UpdateResult, error) {
	if err := f.page.Open(ctx); err != nil {
		return UpdateResult{}, err
	}
	if err := f.page.ClickChangePasswordLink(ctx); err != nil {
		return UpdateResult{}, err
	}
	if err := f.page.FillPasswordChange(ctx, change); err != nil {
		return UpdateResult{}, err
	}
	if err := f.page.ClickChangePasswordButton(ctx); err != nil {
		return UpdateResult{}, err
	}
	return f.outcome(ctx), nil
}

func (f *AccountFlow) outcome(ctx context.Context) UpdateResult {
	if msg := f.page.SuccessMessage(ctx); msg != "" {
		return UpdateResult{Success: true, Message: msg}
	}
	return UpdateResult{Message: f.page.ErrorMessage(ctx)}
}

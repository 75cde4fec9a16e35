// Package pages holds one page object per storefront screen: its locators and
// the thin actions tests and flows compose.
package pages

import "strings"

// Storefront routes, addressed as index.php?rt=<route>
const (
	RouteLogin           = "account/login"
	RouteRegister        = "account/create"
	RouteRegisterSuccess = "account/success"
	RouteAccount         = "account/account"
	RouteEditAccount     = "account/edit"
	RouteChangePassword  = "account/password"
	RouteLogout          = "account/logout"
)

// URL - absolute URL of route under baseURL
func URL(baseURL, route string) string {
	return strings.TrimRight(baseURL, "/") + "/index.php?rt=" + route
}

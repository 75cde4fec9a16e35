package config

import "strings"

// Environment - per-environment defaults. Explicit variables win over these.
type Environment struct {
	Name     string
	BaseURL  string
	Headless bool
	LogLevel string
}

const DefaultEnvironment = "dev"

var environments = map[string]Environment{
	"dev": {
		Name:     "dev",
		BaseURL:  "https://automationteststore.com",
		Headless: false,
		LogLevel: "debug",
	},
	"staging": {
		Name:     "staging",
		BaseURL:  "https://staging.automationteststore.com",
		Headless: true,
		LogLevel: "info",
	},
	"prod": {
		Name:     "prod",
		BaseURL:  "https://automationteststore.com",
		Headless: true,
		LogLevel: "info",
	},
}

// LookupEnvironment - the named environment, falling back to dev for unknown
// names. ok reports whether name was known.
func LookupEnvironment(name string) (env Environment, ok bool) {
	env, ok = environments[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return environments[DefaultEnvironment], false
	}
	return env, true
}

var ciVariables = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"JENKINS_HOME",
	"TRAVIS",
	"CIRCLECI",
}

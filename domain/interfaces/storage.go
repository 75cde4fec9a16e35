package interfaces

import "storefront_automation/domain/entities"

// ScenarioStore serves structured test data records loaded from fixture files
type ScenarioStore interface {
	// Decode unmarshals the record at key (dot path, e.g. "login.valid_user") into out
	Decode(key string, out interface{}) error

	// Record returns the flat field map stored at key
	Record(key string) (map[string]string, error)

	// Keys lists every record key as a dot path, sorted
	Keys() []string
}

// ResultStore keeps the history of scenario runs
type ResultStore interface {
	SaveResult(result entities.RunResult) error
	LoadHistory() ([]entities.RunResult, error)
}

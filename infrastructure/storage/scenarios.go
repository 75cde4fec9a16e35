package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// scenarioStore serves records from every .json, .yaml and .yml file in a
// directory. Each file becomes a top-level key named after the file, so
// login.json holding {"valid_user": {...}} is reached as "login.valid_user".
type scenarioStore struct {
	doc  []byte
	keys []string
}

// LoadScenarios - reads all data files under dir
func LoadScenarios(fs afero.Fs, dir string) (interfaces.ScenarioStore, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data dir %s: %w", dir, err)
	}

	files := map[string]json.RawMessage{}
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(info.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		name := strings.TrimSuffix(info.Name(), filepath.Ext(info.Name()))
		if _, dup := files[name]; dup {
			return nil, fmt.Errorf("%w: more than one data file named %s", entities.ErrInvalidData, name)
		}

		path := filepath.Join(dir, info.Name())
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		raw, err := toJSON(ext, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", entities.ErrInvalidData, path, err)
		}
		files[name] = raw
	}

	doc, err := json.Marshal(files)
	if err != nil {
		return nil, err
	}
	return &scenarioStore{doc: doc, keys: recordKeys(doc)}, nil
}

func toJSON(ext string, data []byte) (json.RawMessage, error) {
	if ext == ".json" {
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("malformed JSON")
		}
		return data, nil
	}
	var v map[string]interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// recordKeys - "file.record" for every object held by a file
func recordKeys(doc []byte) []string {
	var keys []string
	gjson.ParseBytes(doc).ForEach(func(file, records gjson.Result) bool {
		records.ForEach(func(name, rec gjson.Result) bool {
			if rec.IsObject() {
				keys = append(keys, file.String()+"."+name.String())
			}
			return true
		})
		return true
	})
	sort.Strings(keys)
	return keys
}

func (s *scenarioStore) lookup(key string) (gjson.Result, error) {
	res := gjson.GetBytes(s.doc, key)
	if !res.Exists() {
		return res, fmt.Errorf("%w: %s", entities.ErrRecordNotFound, key)
	}
	if !res.IsObject() {
		return res, fmt.Errorf("%w: %s is a %s, not a record", entities.ErrInvalidData, key, res.Type)
	}
	return res, nil
}

// Decode - unmarshals the record at key into out
func (s *scenarioStore) Decode(key string, out interface{}) error {
	res, err := s.lookup(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(res.Raw), out); err != nil {
		return fmt.Errorf("%w: %s: %v", entities.ErrInvalidData, key, err)
	}
	return nil
}

// Record - the scalar fields of the record at key as strings
func (s *scenarioStore) Record(key string) (map[string]string, error) {
	res, err := s.lookup(key)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	res.ForEach(func(k, v gjson.Result) bool {
		if !v.IsObject() && !v.IsArray() {
			out[k.String()] = v.String()
		}
		return true
	})
	return out, nil
}

func (s *scenarioStore) Keys() []string {
	return append([]string(nil), s.keys...)
}

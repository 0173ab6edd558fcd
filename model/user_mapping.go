// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package model

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// UserMapping maps source usernames onto target usernames. A missing entry
// is not an error: the target issue is left unassigned.
type UserMapping map[string]string

// LoadUserMapping reads a flat YAML mapping of `source_user: target_user`.
func LoadUserMapping(path string) (UserMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read user mapping file %s", path)
	}
	return UserMappingFromYAML(data)
}

func UserMappingFromYAML(data []byte) (UserMapping, error) {
	mapping := UserMapping{}
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, errors.Wrap(err, "could not parse user mapping")
	}
	return mapping, nil
}

// Lookup returns the target username for a source user. A nil mapping never
// matches.
func (m UserMapping) Lookup(sourceUser string) (string, bool) {
	if m == nil || sourceUser == "" {
		return "", false
	}
	target, ok := m[sourceUser]
	if !ok || target == "" {
		return "", false
	}
	return target, true
}

// Missing returns the given users that have no mapping, sorted.
func (m UserMapping) Missing(users []string) []string {
	missing := []string{}
	for _, u := range users {
		if _, ok := m.Lookup(u); !ok {
			missing = append(missing, u)
		}
	}
	sort.Strings(missing)
	return missing
}

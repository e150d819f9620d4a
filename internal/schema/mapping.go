// Package schema normalizes raw tabular ledger exports into typed records.
// It is the single translation boundary between arbitrary input columns and
// the canonical field catalogue; nothing downstream touches source headers.
package schema

import (
	"fmt"

	"github.com/quarterclose/sift/internal/common"
	"github.com/quarterclose/sift/internal/model"
)

// Mapping binds canonical fields to source column headers. It is a one-time
// bulk rename: optional fields left out are simply absent from the dataset.
type Mapping map[model.Field]string

// recognized is the full set of canonical fields a mapping may bind.
var recognized = func() map[model.Field]bool {
	m := make(map[model.Field]bool, len(model.RequiredFields)+len(model.OptionalFields))
	for _, f := range model.RequiredFields {
		m[f] = true
	}
	for _, f := range model.OptionalFields {
		m[f] = true
	}
	return m
}()

// Validate checks that every required field is bound and that no unknown
// canonical names appear.
func (m Mapping) Validate() error {
	for _, f := range model.RequiredFields {
		if m[f] == "" {
			return fmt.Errorf("%w: %s", common.ErrMissingField, f)
		}
	}
	for f := range m {
		if !recognized[f] {
			return fmt.Errorf("%w: unrecognized field %q", common.ErrInvalidConfig, f)
		}
	}
	return nil
}

// MappingFromStrings builds a Mapping from plain string keys, as read from
// the config file. Empty values are dropped.
func MappingFromStrings(raw map[string]string) (Mapping, error) {
	m := make(Mapping, len(raw))
	for k, v := range raw {
		if v == "" {
			continue
		}
		m[model.Field(k)] = v
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

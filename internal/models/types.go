package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringList is a list of strings stored as a JSON column.
type StringList []string

// Value implements driver.Valuer for database serialization.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database deserialization.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, (*[]string)(l))
}

// Contains reports whether the list contains s.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// ContainsAny reports whether the list contains any element of items.
func (l StringList) ContainsAny(items []string) bool {
	for _, item := range items {
		if l.Contains(item) {
			return true
		}
	}
	return false
}

// newID returns a fresh opaque identifier for a document-style row.
func newID() string {
	return uuid.NewString()
}

// ensureID assigns id on create when the caller did not provide one.
func ensureID(tx *gorm.DB, id *string) {
	_ = tx
	if *id == "" {
		*id = newID()
	}
}

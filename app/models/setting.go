package models

// Setting is one key/value configuration row. Values are stored as strings
// and coerced on read: "True"/"False" become bool, all-digit values become
// int, anything else stays a string. The "True"/"False" spelling is part of
// the persisted contract with data files written by earlier versions.
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `json:"value"`
}

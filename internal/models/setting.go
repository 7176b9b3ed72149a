package models

// Setting is a generic key-value configuration record read at request time.
// Numeric settings are stored as strings and parsed by callers.
type Setting struct {
	BaseModel
	Key   string `gorm:"uniqueIndex" json:"key"`
	Value string `json:"value"`
}

// Sequence is a named monotonic counter backing order and invoice numbers.
// Rows are bumped inside the allocating transaction so concurrent
// allocations serialize on the row.
type Sequence struct {
	BaseModel
	Name  string `gorm:"uniqueIndex" json:"name"`
	Value int64  `json:"value"`
}

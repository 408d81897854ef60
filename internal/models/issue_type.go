package models

// IssueType is seeded reference data describing a category of
// infrastructure problem. Rows are created at migration time and
// never mutated afterwards.
type IssueType struct {
	TypeID      uint64 `gorm:"column:type_id;primarykey" json:"type_id"`
	TypeName    string `gorm:"column:type_name;type:varchar(100);uniqueIndex;not null" json:"type_name"`
	Description string `gorm:"type:varchar(255)" json:"description"`
}

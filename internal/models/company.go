package models

// Company is one row of the companies reference table. The description
// column starts blank for most rows and is filled lazily the first time a
// detail view is requested (see internal/descriptions).
type Company struct {
	InstrumentID string `gorm:"column:instrumentid;primaryKey" json:"instrumentid"`
	Name         string `gorm:"column:name;not null" json:"name"`
	Description  string `gorm:"column:description" json:"description"`
}

func (Company) TableName() string {
	return "companies"
}

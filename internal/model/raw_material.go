package model

// RawMaterial has no numeric level, only a status set by kitchen staff.
type RawMaterial struct {
	BaseModel
	StoreScoped
	Name   string      `gorm:"type:varchar(255);not null" json:"name"`
	Status StockStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE'" json:"status"`
}

// ValidStockStatus reports whether s is one of the three known statuses.
func ValidStockStatus(s StockStatus) bool {
	switch s {
	case StockAvailable, StockLow, StockOut:
		return true
	}
	return false
}

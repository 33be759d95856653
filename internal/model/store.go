package model

import (
	"golang.org/x/crypto/bcrypt"
)

// Role is the PIN-derived role of whoever is operating the till.
type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleCashier Role = "CASHIER"
	RoleKitchen Role = "KITCHEN"
)

// Store is the tenancy boundary: every other record carries its ID.
type Store struct {
	BaseModel
	Name           string    `gorm:"type:varchar(100);not null" json:"name"`
	StoreCode      string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"storeCode"`
	OwnerPinHash   string    `gorm:"type:varchar(255);not null" json:"-"`
	CashierPinHash string    `gorm:"type:varchar(255);not null" json:"-"`
	KitchenPinHash string    `gorm:"type:varchar(255);not null" json:"-"`
	IsInitialized  bool      `gorm:"not null" json:"isInitialized"`
	Accounts       []Account `gorm:"foreignKey:StoreID" json:"accounts,omitempty"`
}

// SetPin hashes pin and stores it for role.
func (s *Store) SetPin(role Role, pin string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	switch role {
	case RoleOwner:
		s.OwnerPinHash = string(hashed)
	case RoleCashier:
		s.CashierPinHash = string(hashed)
	case RoleKitchen:
		s.KitchenPinHash = string(hashed)
	}
	return nil
}

// MatchPin reports which role pin belongs to. Owner is checked first.
func (s *Store) MatchPin(pin string) (Role, bool) {
	candidates := []struct {
		role Role
		hash string
	}{
		{RoleOwner, s.OwnerPinHash},
		{RoleCashier, s.CashierPinHash},
		{RoleKitchen, s.KitchenPinHash},
	}
	for _, c := range candidates {
		if c.hash == "" {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(c.hash), []byte(pin)) == nil {
			return c.role, true
		}
	}
	return "", false
}

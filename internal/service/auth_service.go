package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"chai-adda-pos/internal/model"
	"chai-adda-pos/internal/repository"
	"chai-adda-pos/pkg/jwt"
	"chai-adda-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const storeCodeAttempts = 10

type AuthService interface {
	SetupStore(ctx context.Context, req *SetupRequest) (*model.Store, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	ResetPin(ctx context.Context, storeID uuid.UUID, req *ResetPinRequest) error
}

type SetupRequest struct {
	StoreName  string `json:"storeName" validate:"required,max=100"`
	OwnerPin   string `json:"ownerPin" validate:"pin"`
	CashierPin string `json:"cashierPin" validate:"pin"`
	KitchenPin string `json:"kitchenPin" validate:"pin"`
}

type LoginRequest struct {
	StoreCode string `json:"storeCode" validate:"required"`
	Pin       string `json:"pin" validate:"pin"`
}

type ResetPinRequest struct {
	TargetRole model.Role `json:"targetRole" validate:"required,oneof=CASHIER KITCHEN"`
	NewPin     string     `json:"newPin" validate:"pin"`
}

type StoreInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StoreCode string    `json:"storeCode"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	Role  model.Role `json:"role"`
	Store StoreInfo  `json:"store"`
}

type authService struct {
	storeRepo repository.StoreRepository
	tokens    *jwt.Manager
	newCode   func() string
}

func NewAuthService(storeRepo repository.StoreRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		storeRepo: storeRepo,
		tokens:    tokens,
		newCode:   randomStoreCode,
	}
}

func randomStoreCode() string {
	return fmt.Sprintf("KOS-%04d", rand.IntN(10000))
}

func (s *authService) SetupStore(ctx context.Context, req *SetupRequest) (*model.Store, error) {
	if msg := validator.FirstError(req); msg != "" {
		return nil, newValidationError(msg)
	}
	if req.OwnerPin == req.CashierPin || req.OwnerPin == req.KitchenPin || req.CashierPin == req.KitchenPin {
		return nil, ErrDuplicatePins
	}

	code, err := s.uniqueStoreCode(ctx)
	if err != nil {
		return nil, err
	}

	store := &model.Store{
		Name:          req.StoreName,
		StoreCode:     code,
		IsInitialized: true,
		Accounts:      model.DefaultAccounts(),
	}
	store.CreatedBy = "system"
	for role, pin := range map[model.Role]string{
		model.RoleOwner:   req.OwnerPin,
		model.RoleCashier: req.CashierPin,
		model.RoleKitchen: req.KitchenPin,
	} {
		if err := store.SetPin(role, pin); err != nil {
			return nil, fmt.Errorf("hash %s pin: %w", role, err)
		}
	}

	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return store, nil
}

func (s *authService) uniqueStoreCode(ctx context.Context) (string, error) {
	for i := 0; i < storeCodeAttempts; i++ {
		code := s.newCode()
		exists, err := s.storeRepo.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check store code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not allocate a unique store code")
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if msg := validator.FirstError(req); msg != "" {
		return nil, newValidationError(msg)
	}

	store, err := s.storeRepo.FindByCode(ctx, req.StoreCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	role, ok := store.MatchPin(req.Pin)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(store.ID, store.StoreCode, string(role))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResponse{
		Token: token,
		Role:  role,
		Store: StoreInfo{ID: store.ID, Name: store.Name, StoreCode: store.StoreCode},
	}, nil
}

// ResetPin is an owner operation: it replaces the cashier or kitchen PIN of
// storeID. The new PIN may not collide with another role's PIN.
func (s *authService) ResetPin(ctx context.Context, storeID uuid.UUID, req *ResetPinRequest) error {
	if msg := validator.FirstError(req); msg != "" {
		return newValidationError(msg)
	}
	if req.TargetRole != model.RoleCashier && req.TargetRole != model.RoleKitchen {
		return ErrRoleNotResettable
	}

	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		return err
	}

	if role, ok := store.MatchPin(req.NewPin); ok && role != req.TargetRole {
		return ErrPinInUse
	}

	if err := store.SetPin(req.TargetRole, req.NewPin); err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	hash := store.CashierPinHash
	if req.TargetRole == model.RoleKitchen {
		hash = store.KitchenPinHash
	}
	return s.storeRepo.UpdatePinHash(ctx, store.ID, req.TargetRole, hash, string(model.RoleOwner))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"chai-adda-pos/internal/config"
	"chai-adda-pos/internal/model"
	"chai-adda-pos/internal/repository"
	"chai-adda-pos/pkg/database"
	"chai-adda-pos/pkg/logger"
	"chai-adda-pos/pkg/validator"

	"github.com/spf13/cobra"
)

type resetPinCmd struct {
	storeCode string
	role      string
	pin       string
}

func main() {
	rc := &resetPinCmd{}
	cmd := &cobra.Command{
		Use:          "reset-pin",
		Short:        "Reset the PIN of one role of a store",
		Long:         "Reset the PIN of one role of a store. This is the recovery path when the owner PIN is lost.",
		SilenceUsage: true,
		RunE:         rc.run,
	}
	cmd.Flags().StringVar(&rc.storeCode, "store-code", "", "Store code, e.g. KOS-1234")
	cmd.Flags().StringVar(&rc.role, "role", "OWNER", "Role whose PIN is reset: OWNER, CASHIER or KITCHEN")
	cmd.Flags().StringVar(&rc.pin, "pin", "", "New 4 to 6 digit PIN")
	_ = cmd.MarkFlagRequired("store-code")
	_ = cmd.MarkFlagRequired("pin")

	if err := cmd.Execute(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

type pinInput struct {
	Pin string `validate:"pin"`
}

func parseRole(s string) (model.Role, error) {
	switch role := model.Role(strings.ToUpper(s)); role {
	case model.RoleOwner, model.RoleCashier, model.RoleKitchen:
		return role, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (rc *resetPinCmd) run(cmd *cobra.Command, _ []string) error {
	role, err := parseRole(rc.role)
	if err != nil {
		return err
	}
	if msg := validator.FirstError(&pinInput{Pin: rc.pin}); msg != "" {
		return errors.New("PIN must be 4 to 6 digits")
	}

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	zapLog, err := logger.New(logger.Config{Level: "warn", Format: "console", Output: "stderr"})
	if err != nil {
		return err
	}
	defer zapLog.Sync()

	// 2. Setup Database
	db, err := database.Connect(cfg.DatabaseOptions(), zapLog)
	if err != nil {
		return err
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	// 3. Find Store
	stores := repository.NewStoreRepo(db)
	store, err := stores.FindByCode(ctx, rc.storeCode)
	if err != nil {
		return fmt.Errorf("store %s not found: %w", rc.storeCode, err)
	}

	if owner, ok := store.MatchPin(rc.pin); ok && owner != role {
		return fmt.Errorf("PIN is already used by %s", owner)
	}

	// 4. Hash new PIN
	if err := store.SetPin(role, rc.pin); err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}
	hash := map[model.Role]string{
		model.RoleOwner:   store.OwnerPinHash,
		model.RoleCashier: store.CashierPinHash,
		model.RoleKitchen: store.KitchenPinHash,
	}[role]

	// 5. Update
	if err := stores.UpdatePinHash(ctx, store.ID, role, hash, "system"); err != nil {
		return fmt.Errorf("failed to update PIN in DB: %w", err)
	}

	log.Printf("✅ Success! %s PIN for store %s has been reset", role, store.StoreCode)
	return nil
}

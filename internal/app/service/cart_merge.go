package service

import (
	"errors"

	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/internal/app/repository"
	"github.com/tcnr01/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// MergeAnonymousCart folds the anonymous cart of sessionID into the user's
// cart. Matching lines are summed and clamped, the rest are re-parented,
// and the anonymous cart is deleted. A missing or empty anonymous cart is
// a no-op. Stock is not re-validated.
func (s *cartService) MergeAnonymousCart(sessionID string, userID uint) error {
	if sessionID == "" {
		return nil
	}

	anonymous := model.Anonymous(sessionID)
	fields := map[string]interface{}{
		"session_id": sessionID,
		"user_id":    userID,
	}

	anonCart, err := s.cartRepo.FindByIdentity(anonymous)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		logger.Error("Failed to look up anonymous cart", err, fields)
		return err
	}

	pending, err := s.cartRepo.FindItems(anonCart.ID)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		logger.Debug("Anonymous cart is empty, nothing to merge", fields)
		return nil
	}

	authenticated := model.Authenticated(userID)
	if _, err := getOrCreateCart(s.cartRepo, authenticated); err != nil {
		logger.Error("Failed to resolve user cart for merge", err, fields)
		return err
	}

	merged, moved := 0, 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := repository.NewCartRepository(tx)

		userCart, err := cartRepo.FindByIdentityForUpdate(authenticated)
		if err != nil {
			return err
		}

		// a concurrent merge may already have claimed it
		anonCart, err := cartRepo.FindByIdentityForUpdate(anonymous)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		items, err := cartRepo.FindItems(anonCart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		userItems, err := cartRepo.FindItems(userCart.ID)
		if err != nil {
			return err
		}

		for i := range items {
			item := &items[i]
			existing := findSameLine(userItems, item)
			if existing != nil {
				existing.Quantity = clampQuantity(existing.Quantity + item.Quantity)
				if err := cartRepo.UpdateItemQuantity(existing.ID, existing.Quantity); err != nil {
					return err
				}
				if err := cartRepo.DeleteItem(item.ID); err != nil {
					return err
				}
				merged++
				continue
			}

			item.Quantity = clampQuantity(item.Quantity)
			if err := cartRepo.MoveItem(item.ID, userCart.ID, item.Quantity); err != nil {
				return err
			}
			userItems = append(userItems, *item)
			moved++
		}

		if err := cartRepo.Touch(userCart.ID); err != nil {
			return err
		}
		return cartRepo.Delete(anonCart.ID)
	})
	if err != nil {
		logger.Error("Failed to merge anonymous cart", err, fields)
		return err
	}

	fields["merged_lines"] = merged
	fields["moved_lines"] = moved
	logger.Info("Anonymous cart merged", fields)
	return nil
}

func findSameLine(lines []model.CartItem, item *model.CartItem) *model.CartItem {
	for i := range lines {
		if lines[i].SameLine(item) {
			return &lines[i]
		}
	}
	return nil
}

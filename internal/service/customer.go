package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AddressService struct {
	Repo *repo.GormRepo
}

func validateAddress(req transport.AddressRequest) error {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return fmt.Errorf("%w: name required", ErrValidation)
	case strings.TrimSpace(req.PhoneNumber) == "":
		return fmt.Errorf("%w: phoneNumber required", ErrValidation)
	case strings.TrimSpace(req.AddressLine) == "":
		return fmt.Errorf("%w: addressLine required", ErrValidation)
	}
	return nil
}

func (s *AddressService) Create(ctx context.Context, userID uuid.UUID, req transport.AddressRequest) (*models.Address, error) {
	if err := validateAddress(req); err != nil {
		return nil, err
	}
	a := &models.Address{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Ward:        req.Ward,
		City:        req.City,
		AddressLine: req.AddressLine,
		Country:     req.Country,
		IsDefault:   req.IsDefault,
	}
	if err := s.Repo.CreateAddress(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	items, err := s.Repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Address{}
	}
	return items, nil
}

func (s *AddressService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	a, err := s.Repo.GetAddress(ctx, id)
	if err != nil {
		return nil, notFound(err, "address not found")
	}
	if a.UserID != userID {
		return nil, fmt.Errorf("%w: address belongs to another user", ErrForbidden)
	}
	return a, nil
}

func (s *AddressService) Update(ctx context.Context, userID, id uuid.UUID, req transport.AddressRequest) (*models.Address, error) {
	if err := validateAddress(req); err != nil {
		return nil, err
	}
	a, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	a.Name = strings.TrimSpace(req.Name)
	a.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	a.Ward = req.Ward
	a.City = req.City
	a.AddressLine = req.AddressLine
	if req.Country != "" {
		a.Country = req.Country
	}
	if err := s.Repo.SaveAddress(ctx, a); err != nil {
		return nil, err
	}
	if req.IsDefault && !a.IsDefault {
		if err := s.Repo.SetDefaultAddress(ctx, userID, id); err != nil {
			return nil, err
		}
		a.IsDefault = true
	}
	return a, nil
}

func (s *AddressService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.Repo.DeleteAddress(ctx, id)
}

func (s *AddressService) SetDefault(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := s.Repo.SetDefaultAddress(ctx, userID, id); err != nil {
		return nil, notFound(err, "address not found")
	}
	return s.Repo.GetAddress(ctx, id)
}

type WishlistService struct {
	Repo *repo.GormRepo
}

func (s *WishlistService) Add(ctx context.Context, userID, productID uuid.UUID) ([]models.Product, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: productId required", ErrValidation)
	}
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return nil, notFound(err, "product not found")
	}

	exists, err := s.Repo.WishlistContains(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: Product already in wishlist", ErrConflict)
	}
	if err := s.Repo.AddWishlistItem(ctx, &models.WishlistItem{UserID: userID, ProductID: productID}); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) ([]models.Product, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: productId required", ErrValidation)
	}
	if err := s.Repo.RemoveWishlistItem(ctx, userID, productID); err != nil {
		return nil, notFound(err, "product not in wishlist")
	}
	return s.Get(ctx, userID)
}

// Get returns the wishlisted products in the order they were added. Products
// removed from the catalog since are skipped.
func (s *WishlistService) Get(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	items, err := s.Repo.ListWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	prods, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(prods))
	for _, p := range prods {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

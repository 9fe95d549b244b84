package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SyncStatus summarises what is left to push to the remote API.
type SyncStatus struct {
	Pending      int        `json:"pending"`
	LastSyncedAt *time.Time `json:"lastSyncedAt"`
}

// ListProducts returns every stored product, or an empty list when the
// collection is missing or unreadable.
func (s *Store) ListProducts(ctx context.Context) []Product {
	var products []Product
	if !s.getJSON(ctx, productsKey, &products) || products == nil {
		return []Product{}
	}
	return products
}

func (s *Store) ListProductsByCategory(ctx context.Context, categoryID string) []Product {
	out := []Product{}
	for _, p := range s.ListProducts(ctx) {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// ListUnsynced returns the products not yet acknowledged by the remote API.
func (s *Store) ListUnsynced(ctx context.Context) []Product {
	out := []Product{}
	for _, p := range s.ListProducts(ctx) {
		if !p.Uploaded {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) GetProduct(ctx context.Context, id string) (Product, error) {
	for _, p := range s.ListProducts(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

// SaveProduct upserts p by ID. An existing entry is replaced and its
// updatedAt refreshed; a new one is appended with createdAt = updatedAt = now.
// A product without an ID gets a fresh one.
func (s *Store) SaveProduct(ctx context.Context, p Product) (Product, error) {
	if err := p.Validate(); err != nil {
		return Product{}, err
	}

	products := s.ListProducts(ctx)
	now := s.now()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.Variants = append([]ProductVariant(nil), p.Variants...)
	for i := range p.Variants {
		if p.Variants[i].ID == "" {
			p.Variants[i].ID = uuid.New().String()
		}
	}

	idx := -1
	for i := range products {
		if products[i].ID == p.ID {
			idx = i
			break
		}
	}

	if idx >= 0 {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = products[idx].CreatedAt
		}
		p.UpdatedAt = now
		products[idx] = p
	} else {
		p.CreatedAt = now
		p.UpdatedAt = now
		products = append(products, p)
	}

	if err := s.putJSON(ctx, productsKey, products); err != nil {
		return Product{}, err
	}
	return p, nil
}

// DeleteProduct removes the product with id. Unknown ids are a no-op.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	products := s.ListProducts(ctx)
	kept := make([]Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return nil
	}
	return s.putJSON(ctx, productsKey, kept)
}

// MarkUploaded flags the given products as acknowledged by the remote API
// and returns how many were found.
func (s *Store) MarkUploaded(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	products := s.ListProducts(ctx)
	now := s.now()
	marked := 0
	for i := range products {
		if _, ok := want[products[i].ID]; ok {
			products[i].Uploaded = true
			products[i].UpdatedAt = now
			marked++
		}
	}
	if marked == 0 {
		return 0, nil
	}
	if err := s.putJSON(ctx, productsKey, products); err != nil {
		return 0, err
	}
	return marked, nil
}

func (s *Store) SyncStatus(ctx context.Context) SyncStatus {
	var status SyncStatus
	for _, p := range s.ListProducts(ctx) {
		if !p.Uploaded {
			status.Pending++
			continue
		}
		if status.LastSyncedAt == nil || p.UpdatedAt.After(*status.LastSyncedAt) {
			t := p.UpdatedAt
			status.LastSyncedAt = &t
		}
	}
	return status
}

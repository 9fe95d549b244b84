package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sandyspace/catalog-manager/messages"
)

func init() {
	// The update endpoints expect plain JSON numbers for prices.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	MinVariants = 1
	MaxVariants = 10
)

// VariantAxis is the dimension a variant varies along.
type VariantAxis string

const (
	AxisSize  VariantAxis = "size"
	AxisColor VariantAxis = "color"
)

func (a VariantAxis) Valid() bool {
	return a == AxisSize || a == AxisColor
}

// Label is the option name the commerce API shows for the axis.
func (a VariantAxis) Label() string {
	if a == AxisColor {
		return "Couleur"
	}
	return "Taille"
}

// ProductVariant is one axis of variation with its allowed values and the
// flat price/cost adjustment applied when any of those values is chosen.
type ProductVariant struct {
	ID              string          `json:"id"`
	Axis            VariantAxis     `json:"type"`
	Values          []string        `json:"values"`
	AdditionalPrice decimal.Decimal `json:"additionalPrice"`
	AdditionalCost  decimal.Decimal `json:"additionalCost"`
	Stock           *int            `json:"stock,omitempty"`
	ImageURI        string          `json:"imageUri,omitempty"`
	ImageData       string          `json:"base64Image,omitempty"`
}

// Product represents a product in the catalog.
// The whole collection is persisted as one document.
type Product struct {
	ID          string           `json:"id"`
	CategoryID  string           `json:"categoryId"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	ImageURI    string           `json:"imageUri"`
	ImageData   string           `json:"base64Image,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Cost        decimal.Decimal  `json:"cost"`
	Variants    []ProductVariant `json:"variants"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Uploaded    bool             `json:"uploaded"`
}

// Validate checks the invariants every stored product must hold.
func (p *Product) Validate() error {
	if p.Price.IsNegative() {
		return &ValidationError{Field: "price", MessageID: messages.PriceNegative}
	}
	return validateVariants(p.Variants)
}

func validateVariants(variants []ProductVariant) error {
	if len(variants) < MinVariants || len(variants) > MaxVariants {
		return &ValidationError{Field: "variants", MessageID: messages.VariantCount}
	}
	for _, v := range variants {
		if !v.Axis.Valid() {
			return &ValidationError{
				Field:     "variants",
				MessageID: messages.VariantAxis,
				Data:      map[string]any{"Axis": string(v.Axis)},
			}
		}
	}
	return nil
}

// ProductDraft is what the add-product screen submits before the photo has
// been uploaded and the product persisted.
type ProductDraft struct {
	CategoryID  string           `json:"categoryId"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	ImageURI    string           `json:"imageUri"`
	ImageData   string           `json:"base64Image"`
	Price       decimal.Decimal  `json:"price"`
	Cost        decimal.Decimal  `json:"cost"`
	Variants    []ProductVariant `json:"variants"`
}

func (d *ProductDraft) Validate() error {
	if d.ImageData == "" {
		return &ValidationError{Field: "image", MessageID: messages.ImageRequired}
	}
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", MessageID: messages.NameRequired}
	}
	if d.Price.IsZero() && !anyAdditionalPrice(d.Variants) {
		return &ValidationError{Field: "price", MessageID: messages.PriceRequired}
	}
	if d.Price.IsNegative() {
		return &ValidationError{Field: "price", MessageID: messages.PriceNegative}
	}
	return validateVariants(d.Variants)
}

func anyAdditionalPrice(variants []ProductVariant) bool {
	for _, v := range variants {
		if v.AdditionalPrice.IsPositive() {
			return true
		}
	}
	return false
}

// Product turns the draft into a product whose image lives at imageURL.
func (d *ProductDraft) Product(id, imageURL string) Product {
	categoryID := d.CategoryID
	if categoryID == "" {
		categoryID = "1"
	}
	description := d.Description
	if description == "" {
		description = "Produit " + d.Name
	}
	return Product{
		ID:          id,
		CategoryID:  categoryID,
		Name:        d.Name,
		Description: description,
		ImageURI:    imageURL,
		ImageData:   d.ImageData,
		Price:       d.Price,
		Cost:        d.Cost,
		Variants:    d.Variants,
	}
}

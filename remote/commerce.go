package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sandyspace/catalog-manager/models"
	"github.com/sandyspace/catalog-manager/variants"
)

var (
	warehouseIDs       = []string{"1", "2"}
	stockPerWarehouse  = []string{"", ""}
	priceUnitThreshold = decimal.NewFromInt(100)
	priceUnit          = decimal.NewFromInt(1000)
)

// CommercePayload holds the scalar and list fields of a product creation
// form. Indexed fields (stock_warehouse_id[0], ...) and files are written
// separately.
type CommercePayload struct {
	Type               string          `schema:"type"`
	Name               string          `schema:"name"`
	Code               string          `schema:"code"`
	BarcodeSymbology   string          `schema:"barcode_symbology"`
	ProductCodeName    string          `schema:"product_code_name"`
	BrandID            string          `schema:"brand_id"`
	CategoryID         string          `schema:"category_id"`
	UnitID             int             `schema:"unit_id"`
	SaleUnitID         int             `schema:"sale_unit_id"`
	PurchaseUnitID     int             `schema:"purchase_unit_id"`
	Cost               decimal.Decimal `schema:"cost"`
	Price              decimal.Decimal `schema:"price"`
	Qty                decimal.Decimal `schema:"qty"`
	WholesalePrice     string          `schema:"wholesale_price"`
	DailySaleObjective string          `schema:"daily_sale_objective"`
	AlertQuantity      string          `schema:"alert_quantity"`
	TaxID              string          `schema:"tax_id"`
	TaxMethod          int             `schema:"tax_method"`
	Warranty           string          `schema:"warranty"`
	WarrantyType       string          `schema:"warranty_type"`
	Guarantee          string          `schema:"guarantee"`
	GuaranteeType      string          `schema:"guarantee_type"`
	ProductDetails     string          `schema:"product_details"`
	PromotionPrice     string          `schema:"promotion_price"`
	StartingDate       string          `schema:"starting_date"`
	LastDate           string          `schema:"last_date"`
	IsOnline           int             `schema:"is_online"`
	InStock            int             `schema:"in_stock"`
	Tags               string          `schema:"tags"`
	MetaTitle          string          `schema:"meta_title"`
	MetaDescription    string          `schema:"meta_description"`
	Products           string          `schema:"products"`

	IsVariant       string            `schema:"is_variant,omitempty"`
	VariantOptions  []string          `schema:"variant_option[],omitempty"`
	VariantValues   []string          `schema:"variant_value[],omitempty"`
	VariantNames    []string          `schema:"variant_name[],omitempty"`
	ItemCodes       []string          `schema:"item_code[],omitempty"`
	AdditionalCost  []decimal.Decimal `schema:"additional_cost[],omitempty"`
	AdditionalPrice []decimal.Decimal `schema:"additional_price[],omitempty"`
}

var formEncoder = newFormEncoder()

func newFormEncoder() *schema.Encoder {
	enc := schema.NewEncoder()
	enc.RegisterEncoder(decimal.Decimal{}, func(v reflect.Value) string {
		return v.Interface().(decimal.Decimal).String()
	})
	return enc
}

func randomCode() string {
	return strconv.Itoa(rand.IntN(100000000))
}

// NormalizePrice treats prices under 100 as written in thousands.
func NormalizePrice(price decimal.Decimal) decimal.Decimal {
	if price.LessThan(priceUnitThreshold) {
		return price.Mul(priceUnit)
	}
	return price
}

// NewCommercePayload flattens p into the commerce form fields. Option values
// are grouped per axis label; combination pricing uses the variants as
// entered.
func NewCommercePayload(p models.Product, code string) CommercePayload {
	payload := CommercePayload{
		Type:             "standard",
		Name:             p.Name,
		Code:             code,
		BarcodeSymbology: "C128",
		CategoryID:       p.CategoryID,
		UnitID:           1,
		SaleUnitID:       1,
		PurchaseUnitID:   1,
		Cost:             p.Cost,
		Price:            NormalizePrice(p.Price),
		Qty:              decimal.Zero,
		TaxMethod:        1,
		WarrantyType:     "months",
		GuaranteeType:    "months",
		ProductDetails:   p.Description,
		IsOnline:         1,
		InStock:          1,
		MetaTitle:        p.Name,
		MetaDescription:  p.Description,
	}

	if len(p.Variants) == 0 {
		return payload
	}

	payload.IsVariant = "1"
	entered := variants.FromVariants(p.Variants)
	grouped := variants.Group(entered)
	for _, a := range grouped {
		payload.VariantOptions = append(payload.VariantOptions, a.Name)
		payload.VariantValues = append(payload.VariantValues, strings.Join(a.Values, ","))
	}
	for _, c := range variants.ExpandPriced(grouped, entered, code) {
		payload.VariantNames = append(payload.VariantNames, c.Name)
		payload.ItemCodes = append(payload.ItemCodes, c.ItemCode)
		payload.AdditionalCost = append(payload.AdditionalCost, c.AdditionalCost)
		payload.AdditionalPrice = append(payload.AdditionalPrice, c.AdditionalPrice)
	}
	return payload
}

// CreateProduct publishes p on the commerce API with images attached as
// image[0], image[1], ... and returns the decoded response.
func (c *Client) CreateProduct(ctx context.Context, p models.Product, images []Image) (json.RawMessage, error) {
	code := c.codes()
	payload := NewCommercePayload(p, code)

	fields := map[string][]string{}
	if err := formEncoder.Encode(payload, fields); err != nil {
		return nil, fmt.Errorf("encode commerce form: %w", err)
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		for _, v := range fields[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, err
			}
		}
	}

	indexed := []struct {
		name   string
		values []string
	}{
		{"stock_warehouse_id", warehouseIDs},
		{"warehouse_id", warehouseIDs},
		{"stock", stockPerWarehouse},
		{"diff_price", stockPerWarehouse},
	}
	for _, f := range indexed {
		for i, v := range f.values {
			if err := w.WriteField(fmt.Sprintf("%s[%d]", f.name, i), v); err != nil {
				return nil, err
			}
		}
	}

	for i, img := range images {
		if err := writeFile(w, fmt.Sprintf("image[%d]", i), fmt.Sprintf("product_image_%d.%s", i, img.Ext), img); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var resp json.RawMessage
	if err := c.do(ctx, "create product", c.commerceEndpoint, w.FormDataContentType(), body, &resp); err != nil {
		return nil, err
	}
	c.logger.Info("product published",
		zap.String("product_id", p.ID),
		zap.String("code", code),
		zap.Int("combinations", len(payload.VariantNames)),
	)
	return resp, nil
}

// Package variants turns a product's variant axes into the flat list of
// sellable combinations the commerce API expects.
package variants

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sandyspace/catalog-manager/models"
)

// Axis is one dimension of variation with a flat price/cost adjustment.
type Axis struct {
	Name            string
	Values          []string
	AdditionalCost  decimal.Decimal
	AdditionalPrice decimal.Decimal
}

// Combination is one element of the Cartesian product over the axes.
type Combination struct {
	Name            string
	ItemCode        string
	Values          []string
	AdditionalCost  decimal.Decimal
	AdditionalPrice decimal.Decimal
}

// FromVariants maps each stored variant to an axis named after its label
// (Taille, Couleur). Order is preserved.
func FromVariants(vs []models.ProductVariant) []Axis {
	axes := make([]Axis, 0, len(vs))
	for _, v := range vs {
		axes = append(axes, Axis{
			Name:            v.Axis.Label(),
			Values:          slices.Clone(v.Values),
			AdditionalCost:  v.AdditionalCost,
			AdditionalPrice: v.AdditionalPrice,
		})
	}
	return axes
}

// Group merges axes sharing a name, keeping the first occurrence's position
// and the first-seen order of values. Duplicate values are dropped.
// Adjustments of merged axes are summed.
func Group(axes []Axis) []Axis {
	var out []Axis
	index := make(map[string]int)
	for _, a := range axes {
		i, ok := index[a.Name]
		if !ok {
			index[a.Name] = len(out)
			out = append(out, Axis{
				Name:            a.Name,
				Values:          dedupe(nil, a.Values),
				AdditionalCost:  a.AdditionalCost,
				AdditionalPrice: a.AdditionalPrice,
			})
			continue
		}
		out[i].Values = dedupe(out[i].Values, a.Values)
		out[i].AdditionalCost = out[i].AdditionalCost.Add(a.AdditionalCost)
		out[i].AdditionalPrice = out[i].AdditionalPrice.Add(a.AdditionalPrice)
	}
	return out
}

func dedupe(dst, values []string) []string {
	if dst == nil {
		dst = []string{}
	}
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

// Expand returns every combination of one value per axis, in axis order and
// within-axis value order. Any empty axis, or no axes at all, yields nil.
func Expand(axes []Axis, productCode string) []Combination {
	return ExpandPriced(axes, axes, productCode)
}

// ExpandPriced expands axes but prices each combination against pricing:
// every pricing axis holding at least one of the chosen values contributes
// its flat adjustment once.
func ExpandPriced(axes, pricing []Axis, productCode string) []Combination {
	if len(axes) == 0 {
		return nil
	}
	total := 1
	for _, a := range axes {
		total *= len(a.Values)
	}
	if total == 0 {
		return nil
	}

	out := make([]Combination, 0, total)
	chosen := make([]string, 0, len(axes))

	var walk func(depth int)
	walk = func(depth int) {
		if depth == len(axes) {
			out = append(out, newCombination(slices.Clone(chosen), pricing, productCode))
			return
		}
		for _, v := range axes[depth].Values {
			chosen = append(chosen, v)
			walk(depth + 1)
			chosen = chosen[:len(chosen)-1]
		}
	}
	walk(0)
	return out
}

func newCombination(values []string, pricing []Axis, productCode string) Combination {
	name := strings.Join(values, "/")
	c := Combination{
		Name:     name,
		ItemCode: name + "-" + productCode,
		Values:   values,
	}
	for _, a := range pricing {
		if slices.ContainsFunc(values, func(v string) bool { return slices.Contains(a.Values, v) }) {
			c.AdditionalCost = c.AdditionalCost.Add(a.AdditionalCost)
			c.AdditionalPrice = c.AdditionalPrice.Add(a.AdditionalPrice)
		}
	}
	return c
}

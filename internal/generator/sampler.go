package generator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"gonum.org/v1/gonum/stat/distuv"
)

// Categorical draws an index with probability proportional to its weight, by
// binary search over the cumulative weights.
type Categorical struct {
	cum []float64
}

func NewCategorical(weights []float64) (*Categorical, error) {
	cum := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, failure.Configurationf("invalid weight %v at position %d", w, i)
		}
		total += w
		cum[i] = total
	}
	if total <= 0 {
		return nil, failure.Configurationf("weights must not all be zero")
	}
	return &Categorical{cum: cum}, nil
}

// Draw consumes one uniform draw.
func (c *Categorical) Draw(rng *RNG) int {
	u := rng.Float64() * c.cum[len(c.cum)-1]
	return sort.Search(len(c.cum), func(i int) bool {
		return c.cum[i] > u
	})
}

// Sampler holds the probability laws of one run. Every method is a function of
// the RNG state only.
type Sampler struct {
	basket     distuv.Triangle
	avgItems   float64
	itemStdDev float64
	maxItems   int

	storeCodes []string
	stores     *Categorical
	promotions []string
	promotion  *Categorical
	members    []string
	member     *Categorical

	start time.Time
	days  int
	hours Hours

	products []Product
	quantity Quantity
}

// NewSampler builds the laws of opts over the generated product set.
func NewSampler(opts Options, products []Product) (*Sampler, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, failure.Configurationf("cannot sample line items from an empty product set")
	}
	start, err := opts.ParseStartDate()
	if err != nil {
		return nil, err
	}

	s := &Sampler{
		basket:     distuv.NewTriangle(opts.Basket.Low, opts.Basket.High, opts.Basket.Mode, nil),
		avgItems:   opts.AvgItems,
		itemStdDev: opts.ItemStdDev,
		maxItems:   opts.MaxItems,
		start:      start,
		days:       opts.Days,
		hours:      opts.Hours,
		products:   products,
		quantity:   opts.Quantity,
	}

	storeWeights := make([]float64, len(opts.Stores))
	for i, st := range opts.Stores {
		s.storeCodes = append(s.storeCodes, st.Code)
		storeWeights[i] = st.Weight
	}
	if s.stores, err = NewCategorical(storeWeights); err != nil {
		return nil, fmt.Errorf("stores: %w", err)
	}
	if s.promotions, s.promotion, err = choiceTable(opts.Promotions); err != nil {
		return nil, fmt.Errorf("promotions: %w", err)
	}
	if s.members, s.member, err = choiceTable(opts.Membership); err != nil {
		return nil, fmt.Errorf("membership: %w", err)
	}
	return s, nil
}

func choiceTable(choices []Choice) ([]string, *Categorical, error) {
	labels := make([]string, len(choices))
	weights := make([]float64, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
		weights[i] = c.Weight
	}
	cat, err := NewCategorical(weights)
	return labels, cat, err
}

// BasketTotal draws a triangular total rounded to cents.
func (s *Sampler) BasketTotal(rng *RNG) float64 {
	x := s.basket.Quantile(rng.Float64())
	return math.Round(x*100) / 100
}

// ItemCount draws a normal count, truncated toward zero and clamped to [1, maxItems].
func (s *Sampler) ItemCount(rng *RNG) int {
	n := int(rng.NormFloat64()*s.itemStdDev + s.avgItems)
	return min(max(n, 1), s.maxItems)
}

// Store draws a store code by traffic weight.
func (s *Sampler) Store(rng *RNG) string {
	return s.storeCodes[s.stores.Draw(rng)]
}

// Timestamp draws a day in [0, days], then an open hour and a minute.
func (s *Sampler) Timestamp(rng *RNG) time.Time {
	day := rng.IntN(s.days + 1)
	hour := s.hours.Open + rng.IntN(s.hours.Close-s.hours.Open+1)
	minute := rng.IntN(60)
	return s.start.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func (s *Sampler) Promotion(rng *RNG) string {
	return s.promotions[s.promotion.Draw(rng)]
}

func (s *Sampler) Membership(rng *RNG) string {
	return s.members[s.member.Draw(rng)]
}

// Product draws uniformly from the catalog; repeats within a sale are allowed.
func (s *Sampler) Product(rng *RNG) Product {
	return s.products[rng.IntN(len(s.products))]
}

// Quantity draws 1 with probability SingleProb, otherwise a uniform count in [Min, Max].
func (s *Sampler) Quantity(rng *RNG) int {
	if rng.Float64() < s.quantity.SingleProb {
		return 1
	}
	return s.quantity.Min + rng.IntN(s.quantity.Max-s.quantity.Min+1)
}

// Sale draws one transaction and its line items. The draw order is part of the
// output format: reordering it changes every dataset generated from a seed.
func (s *Sampler) Sale(rng *RNG) (Sale, []SaleItem) {
	sale := Sale{ID: rng.UUID()}
	sale.StoreCode = s.Store(rng)
	sale.Timestamp = s.Timestamp(rng)
	sale.Promotion = s.Promotion(rng)
	sale.Member = s.Membership(rng)
	sale.Total = s.BasketTotal(rng)

	items := make([]SaleItem, s.ItemCount(rng))
	for i := range items {
		product := s.Product(rng)
		items[i] = SaleItem{SaleID: sale.ID, ProductID: product.ID, Qty: s.Quantity(rng)}
	}
	return sale, items
}

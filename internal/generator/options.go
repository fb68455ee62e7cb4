package generator

import (
	"math"
	"time"

	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
)

// Options is everything a generation run depends on. Two runs with equal
// Options produce byte-identical output.
type Options struct {
	OutDir      string  `json:"out_dir" mapstructure:"out_dir"`
	NumSales    int     `json:"num_sales" mapstructure:"num_sales"`
	AvgItems    float64 `json:"avg_items" mapstructure:"avg_items"`
	ItemStdDev  float64 `json:"item_stddev" mapstructure:"item_stddev"`
	MaxItems    int     `json:"max_items" mapstructure:"max_items"`
	ShardSales  int     `json:"shard_sales" mapstructure:"shard_sales"`
	NumProducts int     `json:"num_products" mapstructure:"num_products"`
	StartDate   string  `json:"start_date" mapstructure:"start_date"`
	Days        int     `json:"days" mapstructure:"days"`
	Seed        int64   `json:"seed" mapstructure:"seed"`
	Compress    bool    `json:"compress" mapstructure:"compress"`

	Stores     []StoreSpec `json:"stores" mapstructure:"stores"`
	Promotions []Choice    `json:"promotions" mapstructure:"promotions"`
	Membership []Choice    `json:"membership" mapstructure:"membership"`
	Basket     Basket      `json:"basket" mapstructure:"basket"`
	Hours      Hours       `json:"hours" mapstructure:"hours"`
	Quantity   Quantity    `json:"quantity" mapstructure:"quantity"`
}

// StoreSpec is a configured store and its relative traffic weight.
type StoreSpec struct {
	Code   string  `json:"code" mapstructure:"code"`
	Name   string  `json:"name" mapstructure:"name"`
	Region string  `json:"region" mapstructure:"region"`
	Weight float64 `json:"weight" mapstructure:"weight"`
}

// Choice is one outcome of a categorical draw.
type Choice struct {
	Label  string  `json:"label" mapstructure:"label"`
	Weight float64 `json:"weight" mapstructure:"weight"`
}

// Basket parameterizes the triangular law of a sale total.
type Basket struct {
	Low  float64 `json:"low" mapstructure:"low"`
	High float64 `json:"high" mapstructure:"high"`
	Mode float64 `json:"mode" mapstructure:"mode"`
}

// Hours bounds the hour of day of a sale; both ends are inclusive.
type Hours struct {
	Open  int `json:"open" mapstructure:"open"`
	Close int `json:"close" mapstructure:"close"`
}

// Quantity is the per-line quantity law: 1 with probability SingleProb,
// otherwise uniform in [Min, Max].
type Quantity struct {
	SingleProb float64 `json:"single_prob" mapstructure:"single_prob"`
	Min        int     `json:"min" mapstructure:"min"`
	Max        int     `json:"max" mapstructure:"max"`
}

// DefaultStores is the POD Market store list.
func DefaultStores() []StoreSpec {
	return []StoreSpec{
		{Code: "POD-TEMPE", Name: "POD Market – Tempe", Region: "us-west1", Weight: 1.0},
		{Code: "POD-POLY", Name: "POD Market – Polytechnic", Region: "us-west1", Weight: 0.9},
		{Code: "POD-WV", Name: "POD Market – West Valley", Region: "us-west1", Weight: 0.8},
		{Code: "POD-DTPHX", Name: "POD Market – Downtown Phoenix", Region: "us-west1", Weight: 1.1},
	}
}

func DefaultPromotions() []Choice {
	return []Choice{
		{Label: dataset.PromotionNone, Weight: 0.45},
		{Label: "BOGO (Buy One Get One)", Weight: 0.30},
		{Label: "Discount on Selected Items", Weight: 0.25},
	}
}

func DefaultMembership() []Choice {
	return []Choice{
		{Label: "Yes", Weight: 0.55},
		{Label: "No", Weight: 0.45},
	}
}

// DefaultOptions returns the options of a full-size run.
func DefaultOptions() Options {
	return Options{
		OutDir:      "out",
		NumSales:    1_000_000,
		AvgItems:    3.0,
		ItemStdDev:  1.0,
		MaxItems:    12,
		ShardSales:  100_000,
		NumProducts: 5_000,
		StartDate:   "2024-09-01",
		Days:        30,
		Seed:        42,
		Stores:      DefaultStores(),
		Promotions:  DefaultPromotions(),
		Membership:  DefaultMembership(),
		Basket:      Basket{Low: 3.0, High: 40.0, Mode: 15.0},
		Hours:       Hours{Open: 8, Close: 21},
		Quantity:    Quantity{SingleProb: 0.9, Min: 2, Max: 4},
	}
}

// Validate checks every parameter. All failures are configuration errors.
func (o Options) Validate() error {
	if o.OutDir == "" {
		return failure.Configurationf("out_dir cannot be empty")
	}
	if o.NumSales <= 0 {
		return failure.Configurationf("num_sales must be positive, got %d", o.NumSales)
	}
	if o.ShardSales <= 0 {
		return failure.Configurationf("shard_sales must be positive, got %d", o.ShardSales)
	}
	if o.NumProducts <= 0 {
		return failure.Configurationf("num_products must be positive, got %d", o.NumProducts)
	}
	if !isFinite(o.AvgItems) || o.AvgItems <= 0 {
		return failure.Configurationf("avg_items must be a positive number, got %v", o.AvgItems)
	}
	if !isFinite(o.ItemStdDev) || o.ItemStdDev < 0 {
		return failure.Configurationf("item_stddev must be non-negative, got %v", o.ItemStdDev)
	}
	if o.MaxItems < 1 {
		return failure.Configurationf("max_items must be at least 1, got %d", o.MaxItems)
	}
	if _, err := o.ParseStartDate(); err != nil {
		return err
	}
	if o.Days < 0 {
		return failure.Configurationf("days must be non-negative, got %d", o.Days)
	}

	if len(o.Stores) == 0 {
		return failure.Configurationf("at least one store is required")
	}
	codes := make(map[string]bool, len(o.Stores))
	weights := make([]float64, len(o.Stores))
	for i, s := range o.Stores {
		if s.Code == "" {
			return failure.Configurationf("store %d has an empty code", i)
		}
		if codes[s.Code] {
			return failure.Configurationf("duplicate store code %s", s.Code)
		}
		codes[s.Code] = true
		weights[i] = s.Weight
	}
	if err := checkWeights("stores", weights); err != nil {
		return err
	}
	if err := checkChoices("promotions", o.Promotions); err != nil {
		return err
	}
	if err := checkChoices("membership", o.Membership); err != nil {
		return err
	}

	b := o.Basket
	if !isFinite(b.Low) || !isFinite(b.High) || !isFinite(b.Mode) || b.Low < 0 || b.Low >= b.High || b.Mode < b.Low || b.Mode > b.High {
		return failure.Configurationf("basket needs 0 <= low <= mode <= high and low < high, got low=%v mode=%v high=%v", b.Low, b.Mode, b.High)
	}
	if o.Hours.Open < 0 || o.Hours.Close > 23 || o.Hours.Open > o.Hours.Close {
		return failure.Configurationf("hours need 0 <= open <= close <= 23, got %d-%d", o.Hours.Open, o.Hours.Close)
	}
	q := o.Quantity
	if !isFinite(q.SingleProb) || q.SingleProb < 0 || q.SingleProb > 1 {
		return failure.Configurationf("quantity.single_prob must be in [0,1], got %v", q.SingleProb)
	}
	if q.Min < 1 || q.Min > q.Max {
		return failure.Configurationf("quantity needs 1 <= min <= max, got %d-%d", q.Min, q.Max)
	}
	return nil
}

// ParseStartDate parses StartDate as YYYY-MM-DD in UTC.
func (o Options) ParseStartDate() (time.Time, error) {
	start, err := time.Parse(dataset.DateLayout, o.StartDate)
	if err != nil {
		return time.Time{}, failure.Configurationf("start_date %q is not a YYYY-MM-DD date", o.StartDate)
	}
	return start, nil
}

func checkChoices(name string, choices []Choice) error {
	if len(choices) == 0 {
		return failure.Configurationf("%s cannot be empty", name)
	}
	weights := make([]float64, len(choices))
	for i, c := range choices {
		if c.Label == "" {
			return failure.Configurationf("%s entry %d has an empty label", name, i)
		}
		weights[i] = c.Weight
	}
	return checkWeights(name, weights)
}

func checkWeights(name string, weights []float64) error {
	total := 0.0
	for _, w := range weights {
		if !isFinite(w) || w < 0 {
			return failure.Configurationf("%s weights must be non-negative numbers, got %v", name, w)
		}
		total += w
	}
	if total <= 0 {
		return failure.Configurationf("%s weights must not all be zero", name)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

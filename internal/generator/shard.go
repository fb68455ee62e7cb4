package generator

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
)

// ShardPlan is the position and size of one shard.
type ShardPlan struct {
	Index int
	Sales int
}

// PlanShards splits total sales into ceil(total/size) shards indexed from 1.
// Only the last shard may be smaller than size.
func PlanShards(total, size int) []ShardPlan {
	if total <= 0 || size <= 0 {
		return nil
	}
	count := (total + size - 1) / size
	plans := make([]ShardPlan, count)
	for i := range plans {
		plans[i] = ShardPlan{Index: i + 1, Sales: size}
	}
	plans[count-1].Sales = total - (count-1)*size
	return plans
}

// ShardResult describes a written shard file pair.
type ShardResult struct {
	Index     int
	SalesFile string
	ItemsFile string
	Sales     int
	SaleItems int
}

// ShardWriter writes shards into one output directory. Each sale's line items
// are written right after the sale is drawn, so a sale and its items always
// share a shard and memory stays bounded by a single sale.
type ShardWriter struct {
	dir      string
	compress bool
	rng      *RNG
	sampler  *Sampler
}

func NewShardWriter(dir string, compress bool, rng *RNG, sampler *Sampler) *ShardWriter {
	return &ShardWriter{dir: dir, compress: compress, rng: rng, sampler: sampler}
}

// Write generates and writes one shard. On failure both files of the shard are
// removed; the run has to be repeated from the start with the same seed.
func (w *ShardWriter) Write(plan ShardPlan) (res ShardResult, err error) {
	res = ShardResult{
		Index:     plan.Index,
		SalesFile: filepath.Join(w.dir, dataset.Sales.ShardFileName(plan.Index, w.compress)),
		ItemsFile: filepath.Join(w.dir, dataset.SaleItems.ShardFileName(plan.Index, w.compress)),
	}

	sales, err := dataset.Create(res.SalesFile, dataset.Sales)
	if err != nil {
		return res, err
	}
	items, err := dataset.Create(res.ItemsFile, dataset.SaleItems)
	if err != nil {
		sales.Close()
		os.Remove(res.SalesFile)
		return res, err
	}

	defer func() {
		closeErr := errors.Join(sales.Close(), items.Close())
		if err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(res.SalesFile)
			os.Remove(res.ItemsFile)
		}
	}()

	for i := 0; i < plan.Sales; i++ {
		sale, lines := w.sampler.Sale(w.rng)
		if err = sales.Write(sale.Record()); err != nil {
			return res, err
		}
		for _, line := range lines {
			if err = items.Write(line.Record()); err != nil {
				return res, err
			}
		}
	}

	res.Sales = sales.Rows()
	res.SaleItems = items.Rows()
	return res, nil
}

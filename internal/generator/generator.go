package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
)

// Generator sequences a run: stores, products, every shard, then the manifest.
type Generator struct {
	opts     Options
	reporter Reporter
}

// New validates opts before anything touches the filesystem.
func New(opts Options, reporter Reporter) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Generator{opts: opts, reporter: reporter}, nil
}

// Run writes the dataset and returns its manifest. Every call reseeds, so
// repeated runs with the same options write the same bytes. Table files left by
// an earlier run in the same directory are removed first. Cancellation is
// honoured between shards.
func (g *Generator) Run(ctx context.Context) (*dataset.Manifest, error) {
	opts := g.opts
	plans := PlanShards(opts.NumSales, opts.ShardSales)
	g.reporter.Started(opts, len(plans))

	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, failure.IO(err, "create output directory %s", opts.OutDir)
	}
	manifestPath := filepath.Join(opts.OutDir, dataset.ManifestFile)
	if err := os.Remove(manifestPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, failure.IO(err, "remove stale %s", manifestPath)
	}
	if _, err := dataset.RemoveTableFiles(opts.OutDir); err != nil {
		return nil, err
	}

	rng := NewRNG(opts.Seed)
	m := g.newManifest()
	var err error

	stores := GenerateStores(rng, opts.Stores)
	storeRecords := make([][]string, len(stores))
	for i, s := range stores {
		storeRecords[i] = s.Record()
	}
	if m.Stores, err = g.writeTable(dataset.Stores, storeRecords); err != nil {
		return nil, err
	}

	products, err := GenerateProducts(rng, opts.NumProducts)
	if err != nil {
		return nil, err
	}
	productRecords := make([][]string, len(products))
	for i, p := range products {
		productRecords[i] = p.Record()
	}
	if m.Products, err = g.writeTable(dataset.Products, productRecords); err != nil {
		return nil, err
	}

	sampler, err := NewSampler(opts, products)
	if err != nil {
		return nil, err
	}
	writer := NewShardWriter(opts.OutDir, opts.Compress, rng, sampler)

	for _, plan := range plans {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation stopped before shard %d: %w", plan.Index, err)
		}
		res, err := writer.Write(plan)
		if err != nil {
			return nil, fmt.Errorf("failed to write shard %d: %w", plan.Index, err)
		}
		m.Shards = append(m.Shards, dataset.ShardEntry{
			Index:     res.Index,
			Sales:     dataset.FileEntry{File: filepath.Base(res.SalesFile), Rows: res.Sales},
			SaleItems: dataset.FileEntry{File: filepath.Base(res.ItemsFile), Rows: res.SaleItems},
		})
		m.Totals.Sales += res.Sales
		m.Totals.SaleItems += res.SaleItems
		g.reporter.ShardWritten(res, len(plans))
	}

	if err := dataset.WriteManifest(opts.OutDir, m); err != nil {
		return nil, err
	}
	g.reporter.Finished(m)
	return m, nil
}

func (g *Generator) writeTable(t dataset.Table, records [][]string) (dataset.FileEntry, error) {
	path := filepath.Join(g.opts.OutDir, t.FileName(g.opts.Compress))
	w, err := dataset.Create(path, t)
	if err != nil {
		return dataset.FileEntry{}, err
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			w.Close()
			return dataset.FileEntry{}, err
		}
	}
	if err := w.Close(); err != nil {
		return dataset.FileEntry{}, err
	}
	g.reporter.TableWritten(t.Name, path, len(records))
	return dataset.FileEntry{File: filepath.Base(path), Rows: len(records)}, nil
}

func (g *Generator) newManifest() *dataset.Manifest {
	o := g.opts
	return &dataset.Manifest{
		Seed:        o.Seed,
		NumSales:    o.NumSales,
		ShardSales:  o.ShardSales,
		NumProducts: o.NumProducts,
		AvgItems:    o.AvgItems,
		MaxItems:    o.MaxItems,
		StartDate:   o.StartDate,
		Days:        o.Days,
		OpenHour:    o.Hours.Open,
		CloseHour:   o.Hours.Close,
		BasketLow:   o.Basket.Low,
		BasketHigh:  o.Basket.High,
		MaxQuantity: max(1, o.Quantity.Max),
		Compress:    o.Compress,
	}
}

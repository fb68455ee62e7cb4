package loader

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Lumos-Labs-HQ/podgen/internal/config"
	"github.com/Lumos-Labs-HQ/podgen/internal/database"
	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
)

type Options struct {
	DataDir    string
	BatchSizes config.BatchSizes
	InitSchema bool
}

// OptionsFrom takes the loader section of a configuration.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		DataDir:    cfg.Loader.DataDir,
		BatchSizes: cfg.Loader.BatchSizes,
		InitSchema: cfg.Loader.InitSchema,
	}
}

// TableResult counts what was read and inserted for one table.
type TableResult struct {
	Table    string
	Files    int
	Rows     int
	Merged   int
	Inserted int64
}

// Loader inserts a generated output directory into a database, table by table
// in dependency order. Rows whose key already exists are skipped, so loading
// the same directory twice leaves the database unchanged.
type Loader struct {
	db       database.DatabaseAdapter
	opts     Options
	reporter Reporter
}

func New(db database.DatabaseAdapter, opts Options, reporter Reporter) (*Loader, error) {
	if opts.DataDir == "" {
		return nil, failure.Configurationf("loader data directory cannot be empty")
	}
	for _, t := range dataset.Tables {
		if opts.BatchSizes.For(t.Name) <= 0 {
			return nil, failure.Configurationf("batch size for %s must be positive", t.Name)
		}
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Loader{db: db, opts: opts, reporter: reporter}, nil
}

// Run loads every table and returns the per-table results.
func (l *Loader) Run(ctx context.Context) ([]TableResult, error) {
	layout, err := dataset.Discover(l.opts.DataDir)
	if err != nil {
		return nil, err
	}
	l.reporter.Started(layout)

	if l.opts.InitSchema {
		if err := l.db.ExecuteSchema(ctx, l.db.Schema()); err != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
		l.reporter.SchemaApplied()
	}

	files := map[string][]string{
		dataset.Stores.Name:   {layout.Stores},
		dataset.Products.Name: {layout.Products},
	}
	for _, shard := range layout.Shards {
		files[dataset.Sales.Name] = append(files[dataset.Sales.Name], shard.Sales)
		files[dataset.SaleItems.Name] = append(files[dataset.SaleItems.Name], shard.SaleItems)
	}

	results := make([]TableResult, 0, len(dataset.Tables))
	for _, t := range dataset.Tables {
		res := TableResult{Table: t.Name}
		for _, path := range files[t.Name] {
			if err := ctx.Err(); err != nil {
				return results, fmt.Errorf("load stopped before %s: %w", path, err)
			}
			file, err := l.loadFile(ctx, t, path)
			if err != nil {
				return results, err
			}
			res.Files++
			res.Rows += file.Rows
			res.Merged += file.Merged
			res.Inserted += file.Inserted
			l.reporter.FileLoaded(path, file)
		}
		results = append(results, res)
		l.reporter.TableLoaded(res)
	}
	return results, nil
}

func (l *Loader) loadFile(ctx context.Context, t dataset.Table, path string) (TableResult, error) {
	res := TableResult{Table: t.Name, Files: 1}
	batchSize := l.opts.BatchSizes.For(t.Name)

	r, err := dataset.Open(path, t)
	if err != nil {
		return res, err
	}
	defer r.Close()

	var rows [][]interface{}
	var batch [][]interface{}
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		inserted, err := l.db.InsertIgnore(ctx, t, batch)
		if err != nil {
			return fmt.Errorf("failed to insert batch into %s from %s: %w", t.Name, path, err)
		}
		res.Inserted += inserted
		batch = batch[:0]
		return nil
	}

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}
		row, err := convertRow(t, record)
		if err != nil {
			return res, failure.IO(err, "%s line %d", path, r.Line())
		}
		res.Rows++

		// items are merged per file before inserting; other tables stream
		if t.Name == dataset.SaleItems.Name {
			rows = append(rows, row)
			continue
		}
		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return res, err
			}
		}
	}

	if t.Name == dataset.SaleItems.Name {
		rows, res.Merged = mergeLines(rows)
		for start := 0; start < len(rows); start += batchSize {
			batch = rows[start:min(start+batchSize, len(rows))]
			if err := flush(); err != nil {
				return res, err
			}
		}
		return res, nil
	}
	return res, flush()
}

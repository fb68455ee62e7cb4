package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"gopkg.in/yaml.v3"
)

// ManifestFile is written last by a successful generation run. Its absence marks
// an incomplete output directory.
const ManifestFile = "manifest.yaml"

// Manifest records what a generation run produced and with which parameters.
// It holds no timestamps so that reruns with the same seed are byte-identical.
type Manifest struct {
	Seed        int64        `yaml:"seed"`
	NumSales    int          `yaml:"num_sales"`
	ShardSales  int          `yaml:"shard_sales"`
	NumProducts int          `yaml:"num_products"`
	AvgItems    float64      `yaml:"avg_items"`
	MaxItems    int          `yaml:"max_items"`
	StartDate   string       `yaml:"start_date"`
	Days        int          `yaml:"days"`
	OpenHour    int          `yaml:"open_hour"`
	CloseHour   int          `yaml:"close_hour"`
	BasketLow   float64      `yaml:"basket_low"`
	BasketHigh  float64      `yaml:"basket_high"`
	MaxQuantity int          `yaml:"max_quantity"`
	Compress    bool         `yaml:"compress"`
	Stores      FileEntry    `yaml:"stores"`
	Products    FileEntry    `yaml:"products"`
	Shards      []ShardEntry `yaml:"shards"`
	Totals      Totals       `yaml:"totals"`
}

type FileEntry struct {
	File string `yaml:"file"`
	Rows int    `yaml:"rows"`
}

type ShardEntry struct {
	Index     int       `yaml:"index"`
	Sales     FileEntry `yaml:"sales"`
	SaleItems FileEntry `yaml:"sale_items"`
}

type Totals struct {
	Sales     int `yaml:"sales"`
	SaleItems int `yaml:"sale_items"`
}

// WriteManifest writes m to dir/manifest.yaml.
func WriteManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return failure.IO(err, "write %s", path)
	}
	return nil
}

// ReadManifest reads dir/manifest.yaml. A missing file yields an error matching os.ErrNotExist.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, failure.IO(err, "parse %s", path)
	}
	return &m, nil
}

// Layout lists the table files of an output directory in load order.
type Layout struct {
	Dir      string
	Stores   string
	Products string
	Shards   []ShardFiles
	Manifest *Manifest
}

type ShardFiles struct {
	Index     int
	Sales     string
	SaleItems string
}

// Discover locates the table files in dir, from the manifest when present and
// otherwise by file name.
func Discover(dir string) (*Layout, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, failure.IO(err, "data directory %s", dir)
	}
	if !info.IsDir() {
		return nil, failure.Configurationf("data directory %s is not a directory", dir)
	}

	m, err := ReadManifest(dir)
	switch {
	case err == nil:
		return layoutFromManifest(dir, m), nil
	case errors.Is(err, os.ErrNotExist):
		return layoutFromGlob(dir)
	default:
		return nil, err
	}
}

func layoutFromManifest(dir string, m *Manifest) *Layout {
	l := &Layout{
		Dir:      dir,
		Stores:   filepath.Join(dir, m.Stores.File),
		Products: filepath.Join(dir, m.Products.File),
		Manifest: m,
	}
	for _, s := range m.Shards {
		l.Shards = append(l.Shards, ShardFiles{
			Index:     s.Index,
			Sales:     filepath.Join(dir, s.Sales.File),
			SaleItems: filepath.Join(dir, s.SaleItems.File),
		})
	}
	return l
}

func layoutFromGlob(dir string) (*Layout, error) {
	l := &Layout{Dir: dir}

	var err error
	if l.Stores, err = findTableFile(dir, Stores); err != nil {
		return nil, err
	}
	if l.Products, err = findTableFile(dir, Products); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(dir, "sale*_[0-9]*.csv*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list shard files: %w", err)
	}

	byIndex := make(map[int]*ShardFiles)
	for _, path := range matches {
		table, idx, ok := parseShardFileName(path)
		if !ok {
			continue
		}
		shard, exists := byIndex[idx]
		if !exists {
			shard = &ShardFiles{Index: idx}
			byIndex[idx] = shard
		}
		if table == Sales.Name {
			shard.Sales = path
		} else {
			shard.SaleItems = path
		}
	}

	for _, shard := range byIndex {
		if shard.Sales == "" || shard.SaleItems == "" {
			return nil, failure.IO(os.ErrNotExist, "shard %06d in %s is missing its sales or sale_items file", shard.Index, dir)
		}
		l.Shards = append(l.Shards, *shard)
	}
	sort.Slice(l.Shards, func(i, j int) bool {
		return l.Shards[i].Index < l.Shards[j].Index
	})
	return l, nil
}

// RemoveTableFiles deletes every table file in dir, sharded or not, plain or
// compressed, and returns how many it removed. Other files are left alone.
func RemoveTableFiles(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, failure.IO(err, "list %s", dir)
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !isTableFileName(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			return removed, failure.IO(err, "remove stale %s", path)
		}
		removed++
	}
	return removed, nil
}

func isTableFileName(name string) bool {
	if _, _, ok := parseShardFileName(name); ok {
		return true
	}
	for _, t := range []Table{Stores, Products} {
		if name == t.FileName(false) || name == t.FileName(true) {
			return true
		}
	}
	return false
}

func findTableFile(dir string, t Table) (string, error) {
	for _, compressed := range []bool{false, true} {
		path := filepath.Join(dir, t.FileName(compressed))
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", failure.IO(os.ErrNotExist, "%s table not found in %s", t.Name, dir)
}

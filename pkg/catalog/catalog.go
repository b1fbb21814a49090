package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Catalog 是登记在案的全部项目定义，按项目名的小写字典序排列
type Catalog struct {
	records *orderedmap.OrderedMap[string, *ProjectRecord]
}

// Load 读取目录下所有 yml/yaml 项目定义文件
func Load(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var records []*ProjectRecord
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".yml" && ext != ".yaml" {
			continue
		}

		record, err := loadRecord(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return strings.ToLower(records[i].Name) < strings.ToLower(records[j].Name)
	})

	catalog := &Catalog{
		records: orderedmap.New[string, *ProjectRecord](),
	}
	for _, record := range records {
		if _, ok := catalog.records.Get(record.Key); ok {
			return nil, fmt.Errorf("duplicate project key %q", record.Key)
		}
		catalog.records.Set(record.Key, record)
	}

	return catalog, nil
}

// FromRecords 直接用内存里的项目定义组装目录，排序规则与 Load 相同
func FromRecords(records []*ProjectRecord) (*Catalog, error) {
	sorted := make([]*ProjectRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})

	catalog := &Catalog{
		records: orderedmap.New[string, *ProjectRecord](),
	}
	for _, record := range sorted {
		if err := record.Validate(); err != nil {
			return nil, err
		}
		if _, ok := catalog.records.Get(record.Key); ok {
			return nil, fmt.Errorf("duplicate project key %q", record.Key)
		}
		catalog.records.Set(record.Key, record)
	}

	return catalog, nil
}

func loadRecord(path string) (*ProjectRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var record ProjectRecord
	if err = yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err = record.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &record, nil
}

func (c *Catalog) Get(key string) (*ProjectRecord, bool) {
	return c.records.Get(key)
}

func (c *Catalog) Len() int {
	return c.records.Len()
}

// Each 按排序顺序遍历全部项目定义
func (c *Catalog) Each(fn func(record *ProjectRecord)) {
	for pair := c.records.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Value)
	}
}

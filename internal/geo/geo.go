// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geo resolves free-form country, province and city names to the
// region codes the product search API filters on.
//
// Names are matched loosely: a trailing administrative suffix is dropped and
// the first table entry whose name contains the input wins. An unknown or
// empty name resolves to "" and is never an error.
package geo

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/travel-search/pkg/types"
)

//go:embed codes.yaml
var defaultTable []byte

// Entry maps one region name to its code.
type Entry struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

// Table is the on-disk code table. Order matters: earlier entries win.
type Table struct {
	Countries []Entry `yaml:"countries"`
	Provinces []Entry `yaml:"provinces"`
	Cities    []Entry `yaml:"cities"`
}

// Country names that genuinely end in 国 and must keep it.
var keepGuo = map[string]bool{
	"孟加拉国": true, "中国": true, "德国": true, "法国": true, "英国": true,
	"韩国": true, "泰国": true, "美国": true, "梵蒂冈城国": true,
}

// Resolver looks names up in a Table. It is read-only after construction.
type Resolver struct {
	table Table
}

// NewResolver returns a Resolver over t.
func NewResolver(t Table) *Resolver {
	return &Resolver{table: t}
}

// Default returns a Resolver over the built-in table.
func Default() (*Resolver, error) {
	return parse(defaultTable)
}

// Load reads a YAML table from path. An empty path loads the built-in table.
func Load(path string) (*Resolver, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading code table %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Resolver, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing code table: %w", err)
	}
	return NewResolver(t), nil
}

// CountryCode resolves a country name.
func (r *Resolver) CountryCode(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasSuffix(name, "国") && !keepGuo[name] {
		name = strings.TrimSuffix(name, "国")
	}
	return match(r.table.Countries, name)
}

// ProvinceCode resolves a province name.
func (r *Resolver) ProvinceCode(name string) string {
	return match(r.table.Provinces, trimSuffix(name, "省", "州"))
}

// CityCode resolves a city name.
func (r *Resolver) CityCode(name string) string {
	return match(r.table.Cities, trimSuffix(name, "市", "县"))
}

// Resolve builds a Filter from the three names.
func (r *Resolver) Resolve(country, province, city string) types.Filter {
	return types.Filter{
		CountryCode:  r.CountryCode(country),
		ProvinceCode: r.ProvinceCode(province),
		CityCode:     r.CityCode(city),
	}
}

func trimSuffix(name string, suffixes ...string) string {
	name = strings.TrimSpace(name)
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return strings.TrimSuffix(name, s)
		}
	}
	return name
}

func match(entries []Entry, name string) string {
	if name == "" {
		return ""
	}
	for _, e := range entries {
		if strings.Contains(e.Name, name) {
			return e.Code
		}
	}
	return ""
}

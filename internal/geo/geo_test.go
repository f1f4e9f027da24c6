// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/travel-search/pkg/types"
)

func defaultResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := Default()
	require.NoError(t, err)
	return r
}

func TestCountryCode(t *testing.T) {
	r := defaultResolver(t)
	tests := []struct {
		name string
		want string
	}{
		{"中国", "CN"},
		{"日本国", "JP"},
		{"日本", "JP"},
		{"泰国", "TH"},
		{"孟加拉国", "BD"},
		{"梵蒂冈城国", "VA"},
		{"新西", "NZ"},
		{" 法国 ", "FR"},
		{"", ""},
		{"火星", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.CountryCode(tt.name))
		})
	}
}

func TestProvinceCode(t *testing.T) {
	r := defaultResolver(t)
	assert.Equal(t, "530000", r.ProvinceCode("云南"))
	assert.Equal(t, "530000", r.ProvinceCode("云南省"))
	assert.Equal(t, "520000", r.ProvinceCode("贵州"), "州 suffix is trimmed then matched by substring")
	assert.Equal(t, "", r.ProvinceCode(""))
	assert.Equal(t, "", r.ProvinceCode("不存在省"))
}

func TestCityCode(t *testing.T) {
	r := defaultResolver(t)
	assert.Equal(t, "110100", r.CityCode("北京"))
	assert.Equal(t, "110100", r.CityCode("北京市"))
	assert.Equal(t, "532900", r.CityCode("大理"))
	assert.Equal(t, "", r.CityCode("县"))
}

func TestResolve(t *testing.T) {
	r := defaultResolver(t)
	f := r.Resolve("中国", "", "北京")
	assert.Equal(t, types.Filter{CountryCode: "CN", CityCode: "110100"}, f)
	assert.True(t, r.Resolve("", "", "").IsEmpty())
	assert.True(t, r.Resolve("火星", "", "不存在").IsEmpty())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cities:\n  - {name: 测试市, code: \"999\"}\n"), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "999", r.CityCode("测试"))
	assert.Equal(t, "", r.CountryCode("中国"))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("cities: [\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	r, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "CN", r.CountryCode("中国"))
}

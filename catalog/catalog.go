// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package catalog 是圖樣預設集的目錄：以 id / 名稱索引一或多個 fs.FS 內的設定檔。
package catalog

import (
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/setting"
)

var (
	ErrDupID    = errs.NewFatal("duplicate pattern id")
	ErrDupName  = errs.NewFatal("duplicate pattern name")
	ErrNotFound = errs.NewWarn("pattern not found")
	ErrFrozen   = errs.NewWarn("catalog already frozen")
)

type Entry struct {
	ID         setting.PID
	Name       string
	ConfigName string
}

// Summary 圖樣列表用的摘要
type Summary struct {
	ID           setting.PID `json:"id"`
	Name         string      `json:"name"`
	Distribution string      `json:"distribution"`
	Amount       int         `json:"amount"`
	Shapes       int         `json:"shapes"`
	Config       string      `json:"config"`
}

type Catalog struct {
	byID   map[setting.PID]Entry
	byName map[string]Entry
	ids    []setting.PID       // 用來穩定排序
	unique map[string]struct{} // 一個設定檔只能對應一個圖樣
	config *multiFS
	frozen bool
}

func New(cfg ...fs.FS) (*Catalog, error) {
	multFS, err := newMultiFS(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	return &Catalog{
		byID:   map[setting.PID]Entry{},
		byName: map[string]Entry{},
		ids:    make([]setting.PID, 0, 32),
		unique: map[string]struct{}{},
		config: multFS,
	}, nil
}

// NewAuto 建立目錄、掃描全部設定檔註冊後凍結。
func NewAuto(cfg ...fs.FS) (*Catalog, error) {
	c, err := New(cfg...)
	if err != nil {
		return nil, err
	}
	if err := c.RegisterAll(); err != nil {
		return nil, err
	}
	c.Freeze()
	return c, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register 批次註冊；任何一筆不合法則全部不寫入。
func (c *Catalog) Register(metas ...Entry) error {
	if c.frozen {
		return ErrFrozen
	}
	seenID := map[setting.PID]struct{}{}
	seenName := map[string]struct{}{}
	seenCfg := map[string]struct{}{}
	for i := range metas {
		meta := &metas[i]
		meta.Name = normalizeName(meta.Name)
		if meta.Name == "" {
			return errs.NewFatal("pattern name required")
		}
		if err := validFileName(meta.ConfigName); err != nil {
			return err
		}
		if _, ok := c.config.index[meta.ConfigName]; !ok {
			return errs.NewFatal(fmt.Sprintf("config file not found: %s", meta.ConfigName))
		}
		if _, ok := c.byID[meta.ID]; ok {
			return ErrDupID.With("id=%d", meta.ID)
		}
		if _, ok := c.byName[meta.Name]; ok {
			return ErrDupName.With("name=%s", meta.Name)
		}
		if _, ok := seenID[meta.ID]; ok {
			return ErrDupID.With("id=%d", meta.ID)
		}
		if _, ok := seenName[meta.Name]; ok {
			return ErrDupName.With("name=%s", meta.Name)
		}
		_, used := c.unique[meta.ConfigName]
		_, dup := seenCfg[meta.ConfigName]
		if used || dup {
			return errs.NewFatal(fmt.Sprintf("duplicate config name: %s", meta.ConfigName))
		}
		seenID[meta.ID] = struct{}{}
		seenName[meta.Name] = struct{}{}
		seenCfg[meta.ConfigName] = struct{}{}
	}
	for _, meta := range metas {
		c.unique[meta.ConfigName] = struct{}{}
		c.byID[meta.ID] = meta
		c.byName[meta.Name] = meta
		c.ids = append(c.ids, meta.ID)
	}
	slices.Sort(c.ids)
	return nil
}

// RegisterAll
//
// 掃描所有設定檔來源，把每個可辨識的設定檔解析成 *setting.PatternSetting，
// 以檔內宣告的 id / name 批次註冊。
//
//  1. Fail-fast：任何一個檔案讀取或解析失敗立即回傳。
//  2. 原子性：全部成功才一次性寫入。
//  3. 依檔名排序處理，行為可重現。
func (c *Catalog) RegisterAll() error {
	names := c.config.Names()
	if len(names) == 0 {
		return errs.NewFatal("no config files found to register")
	}
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		ps, err := c.parse(name)
		if err != nil {
			return errs.Wrap(err, "parse pattern setting failed: "+name)
		}
		entries = append(entries, Entry{ID: ps.ID, Name: ps.Name, ConfigName: name})
	}
	return c.Register(entries...)
}

func (c *Catalog) GetByID(id setting.PID) (Entry, bool) {
	m, ok := c.byID[id]
	return m, ok
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	m, ok := c.byName[normalizeName(name)]
	return m, ok
}

func (c *Catalog) IDs() []setting.PID {
	if len(c.ids) == 0 {
		return nil
	}
	return slices.Clone(c.ids)
}

func (c *Catalog) All() []Entry {
	m := make([]Entry, 0, len(c.ids))
	for _, id := range c.ids {
		m = append(m, c.byID[id])
	}
	return m
}

func (c *Catalog) Freeze() {
	c.frozen = true
}

func (c *Catalog) IsFrozen() bool {
	return c.frozen
}

// SettingByID 每次都重新讀檔解析，回傳的設定可自由覆寫。
func (c *Catalog) SettingByID(id setting.PID) (*setting.PatternSetting, error) {
	e, ok := c.GetByID(id)
	if !ok {
		return nil, ErrNotFound.With("id=%d", id)
	}
	return c.parse(e.ConfigName)
}

// SettingByName 同 SettingByID，以名稱查找（大小寫不敏感）。
func (c *Catalog) SettingByName(name string) (*setting.PatternSetting, error) {
	e, ok := c.GetByName(name)
	if !ok {
		return nil, ErrNotFound.With("name=%q", name)
	}
	return c.parse(e.ConfigName)
}

// Summary 依 id 順序列出所有已註冊圖樣的摘要。
func (c *Catalog) Summary() ([]Summary, error) {
	out := make([]Summary, 0, len(c.ids))
	for _, e := range c.All() {
		ps, err := c.parse(e.ConfigName)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{
			ID:           e.ID,
			Name:         e.Name,
			Distribution: string(ps.Distribution),
			Amount:       ps.Amount,
			Shapes:       len(ps.Shapes),
			Config:       e.ConfigName,
		})
	}
	return out, nil
}

func (c *Catalog) parse(name string) (*setting.PatternSetting, error) {
	src, ok := c.config.GetFS(name)
	if !ok {
		return nil, ErrNotFound.With("config=%s", name)
	}
	raw, err := fs.ReadFile(src, name)
	if err != nil {
		return nil, errs.Wrap(err, "catalog read file error")
	}
	return setting.ByExt(name, raw)
}

func validFileName(file string) error {
	if file == "" {
		return errs.NewFatal("empty config filename")
	}
	// 不能包含路徑字元
	if strings.ContainsAny(file, `/\:`) {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (must be a basename)", file))
	}
	if !setting.IsConfigFile(file) {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (must end with one of %v)", file, setting.Exts))
	}
	if strings.HasPrefix(file, ".") {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (cannot start with '.')", file))
	}
	return nil
}

type multiFS struct {
	src   []fs.FS
	index map[string]int // name -> src index
}

func newMultiFS(src ...fs.FS) (*multiFS, error) {
	if len(src) == 0 {
		return nil, errs.NewFatal("no fs provided")
	}
	for i, s := range src {
		if s == nil {
			return nil, errs.NewFatal(fmt.Sprintf("fs[%d] is nil", i))
		}
	}

	m := &multiFS{
		src:   src,
		index: make(map[string]int, 64),
	}

	// 預先建索引並檢查重複；設定目錄必須是扁平的
	for i := range src {
		err := fs.WalkDir(src[i], ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("config FS must be flat (no subdirectories): %q", path))
			}
			if strings.HasPrefix(path, ".") || !setting.IsConfigFile(path) {
				return nil
			}
			if prev, ok := m.index[path]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate config %q in fs[%d] and fs[%d]", path, prev, i))
			}
			m.index[path] = i
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *multiFS) GetFS(name string) (fs.FS, bool) {
	if id, ok := m.index[name]; ok {
		return m.src[id], ok
	}
	return nil, false
}

// Names 依字母序回傳所有已索引的設定檔名。
func (m *multiFS) Names() []string {
	out := make([]string, 0, len(m.index))
	for name := range m.index {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

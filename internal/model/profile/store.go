package profile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound 表示没有对应 ID 的顾问角色。
var ErrNotFound = errors.New("advisor profile not found")

// Store 顾问角色的只读访问。
type Store interface {
	List() []Profile
	FindByID(id string) (Profile, error)
}

// MemoryStore 启动时载入的角色表，按 ID 建立索引，只读。
type MemoryStore struct {
	order []string
	byID  map[string]Profile
}

// NewMemoryStore 载入角色。空 ID 被跳过；重复 ID 以后出现的为准，保留首次出现的位置。
func NewMemoryStore(items []Profile) *MemoryStore {
	s := &MemoryStore{byID: make(map[string]Profile, len(items))}
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		item.ID = id
		if _, seen := s.byID[id]; !seen {
			s.order = append(s.order, id)
		}
		s.byID[id] = item
	}
	return s
}

// List 按载入顺序返回角色副本。
func (s *MemoryStore) List() []Profile {
	out := make([]Profile, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// FindByID 未找到时返回包装了 ErrNotFound 的错误。
func (s *MemoryStore) FindByID(id string) (Profile, error) {
	p, ok := s.byID[id]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

// renderer/items.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

// BatchItem is one quad recorded during a pass.
type BatchItem struct {
	TextureID uint32
	Depth     float32
	Quad      Quad
}

// itemStore is a fixed-capacity arena of BatchItems. Its storage is
// allocated once and reused across passes; reset only rewinds the count.
type itemStore struct {
	items []BatchItem
	n     int
}

func makeItemStore(capacity int) itemStore {
	return itemStore{items: make([]BatchItem, capacity)}
}

func (s *itemStore) reset() {
	s.n = 0
}

func (s *itemStore) len() int {
	return s.n
}

func (s *itemStore) capacity() int {
	return len(s.items)
}

func (s *itemStore) remaining() int {
	return len(s.items) - s.n
}

// add appends a quad; callers must have checked remaining.
func (s *itemStore) add(texture uint32, depth float32, q Quad) {
	s.items[s.n] = BatchItem{TextureID: texture, Depth: depth, Quad: q}
	s.n++
}

// active returns the items added since the last reset.
func (s *itemStore) active() []BatchItem {
	return s.items[:s.n]
}

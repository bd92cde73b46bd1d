// util/util_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestSelect(t *testing.T) {
	if Select(true, 1, 2) != 1 || Select(false, 1, 2) != 2 {
		t.Errorf("Select returned the wrong value")
	}
}

func TestSortedMapKeys(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	if k := SortedMapKeys(m); !slices.Equal(k, []string{"a", "b", "c"}) {
		t.Errorf("got keys %v, expected [a b c]", k)
	}

	sum := ReduceMap(m, func(k string, v int, r int) int { return r + v }, 0)
	if sum != 6 {
		t.Errorf("ReduceMap got %d, expected 6", sum)
	}
}

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.HaveErrors() {
		t.Errorf("fresh ErrorLogger has errors")
	}

	e.ErrorString("top level %d", 1)
	e.Push("renderer")
	e.Push("MaxIndexCount")
	e.Error(errors.New("not a multiple of 6"))
	if e.CurrentDepth() != 2 {
		t.Errorf("depth got %d, expected 2", e.CurrentDepth())
	}
	e.Pop()
	e.Pop()

	expected := "top level 1\nrenderer / MaxIndexCount: not a multiple of 6"
	if e.String() != expected {
		t.Errorf("got %q, expected %q", e.String(), expected)
	}
	if !e.HaveErrors() {
		t.Errorf("expected errors")
	}
}

func TestEncodeObject(t *testing.T) {
	type payload struct {
		Name   string
		Values []uint32
	}
	in := payload{Name: "frame", Values: []uint32{1, 2, 3, 0xffffffff}}

	var buf bytes.Buffer
	if err := EncodeObject(&buf, in); err != nil {
		t.Fatalf("EncodeObject: %v", err)
	}

	var out payload
	if err := DecodeObject(&buf, &out); err != nil {
		t.Fatalf("DecodeObject: %v", err)
	}
	if out.Name != in.Name || !slices.Equal(out.Values, in.Values) {
		t.Errorf("got %+v, expected %+v", out, in)
	}

	if err := DecodeObject(strings.NewReader("not zstd"), &out); err == nil {
		t.Errorf("expected error decoding garbage")
	}
}

package tak

import (
	"reflect"
	"testing"
)

func TestMkSlides(t *testing.T) {
	cases := []struct {
		out uint32
		in  []int
	}{
		{0, nil},
		{0x1, []int{1}},
		{0x321, []int{1, 2, 3}},
	}

	for _, tc := range cases {
		s := MkSlides(tc.in...)
		if uint32(s) != tc.out {
			t.Errorf("%v: got %x != %x", tc.in, s, tc.out)
		}
		if out := s.Slice(); !reflect.DeepEqual(out, tc.in) {
			t.Errorf("rt(%v) = %v", tc.in, out)
		}
		if s.Len() != len(tc.in) {
			t.Errorf("len(%v) = %d", tc.in, s.Len())
		}
	}
	s := MkSlides(2, 1, 3)
	if s.Sum() != 6 || s.First() != 2 || s.Last() != 3 {
		t.Errorf("sum/first/last = %d/%d/%d", s.Sum(), s.First(), s.Last())
	}
}

func TestPartitionsOrder(t *testing.T) {
	var got [][]int
	for _, s := range partitions[3] {
		got = append(got, s.Slice())
	}
	want := [][]int{{1}, {1, 1}, {1, 1, 1}, {1, 2}, {2}, {2, 1}, {3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("partitions[3] = %v", got)
	}
	if len(partitions[8]) != 255 {
		t.Errorf("len(partitions[8]) = %d", len(partitions[8]))
	}
}

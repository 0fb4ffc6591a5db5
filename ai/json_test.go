package ai

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"
)

func TestMarshalUnmarshal(t *testing.T) {
	cases := []struct {
		in  Weights
		out string
	}{
		{Weights{}, "{}"},
		{Weights{TopFlat: 100}, `{"TopFlat":100}`},
		{Weights{TopFlat: 100, Capstone: 150}, `{"TopFlat":100,"Capstone":150}`},
		{Weights{Groups: []int{0, 1, 2}}, `{"Groups":[0,1,2]}`},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			out, e := json.Marshal(&tc.in)
			if e != nil {
				t.Fatalf("Marshal(): %v", e)
			}
			if string(out) != tc.out {
				t.Fatalf("Marshal() = %q != %q", out, tc.out)
			}

			var back Weights
			e = json.Unmarshal(out, &back)
			if e != nil {
				t.Fatalf("Unmarshal(%q): %v", out, e)
			}
			if !reflect.DeepEqual(back, tc.in) {
				t.Errorf("roundtrip = %+v != %+v", back, tc.in)
			}
		})
	}
}

func TestParseWeights(t *testing.T) {
	w, err := ParseWeights(`{"Tempo": 7}`)
	if err != nil {
		t.Fatal(err)
	}
	if w.Tempo != 7 || w.TopFlat != DefaultWeights.TopFlat {
		t.Errorf("overlay: %+v", w)
	}
	if _, err := ParseWeights(`{"Bogus": 1}`); err == nil {
		t.Errorf("accepted an unknown feature")
	}
	w, err = ParseWeights("")
	if err != nil || !reflect.DeepEqual(*w, DefaultWeights) {
		t.Errorf("empty: %+v %v", w, err)
	}
}

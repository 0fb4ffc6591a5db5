package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
)

var _ json.Unmarshaler = &Weights{}

type weightsJSON Weights

// UnmarshalJSON overlays the fields present in bs onto ws and rejects
// unknown feature names.
func (ws *Weights) UnmarshalJSON(bs []byte) error {
	dec := json.NewDecoder(bytes.NewReader(bs))
	dec.DisallowUnknownFields()
	out := weightsJSON(*ws)
	if e := dec.Decode(&out); e != nil {
		return fmt.Errorf("weights: %w", e)
	}
	*ws = Weights(out)
	return nil
}

// Fingerprint identifies ws by a hash of its JSON form.
func (ws *Weights) Fingerprint() string {
	bs, e := json.Marshal(weightsJSON(*ws))
	if e != nil {
		panic(e)
	}
	h := fnv.New64a()
	h.Write(bs)
	return fmt.Sprintf("%016x", h.Sum64())
}

// ParseWeights reads weights from JSON on top of DefaultWeights.
func ParseWeights(s string) (*Weights, error) {
	w := DefaultWeights
	w.Groups = append([]int(nil), DefaultWeights.Groups...)
	if s == "" {
		return &w, nil
	}
	if e := json.Unmarshal([]byte(s), &w); e != nil {
		return nil, e
	}
	return &w, nil
}

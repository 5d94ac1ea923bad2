// Package catalog holds the canonical table of banking intents and their
// canned answers.
package catalog

import (
	"sort"

	"banking-chatbot/internal/common/logger"
)

// Size is the number of categories the classifier is trained on.
const Size = 77

// Fallback answers any id without an entry.
const Fallback = "I'm sorry, I can't assist with that request."

// Entry is one fine-grained intent.
type Entry struct {
	ID       int
	Name     string
	Response string
}

// Lookup returns the entry for id.
func Lookup(id int) (Entry, bool) {
	if id < 0 || id >= Size {
		return Entry{}, false
	}
	return entries[id], true
}

// Resolve returns the canned response for id, or Fallback.
func Resolve(id int) string {
	if e, ok := Lookup(id); ok {
		return e.Response
	}
	return Fallback
}

// Name returns the intent name for id.
func Name(id int) (string, bool) {
	e, ok := Lookup(id)
	return e.Name, ok
}

// All returns a copy of the table in id order.
func All() []Entry {
	out := make([]Entry, Size)
	copy(out, entries[:])
	return out
}

// Mismatch is a disagreement between a training-time mapping and the table.
type Mismatch struct {
	ID   int    `json:"id"`
	Want string `json:"want,omitempty"`
	Got  string `json:"got,omitempty"`
}

// CrossCheck compares a loaded id → name mapping with the table. Every
// disagreement is logged as a warning and returned; none is fatal.
func CrossCheck(mapping map[int]string, log logger.Logger) []Mismatch {
	var out []Mismatch
	for id, got := range mapping {
		want, ok := Name(id)
		if !ok || want != got {
			out = append(out, Mismatch{ID: id, Want: want, Got: got})
		}
	}
	for id := 0; id < Size; id++ {
		if _, ok := mapping[id]; !ok {
			out = append(out, Mismatch{ID: id, Want: entries[id].Name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if log != nil {
		for _, m := range out {
			log.Warn("category mapping disagrees with response catalog", map[string]interface{}{
				"category_id": m.ID,
				"catalog":     m.Want,
				"mapping":     m.Got,
			})
		}
	}
	return out
}

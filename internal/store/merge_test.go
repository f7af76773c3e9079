package store

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMergePatch(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		patch string
		want  string
	}{
		{name: "replace member", doc: `{"a":1,"b":2}`, patch: `{"a":3}`, want: `{"a":3,"b":2}`},
		{name: "null removes", doc: `{"a":1,"b":2}`, patch: `{"b":null}`, want: `{"a":1}`},
		{name: "nested merge", doc: `{"a":{"x":1,"y":2}}`, patch: `{"a":{"y":3}}`, want: `{"a":{"x":1,"y":3}}`},
		{name: "arrays replace", doc: `{"tags":["a","b"]}`, patch: `{"tags":["c"]}`, want: `{"tags":["c"]}`},
		{name: "object over scalar", doc: `{"a":1}`, patch: `{"a":{"b":1}}`, want: `{"a":{"b":1}}`},
		{name: "nested null removes", doc: `{"a":{"x":1,"y":2}}`, patch: `{"a":{"x":null}}`, want: `{"a":{"y":2}}`},
		{name: "empty patch", doc: `{"a":1}`, patch: `{}`, want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mergePatch([]byte(tt.doc), []byte(tt.patch))
			if err != nil {
				t.Fatalf("mergePatch() error = %v", err)
			}
			var g, w any
			_ = json.Unmarshal(got, &g)
			_ = json.Unmarshal([]byte(tt.want), &w)
			gb, _ := json.Marshal(g)
			wb, _ := json.Marshal(w)
			if string(gb) != string(wb) {
				t.Errorf("mergePatch() = %s, want %s", gb, wb)
			}
		})
	}
}

func TestMergePatch_Rejects(t *testing.T) {
	for _, patch := range []string{`[1,2]`, `"name"`, `{"a":`, ``} {
		if _, err := mergePatch([]byte(`{"a":1}`), []byte(patch)); !errors.Is(err, ErrMalformed) {
			t.Errorf("mergePatch(%q) error = %v, want ErrMalformed", patch, err)
		}
	}
}

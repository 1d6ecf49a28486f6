package llm

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestStringList_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want StringList
	}{
		{in: `{"recommendations":["a","b"]}`, want: StringList{"a", "b"}},
		{in: `{"recommendations":"single"}`, want: StringList{"single"}},
		{in: `{"recommendations":"  "}`, want: nil},
		{in: `{"recommendations":null}`, want: nil},
		{in: `{}`, want: nil},
	}
	for _, tc := range cases {
		var raw RawSuggestion
		if err := json.Unmarshal([]byte(tc.in), &raw); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", tc.in, err)
		}
		if !reflect.DeepEqual(raw.Recommendations, tc.want) {
			t.Errorf("Unmarshal(%s) recommendations = %#v; want %#v", tc.in, raw.Recommendations, tc.want)
		}
	}
}

func TestStringList_UnmarshalJSON_RejectsObjects(t *testing.T) {
	t.Parallel()

	var raw RawSuggestion
	if err := json.Unmarshal([]byte(`{"recommendations":{"a":1}}`), &raw); err == nil {
		t.Fatal("expected error for object recommendations, got nil")
	}
}

package handlers

import (
	"encoding/json"
	"testing"
)

func TestParseIDList(t *testing.T) {
	got, err := parseIDList("3, 1,,2")
	if err != nil {
		t.Fatalf("parseIDList: %v", err)
	}
	if len(got) != 3 || got[0] != 3 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("order not kept: %v", got)
	}
	if _, err := parseIDList("1,-2"); err == nil {
		t.Fatalf("want error for negative id")
	}
}

func TestFlexIDUnmarshal(t *testing.T) {
	var body struct {
		IDs []flexID `json:"ids"`
	}
	if err := json.Unmarshal([]byte(`{"ids":[1,"2"," 3 "]}`), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := flexIDs(body.IDs); len(got) != 3 || got[2] != 3 {
		t.Fatalf("ids: %v", got)
	}
	if err := json.Unmarshal([]byte(`{"ids":["x"]}`), &body); err == nil {
		t.Fatalf("want error for non-numeric id")
	}
}

package tools

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestStringArg(t *testing.T) {
	args := map[string]any{"s": "value", "n": 3.0, "nil": nil}

	if got, err := StringArg(args, "s", "d"); err != nil || got != "value" {
		t.Errorf("present: got %q, %v", got, err)
	}
	if got, err := StringArg(args, "absent", "d"); err != nil || got != "d" {
		t.Errorf("absent: got %q, %v", got, err)
	}
	if got, err := StringArg(args, "nil", "d"); err != nil || got != "d" {
		t.Errorf("null: got %q, %v", got, err)
	}
	if _, err := StringArg(args, "n", "d"); !errors.Is(err, ErrInvalidArgType) {
		t.Errorf("wrong type: got %v, want ErrInvalidArgType", err)
	}
}

func TestIntArg(t *testing.T) {
	// JSON decoding delivers numbers as float64.
	args := map[string]any{"whole": 42.0, "frac": 1.5, "s": "7"}

	if got, err := IntArg(args, "whole", 0); err != nil || got != 42 {
		t.Errorf("whole: got %d, %v", got, err)
	}
	if got, err := IntArg(args, "absent", 9); err != nil || got != 9 {
		t.Errorf("absent: got %d, %v", got, err)
	}
	if _, err := IntArg(args, "frac", 0); !errors.Is(err, ErrInvalidArgType) {
		t.Errorf("fractional: got %v, want ErrInvalidArgType", err)
	}
	if _, err := IntArg(args, "s", 0); !errors.Is(err, ErrInvalidArgType) {
		t.Errorf("string: got %v, want ErrInvalidArgType", err)
	}
}

func TestBoolArg(t *testing.T) {
	args := map[string]any{"b": true, "s": "true"}

	if got, err := BoolArg(args, "b", false); err != nil || !got {
		t.Errorf("present: got %v, %v", got, err)
	}
	if got, err := BoolArg(args, "absent", true); err != nil || !got {
		t.Errorf("absent: got %v, %v", got, err)
	}
	if _, err := BoolArg(args, "s", false); !errors.Is(err, ErrInvalidArgType) {
		t.Errorf("string: got %v, want ErrInvalidArgType", err)
	}
}

func TestSchemaMarshalJSON(t *testing.T) {
	schema := Schema{
		Required: []string{"query"},
		Properties: map[string]Property{
			"query": {Type: "string", Description: "search text"},
		},
	}

	out, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["type"] != "object" {
		t.Errorf("type = %v, want object", decoded["type"])
	}
	if req, ok := decoded["required"].([]any); !ok || len(req) != 1 || req[0] != "query" {
		t.Errorf("required = %v", decoded["required"])
	}
}

func TestSchemaMarshalJSONEmpty(t *testing.T) {
	// Tools with no arguments still need required/properties present, as
	// arrays and objects, not null.
	out, err := json.Marshal(Schema{})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := decoded["required"].([]any); !ok {
		t.Errorf("required = %v, want empty array", decoded["required"])
	}
	if _, ok := decoded["properties"].(map[string]any); !ok {
		t.Errorf("properties = %v, want empty object", decoded["properties"])
	}
}

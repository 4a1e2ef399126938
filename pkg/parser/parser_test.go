package parser

import "testing"

func TestParse_JSONObject(t *testing.T) {
	parsed, err := Default().Parse(`{"loadId":"L1","weight":42}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed["loadId"] != "L1" {
		t.Fatalf("expected loadId L1, got %v", parsed["loadId"])
	}
	if parsed["weight"].(float64) != 42 {
		t.Fatalf("expected weight 42, got %v", parsed["weight"])
	}
}

func TestParse_KeyValuePairs(t *testing.T) {
	parsed, err := Default().Parse("loadId=L7\ncarrier = ACME \n\nstop=2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed["loadId"] != "L7" {
		t.Fatalf("expected L7, got %v", parsed["loadId"])
	}
	if parsed["carrier"] != "ACME" {
		t.Fatalf("expected trimmed ACME, got %q", parsed["carrier"])
	}
	if len(parsed) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(parsed))
	}
}

func TestParse_MalformedJSONFails(t *testing.T) {
	_, err := Default().Parse(`{"loadId":`)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !IsParseError(err) {
		t.Fatalf("expected ParseError, got %T", err)
	}
}

func TestParse_UnstructuredContentFails(t *testing.T) {
	for _, raw := range []string{"INVALID", "", "   ", "just words\nno pairs"} {
		_, err := Default().Parse(raw)
		if err == nil {
			t.Fatalf("expected error for %q", raw)
		}
		if !IsParseError(err) {
			t.Fatalf("expected ParseError for %q, got %T", raw, err)
		}
	}
}

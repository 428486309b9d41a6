// internal/report/report_test.go
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/mwiater/llmbench/internal/benchmark"
)

func init() {
	color.NoColor = true
}

func sampleOutcomes() []benchmark.Outcome {
	return []benchmark.Outcome{
		{ProviderName: "Local", Model: "m1", Result: benchmark.Aggregate{AvgTTFT: 0.25, AvgTPS: 42.123}},
		{ProviderName: "Remote", Model: "m2", Err: errors.New("open stream Remote/m2: 401 invalid api key")},
		{ProviderName: "Local", Model: "m3", Result: benchmark.Aggregate{AvgTTFT: 1.23456, AvgTPS: 0}},
	}
}

func TestRowsFormatsSuccessAndFailure(t *testing.T) {
	rows := Rows(sampleOutcomes())
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if rows[0].Provider != "Local" || rows[0].Model != "m1" || rows[0].TTFT != "0.250" || rows[0].TPS != "42.12" {
		t.Fatalf("unexpected success row: %+v", rows[0])
	}
	if !rows[1].Failed || rows[1].TTFT != ErrorMarker {
		t.Fatalf("expected error marker in failure row, got %+v", rows[1])
	}
	if !strings.Contains(rows[1].TPS, "invalid api key") {
		t.Fatalf("expected error text in TPS column, got %q", rows[1].TPS)
	}
	if rows[2].TTFT != "1.235" || rows[2].TPS != "0.00" {
		t.Fatalf("unexpected rounding: %+v", rows[2])
	}
}

func TestRowsFlattensAndTruncatesLongErrors(t *testing.T) {
	long := errors.New("first line\nsecond line " + strings.Repeat("x", 200))
	rows := Rows([]benchmark.Outcome{{ProviderName: "P", Model: "m", Err: long}})

	if strings.Contains(rows[0].TPS, "\n") {
		t.Fatalf("expected a single-line error cell, got %q", rows[0].TPS)
	}
	if !strings.HasPrefix(rows[0].TPS, "first line second line") || !strings.HasSuffix(rows[0].TPS, "…") {
		t.Fatalf("unexpected truncated error cell: %q", rows[0].TPS)
	}
	if rows[0].Error != long.Error() {
		t.Fatalf("expected the full error to be kept, got %q", rows[0].Error)
	}

	var buf bytes.Buffer
	if err := RenderJSON(&buf, rows); err != nil {
		t.Fatalf("RenderJSON returned error: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded[0]["error"] != long.Error() {
		t.Fatalf("expected JSON to carry the untruncated error, got %v", decoded[0]["error"])
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, "LLM provider performance (mean of 3 runs per model)", Rows(sampleOutcomes())); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"LLM provider performance (mean of 3 runs per model)",
		"Provider", "Model", "Avg TTFT (s)", "Avg TPS (tokens/s)",
		"Local", "m1", "0.250", "42.12",
		"Remote", "error",
		"2/3 pairs succeeded",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "m1") > strings.Index(out, "m2") || strings.Index(out, "m2") > strings.Index(out, "m3") {
		t.Fatalf("expected rows in outcome order:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(nil); got != "0/0 pairs succeeded" {
		t.Fatalf("unexpected summary: %q", got)
	}
	rows := []Row{{Failed: true}, {Failed: true}}
	if got := Summary(rows); got != "0/2 pairs succeeded" {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "json", "ignored", Rows(sampleOutcomes())); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(decoded))
	}
	if decoded[0]["provider"] != "Local" || decoded[0]["avg_ttft_seconds"] != 0.25 {
		t.Fatalf("unexpected first entry: %v", decoded[0])
	}
	if _, ok := decoded[1]["avg_tps"]; ok {
		t.Fatalf("failed entry should not carry measurements: %v", decoded[1])
	}
	if !strings.Contains(decoded[1]["error"].(string), "401") {
		t.Fatalf("expected error text, got %v", decoded[1])
	}
	if v, ok := decoded[2]["avg_tps"]; !ok || v != 0.0 {
		t.Fatalf("expected a zero TPS to be reported, got %v", decoded[2])
	}
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, "csv", "t", nil); err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}

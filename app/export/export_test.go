package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"tasklist/app/models"
)

var sample = []models.Task{
	{ID: 2, Text: "Pay rent", Priority: models.PriorityHigh, Deadline: "2024-02-01"},
	{ID: 1, Text: "Water, plants", Priority: models.PriorityLow, Completed: true},
}

func TestExportCSV(t *testing.T) {
	b, err := Export(sample, "csv")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	want := "id,text,priority,deadline,completed\n" +
		"2,Pay rent,High,2024-02-01,false\n" +
		"1,\"Water, plants\",Low,,true\n"
	if string(b) != want {
		t.Errorf("unexpected csv:\n%s", b)
	}
}

func TestExportJSON(t *testing.T) {
	b, err := Export(sample, "JSON")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	var got []models.Task
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 2 || got[0] != sample[0] {
		t.Errorf("unexpected tasks %+v", got)
	}

	b, _ = Export(nil, "json")
	if strings.TrimSpace(string(b)) != "[]" {
		t.Errorf("expected [], got %s", b)
	}
}

func TestExportPDF(t *testing.T) {
	b, err := Export(sample, "pdf")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Errorf("output is not a pdf")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	if _, err := Export(sample, "xml"); err == nil {
		t.Errorf("expected an error for xml")
	}
}

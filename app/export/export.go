package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"tasklist/app/models"
)

// Formats lists the supported export formats.
var Formats = []string{"json", "csv", "pdf"}

// Export renders tasks, in the order given, as json, csv or pdf.
func Export(tasks []models.Task, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		if tasks == nil {
			tasks = []models.Task{}
		}
		return json.MarshalIndent(tasks, "", "  ")
	case "csv":
		var b bytes.Buffer
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"id", "text", "priority", "deadline", "completed"})
		for _, t := range tasks {
			_ = w.Write([]string{strconv.FormatInt(t.ID, 10), t.Text, string(t.Priority), t.Deadline, strconv.FormatBool(t.Completed)})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	case "pdf":
		return pdf(tasks)
	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}
}

// ContentType returns the MIME type for a supported format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "csv":
		return "text/csv"
	case "pdf":
		return "application/pdf"
	}
	return "application/json"
}

func pdf(tasks []models.Task) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Arial", "B", 14)
	doc.Cell(40, 10, "Task List")
	doc.Ln(12)

	doc.SetFont("Arial", "B", 10)
	doc.CellFormat(20, 7, "Priority", "1", 0, "L", false, 0, "")
	doc.CellFormat(28, 7, "Deadline", "1", 0, "L", false, 0, "")
	doc.CellFormat(22, 7, "Status", "1", 0, "L", false, 0, "")
	doc.CellFormat(0, 7, "Task", "1", 1, "L", false, 0, "")

	doc.SetFont("Arial", "", 10)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	for _, t := range tasks {
		status := "Pending"
		if t.Completed {
			status = "Done"
		}
		doc.CellFormat(20, 7, tr(string(t.Priority)), "1", 0, "L", false, 0, "")
		doc.CellFormat(28, 7, tr(t.Deadline), "1", 0, "L", false, 0, "")
		doc.CellFormat(22, 7, status, "1", 0, "L", false, 0, "")
		doc.CellFormat(0, 7, tr(t.Text), "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

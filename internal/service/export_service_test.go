package service

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestRenderCSV(t *testing.T) {
	rows := [][]string{
		{"ID", "Title", "Amount"},
		{"1", "Office rent", "1200.50"},
		{"2", "Cloud hosting, eu-west", "89.99"},
	}

	data, err := renderCSV(rows)
	if err != nil {
		t.Fatalf("renderCSV: %v", err)
	}

	parsed, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parsing rendered csv: %v", err)
	}

	if len(parsed) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(parsed))
	}
	if parsed[0][1] != "Title" {
		t.Errorf("header row mismatch: %v", parsed[0])
	}
	if parsed[2][1] != "Cloud hosting, eu-west" {
		t.Errorf("comma in field not preserved: %q", parsed[2][1])
	}
}

func TestRenderXLSX(t *testing.T) {
	rows := [][]string{
		{"ID", "Name"},
		{"1", "MacBook Pro"},
		{"2", "Monitor"},
	}

	data, err := renderXLSX(rows, "assets")
	if err != nil {
		t.Fatalf("renderXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("opening rendered workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows("assets")
	if err != nil {
		t.Fatalf("reading sheet: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[1][1] != "MacBook Pro" {
		t.Errorf("cell mismatch: %v", got[1])
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	s := &ExportSvc{}

	_, _, err := s.render([][]string{{"a"}}, "payments", "pdf")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRenderDefaultsToCSV(t *testing.T) {
	s := &ExportSvc{}

	data, filename, err := s.render([][]string{{"a", "b"}}, "payments", "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if filename != "payments.csv" {
		t.Errorf("expected payments.csv, got %s", filename)
	}
	if !strings.HasPrefix(string(data), "a,b") {
		t.Errorf("unexpected csv output: %q", data)
	}
}

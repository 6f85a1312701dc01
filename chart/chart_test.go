package chart

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smarty/assertions"

	"loan-engine/amortization"
)

func schedule(t *testing.T) amortization.Result {
	t.Helper()
	res, err := amortization.BuildSchedule(amortization.LoanParameters{
		Principal:         1000000,
		AnnualRatePercent: 24,
		TermMonths:        24,
	})
	if err != nil {
		t.Fatalf("BuildSchedule() error = %v", err)
	}
	return res
}

type errorWriter struct{}

func (er *errorWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("error writer")
}

func TestRenderSchedule(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSchedule(&buf, "Loan repayment schedule", schedule(t)); err != nil {
		t.Fatalf("RenderSchedule() error = %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"Loan repayment schedule",
		`"name":"Principal"`,
		`"name":"Interest"`,
		`"name":"Balance"`,
		`"stack":"stackA"`,
		"echarts.min.js",
	} {
		if result := assertions.ShouldContainSubstring(html, want); result != "" {
			t.Errorf("RenderSchedule() output: %v", result)
		}
	}
}

func TestRenderSchedule_Errors(t *testing.T) {
	if err := RenderSchedule(&bytes.Buffer{}, "empty", amortization.Result{}); !errors.Is(err, ErrEmptySchedule) {
		t.Errorf("RenderSchedule() error = %v, want %v", err, ErrEmptySchedule)
	}
	if err := RenderSchedule(&errorWriter{}, "broken", schedule(t)); err == nil {
		t.Error("RenderSchedule() expected writer error, got nil")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFile(filepath.Join(dir, "loan-schedule"), "Loan", schedule(t)); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "loan-schedule.html"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("WriteFile() wrote an empty file")
	}

	if err := WriteFile("/invalid/path/test", "Loan", schedule(t)); err == nil {
		t.Error("WriteFile() expected error for invalid path, got nil")
	}
}

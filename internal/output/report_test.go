package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"attrsync/internal/results"
)

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	outcomes := []results.Outcome{
		{Repo: "octocat/alpha", Status: results.StatusSuccess},
		{Repo: "octocat/beta", Status: results.StatusError, Message: results.MessagePushFailed},
	}

	if err := WriteReport(path, outcomes); err != nil {
		t.Fatalf("WriteReport() = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var decoded []results.Outcome
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d outcomes, want 2", len(decoded))
	}
	if decoded[1].Message != results.MessagePushFailed {
		t.Fatalf("decoded message = %q, want %q", decoded[1].Message, results.MessagePushFailed)
	}
}

func TestWriteReportEmptyIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteReport(path, nil); err != nil {
		t.Fatalf("WriteReport() = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var decoded []results.Outcome
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded == nil || len(decoded) != 0 {
		t.Fatalf("decoded = %v, want empty array", decoded)
	}
}

func TestWriteReportBadPath(t *testing.T) {
	if err := WriteReport(filepath.Join(t.TempDir(), "missing-dir", "report.json"), nil); err == nil {
		t.Fatal("WriteReport() = nil, want error for unwritable path")
	}
}

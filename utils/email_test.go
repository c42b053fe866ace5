package utils

import (
	"fmt"
	"strings"
	"testing"

	"orgmanager-backend/dtos"
)

func TestImportSummaryBodyCompleted(t *testing.T) {
	job := dtos.ImportJob{
		Type:   "doctors",
		Status: dtos.JobStatusCompleted,
		Result: &dtos.ImportResult{
			TotalRecords: 3,
			SuccessCount: 2,
			ErrorCount:   1,
			Errors:       []dtos.ImportIssue{{Line: 2, Message: "organization 99 not found"}},
		},
	}

	if subject := ImportSummarySubject(job); subject != "Import of doctors completed" {
		t.Errorf("unexpected subject: %s", subject)
	}

	body := ImportSummaryBody("Ana Souza", job)
	for _, want := range []string{"Hi Ana,", "Total records: <strong>3</strong>", "Line 2: organization 99 not found"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q, got:\n%s", want, body)
		}
	}
}

func TestImportSummaryBodyFailed(t *testing.T) {
	job := dtos.ImportJob{Type: "users", Status: dtos.JobStatusFailed, Error: "no response received from API: <timeout>"}

	if subject := ImportSummarySubject(job); subject != "Import of users failed" {
		t.Errorf("unexpected subject: %s", subject)
	}

	body := ImportSummaryBody("", job)
	if !strings.Contains(body, "Hi there,") {
		t.Errorf("expected generic greeting, got:\n%s", body)
	}
	if !strings.Contains(body, "&lt;timeout&gt;") {
		t.Errorf("expected error to be escaped, got:\n%s", body)
	}
}

func TestImportSummaryBodyCapsErrors(t *testing.T) {
	result := &dtos.ImportResult{}
	for i := 1; i <= 25; i++ {
		result.Errors = append(result.Errors, dtos.ImportIssue{Line: i, Message: fmt.Sprintf("row %d", i)})
	}
	job := dtos.ImportJob{Type: "plants", Status: dtos.JobStatusCompleted, Result: result}

	body := ImportSummaryBody("Bia", job)
	if !strings.Contains(body, "and 5 more") {
		t.Errorf("expected truncated error list, got:\n%s", body)
	}
	if strings.Contains(body, "Line 21:") {
		t.Error("expected line 21 to be omitted")
	}
}

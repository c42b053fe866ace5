package dtos

import "time"

// ImportRequest is the JSON body accepted by the admin import endpoints.
// File uploads send the same fields as multipart form values instead.
type ImportRequest struct {
	Type         string        `json:"type" form:"type" binding:"required"`
	APIEndpoint  string        `json:"apiEndpoint" form:"apiEndpoint" binding:"omitempty,url"`
	APIAuth      *BasicAuthDTO `json:"apiAuth"`
	JSONData     string        `json:"jsonData" form:"jsonData"`
	ValidateOnly bool          `json:"validateOnly" form:"validateOnly"`
}

type BasicAuthDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
}

// ImportIssue is a per-row error or warning. Line is 1-based in source order;
// 0 means the issue applies to the whole batch.
type ImportIssue struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"` // validation, reference, persistence
}

// ImportResult is the outcome of a single import run.
type ImportResult struct {
	TotalRecords int           `json:"totalRecords"`
	SuccessCount int           `json:"successCount"`
	ErrorCount   int           `json:"errorCount"`
	Errors       []ImportIssue `json:"errors"`
	Warnings     []ImportIssue `json:"warnings"`
	ElapsedTime  int64         `json:"elapsedTime"` // milliseconds
	Type         string        `json:"type"`
	ValidateOnly bool          `json:"validateOnly"`
}

// ImportHistoryEntry is an ImportResult stamped with who ran it, when and how.
type ImportHistoryEntry struct {
	ImportResult
	Date   time.Time `json:"date"`
	UserID uint      `json:"userId"`
	Method string    `json:"method"` // Upload CSV, Upload Excel, Upload JSON, API, JSON
}

package storage

import (
	"strings"
	"testing"
)

func TestValidateContentType(t *testing.T) {
	tests := []struct {
		contentType string
		wantErr     bool
	}{
		{"text/csv", false},
		{"text/csv; charset=utf-8", false},
		{"APPLICATION/JSON", false},
		{"image/png", true},
		{"", true},
	}
	for _, tc := range tests {
		err := validateContentType(tc.contentType)
		if (err != nil) != tc.wantErr {
			t.Errorf("validateContentType(%q) error = %v, wantErr %v", tc.contentType, err, tc.wantErr)
		}
	}
}

func TestValidateFileSize(t *testing.T) {
	if err := validateFileSize(0, 10); err == nil {
		t.Error("expected error for empty file")
	}
	if err := validateFileSize(11, 10); err == nil {
		t.Error("expected error for oversized file")
	}
	if err := validateFileSize(10, 10); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestObjectKey(t *testing.T) {
	key := objectKey("/exports/2023-11-26/", "leads_2023-11-26.csv")
	if !strings.HasPrefix(key, "exports/2023-11-26/leads_2023-11-26_") || !strings.HasSuffix(key, ".csv") {
		t.Errorf("objectKey = %q", key)
	}
}

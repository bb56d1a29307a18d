package assets

import (
	"strings"
	"testing"
)

func TestValidateUpload(t *testing.T) {
	for _, tc := range []struct {
		name        string
		contentType string
		size        int64
		max         int64
		wantErr     string
	}{
		{"ImageOK", "image/png", 1024, 1 << 20, ""},
		{"VideoOK", "video/mp4", 1024, 1 << 20, ""},
		{"WithCharsetParam", "text/plain; charset=utf-8", 10, 1 << 20, ""},
		{"DisallowedType", "application/x-msdownload", 10, 1 << 20, "not allowed"},
		{"EmptyType", "", 10, 1 << 20, "not allowed"},
		{"TooLarge", "image/png", 2 << 20, 1 << 20, "exceeds limit"},
		{"NoLimit", "image/png", 2 << 30, 0, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUpload(tc.contentType, tc.size, tc.max)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestS3Storage_URL(t *testing.T) {
	s := &S3Storage{urlBase: "https://cdn.example.com"}
	if got := s.URL("clients/cl-1/abc"); got != "https://cdn.example.com/clients/cl-1/abc" {
		t.Fatalf("got %q", got)
	}

	empty := &S3Storage{}
	if got := empty.URL("clients/cl-1/abc"); got != "" {
		t.Fatalf("expected empty URL, got %q", got)
	}
}

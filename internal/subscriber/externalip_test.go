package subscriber

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupExternalIP(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{
			name:   "plain address",
			status: http.StatusOK,
			body:   "203.0.113.5",
			want:   "203.0.113.5",
		},
		{
			name:   "trailing newline trimmed",
			status: http.StatusOK,
			body:   "203.0.113.5\n",
			want:   "203.0.113.5",
		},
		{
			name:    "non-200 status",
			status:  http.StatusServiceUnavailable,
			body:    "busy",
			wantErr: true,
		},
		{
			name:    "not an IP address",
			status:  http.StatusOK,
			body:    "<html>blocked</html>",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := LookupExternalIP(context.Background(), srv.Client(), srv.URL)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("LookupExternalIP() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LookupExternalIP() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LookupExternalIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

package launcher

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Options
	}{
		{
			name: "no flags",
			args: nil,
			want: Options{},
		},
		{
			name: "daemon only",
			args: []string{"-d"},
			want: Options{Daemon: true},
		},
		{
			name: "external ip",
			args: []string{"-i", "203.0.113.5"},
			want: Options{ExternalIP: "203.0.113.5"},
		},
		{
			name: "external port",
			args: []string{"-p", "8080"},
			want: Options{ExternalPort: "8080"},
		},
		{
			name: "all flags combined",
			args: []string{"-d", "-i", "203.0.113.5", "-p", "8080"},
			want: Options{Daemon: true, ExternalIP: "203.0.113.5", ExternalPort: "8080"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts, help, err := ParseOptions(tt.args, &buf)
			if err != nil {
				t.Fatalf("ParseOptions(%v) error: %v", tt.args, err)
			}
			if help {
				t.Fatalf("ParseOptions(%v) unexpectedly requested help", tt.args)
			}
			if *opts != tt.want {
				t.Errorf("ParseOptions(%v) = %+v, want %+v", tt.args, *opts, tt.want)
			}
			if buf.Len() != 0 {
				t.Errorf("ParseOptions(%v) wrote %q without -h", tt.args, buf.String())
			}
		})
	}
}

func TestParseOptionsHelp(t *testing.T) {
	var buf bytes.Buffer
	opts, help, err := ParseOptions([]string{"-h"}, &buf)
	if err != nil {
		t.Fatalf("ParseOptions(-h) error: %v", err)
	}
	if !help {
		t.Fatal("ParseOptions(-h) did not request help")
	}
	if opts != nil {
		t.Errorf("ParseOptions(-h) returned options %+v, want nil", *opts)
	}
	if !strings.Contains(buf.String(), "-d") {
		t.Errorf("help output %q does not describe the flags", buf.String())
	}
}

func TestParseOptionsUnknownFlag(t *testing.T) {
	var buf bytes.Buffer
	_, help, err := ParseOptions([]string{"-x"}, &buf)
	if err == nil {
		t.Fatal("ParseOptions(-x) succeeded, want error")
	}
	if help {
		t.Error("ParseOptions(-x) requested help")
	}
	if !strings.Contains(err.Error(), "-x") {
		t.Errorf("error %q does not name the offending flag -x", err)
	}
}

func TestParseOptionsUnexpectedArgument(t *testing.T) {
	_, _, err := ParseOptions([]string{"extra"}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("ParseOptions(extra) succeeded, want error")
	}
	if !strings.Contains(err.Error(), "extra") {
		t.Errorf("error %q does not name the unexpected argument", err)
	}
}

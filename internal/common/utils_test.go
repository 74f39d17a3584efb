package common

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseURLList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: []string{}},
		{name: "only separators", in: " ,\n, \n", want: []string{}},
		{name: "newlines", in: "a.com\nb.com\n", want: []string{"a.com", "b.com"}},
		{name: "commas", in: "a.com,b.com, c.com", want: []string{"a.com", "b.com", "c.com"}},
		{name: "mixed with blanks", in: "  a.com  \n\n,b.com,,\n  c.com", want: []string{"a.com", "b.com", "c.com"}},
		{name: "crlf", in: "a.com\r\nb.com\r\n", want: []string{"a.com", "b.com"}},
		{name: "order kept", in: "z.com\na.com\nm.com", want: []string{"z.com", "a.com", "m.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseURLList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseURLList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestReadURLList(t *testing.T) {
	in := `# production hosts
https://a.com
  # staging
b.com, c.com

d.com
`
	got, err := ReadURLList(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadURLList() error = %v", err)
	}
	want := []string{"https://a.com", "b.com", "c.com", "d.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadURLList() = %v, want %v", got, want)
	}
}

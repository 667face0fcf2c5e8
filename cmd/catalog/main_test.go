package main

import (
	"reflect"
	"testing"
)

const id = "000000000000000000000001"

func TestRewriteDirectCourseLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"catalog"},
			want: []string{"catalog"},
		},
		{
			name: "direct course id first token",
			in:   []string{"catalog", id},
			want: []string{"catalog", "courses", "show", id},
		},
		{
			name: "direct course id after value flag",
			in:   []string{"catalog", "--api", "http://localhost:9000", id},
			want: []string{"catalog", "--api", "http://localhost:9000", "courses", "show", id},
		},
		{
			name: "direct course id after equals flag",
			in:   []string{"catalog", "--format=text", id},
			want: []string{"catalog", "--format=text", "courses", "show", id},
		},
		{
			name: "direct course id after bool flag",
			in:   []string{"catalog", "--pretty", id},
			want: []string{"catalog", "--pretty", "courses", "show", id},
		},
		{
			name: "direct course id after double dash",
			in:   []string{"catalog", "--config", "c.yaml", "--", id},
			want: []string{"catalog", "--config", "c.yaml", "--", "courses", "show", id},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"catalog", "courses", "show", id},
			want: []string{"catalog", "courses", "show", id},
		},
		{
			name: "short hex not rewritten",
			in:   []string{"catalog", "abc123"},
			want: []string{"catalog", "abc123"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"catalog", "wat"},
			want: []string{"catalog", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectCourseLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v; got %v", tt.want, got)
			}
		})
	}
}

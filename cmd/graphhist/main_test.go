package main

import (
	"reflect"
	"testing"
)

func TestRewriteDateArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"graphhist"},
			want: []string{"graphhist"},
		},
		{
			name: "date first token",
			in:   []string{"graphhist", "2024/Feb/2"},
			want: []string{"graphhist", "graphs", "2024/Feb/2"},
		},
		{
			name: "year and month only",
			in:   []string{"graphhist", "2024/Feb"},
			want: []string{"graphhist", "graphs", "2024/Feb"},
		},
		{
			name: "date after value flag",
			in:   []string{"graphhist", "--output-dir", "./out", "2024/Feb/2"},
			want: []string{"graphhist", "--output-dir", "./out", "graphs", "2024/Feb/2"},
		},
		{
			name: "date after equals flag",
			in:   []string{"graphhist", "--output-dir=./out", "2024/Feb/2"},
			want: []string{"graphhist", "--output-dir=./out", "graphs", "2024/Feb/2"},
		},
		{
			name: "date after bool flag",
			in:   []string{"graphhist", "--pretty", "2024/Feb/2"},
			want: []string{"graphhist", "--pretty", "graphs", "2024/Feb/2"},
		},
		{
			name: "date after double dash",
			in:   []string{"graphhist", "--", "2024/Feb/2"},
			want: []string{"graphhist", "--", "graphs", "2024/Feb/2"},
		},
		{
			name: "flag value with slash is not a date",
			in:   []string{"graphhist", "--output-dir", "data/out", "tree"},
			want: []string{"graphhist", "--output-dir", "data/out", "tree"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"graphhist", "graphs", "2024/Feb/2"},
			want: []string{"graphhist", "graphs", "2024/Feb/2"},
		},
		{
			name: "bare year not rewritten",
			in:   []string{"graphhist", "2024"},
			want: []string{"graphhist", "2024"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDateArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDateArgs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

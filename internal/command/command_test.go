package command

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Command
	}{
		{
			name: "verb only",
			line: "help",
			want: Command{Name: "help", Args: nil},
		},
		{
			name: "one argument",
			line: "deposit-money 100",
			want: Command{Name: "deposit-money", Args: []string{"100"}},
		},
		{
			name: "two arguments",
			line: "register alice secret",
			want: Command{Name: "register", Args: []string{"alice", "secret"}},
		},
		{
			name: "quoted argument keeps spaces",
			line: `login alice "pass word"`,
			want: Command{Name: "login", Args: []string{"alice", "pass word"}},
		},
		{
			name: "flagged arguments",
			line: "buy --offering=BTC --money=1000",
			want: Command{Name: "buy", Args: []string{"--offering=BTC", "--money=1000"}},
		},
		{
			name: "surrounding whitespace",
			line: "  logout  \r",
			want: Command{Name: "logout", Args: nil},
		},
		{
			name: "empty line",
			line: "",
			want: Command{Name: "", Args: []string{}},
		},
		{
			name: "blank line",
			line: "   ",
			want: Command{Name: "", Args: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			if got.Name != tt.want.Name {
				t.Errorf("name: want %q, got %q", tt.want.Name, got.Name)
			}
			if len(got.Args) != len(tt.want.Args) {
				t.Fatalf("args: want %v, got %v", tt.want.Args, got.Args)
			}
			if len(tt.want.Args) > 0 && !reflect.DeepEqual(got.Args, tt.want.Args) {
				t.Errorf("args: want %v, got %v", tt.want.Args, got.Args)
			}
		})
	}
}

package netcalc

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{"valid network", "10.0.0.0/24", "10.0.0.0/24", false},
		{"host bits masked", "10.0.0.5/24", "10.0.0.0/24", false},
		{"single host", "192.168.14.200/32", "192.168.14.200/32", false},
		{"whole space", "0.0.0.0/0", "0.0.0.0/0", false},
		{"reserved example", "192.168.14.128/25", "192.168.14.128/25", false},
		{"missing prefix", "10.0.0.0", "", true},
		{"octet out of range", "999.0.0.0/24", "", true},
		{"prefix out of range", "10.0.0.0/33", "", true},
		{"trailing garbage", "10.0.0.0/24x", "", true},
		{"empty", "", "", true},
		{"ipv6", "::1/128", "", true},
		{"missing octet", "10.0.0/24", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrFormat) {
					t.Errorf("Parse(%q) error = %v, want ErrFormat", tt.text, err)
				}
				return
			}
			if got := n.String(); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseNormalizesHostBits(t *testing.T) {
	a := MustParse("10.0.0.5/24")
	b := MustParse("10.0.0.0/24")
	if !a.Equal(b) {
		t.Errorf("expected %s to normalize to %s", a, b)
	}
}

func TestFirstLast(t *testing.T) {
	tests := []struct {
		cidr  string
		first string
		last  string
	}{
		{"10.0.0.0/24", "10.0.0.0", "10.0.0.255"},
		{"10.0.0.128/25", "10.0.0.128", "10.0.0.255"},
		{"192.168.14.200/32", "192.168.14.200", "192.168.14.200"},
		{"0.0.0.0/0", "0.0.0.0", "255.255.255.255"},
	}

	for _, tt := range tests {
		n := MustParse(tt.cidr)
		if got := n.First().String(); got != tt.first {
			t.Errorf("%s: First() = %s, want %s", tt.cidr, got, tt.first)
		}
		if got := n.Last().String(); got != tt.last {
			t.Errorf("%s: Last() = %s, want %s", tt.cidr, got, tt.last)
		}
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"identical", "10.0.0.0/24", "10.0.0.0/24", true},
		{"a contains b", "10.0.0.0/24", "10.0.0.128/25", true},
		{"b contains a", "10.0.0.128/25", "10.0.0.0/24", true},
		{"partial via half", "10.0.0.0/25", "10.0.0.0/24", true},
		{"single host inside", "192.168.14.200/32", "192.168.14.128/25", true},
		{"adjacent", "10.0.0.0/25", "10.0.0.128/25", false},
		{"disjoint", "10.0.0.0/24", "10.0.1.0/24", false},
		{"far apart", "10.0.0.0/8", "192.168.0.0/16", false},
		{"whole space vs anything", "0.0.0.0/0", "172.16.0.0/12", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := MustParse(tt.a), MustParse(tt.b)
			if got := a.Overlaps(b); got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Overlap is symmetric.
			if got := b.Overlaps(a); got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestOverlapsSelf(t *testing.T) {
	for _, cidr := range []string{"10.0.0.0/8", "192.168.14.128/25", "172.16.5.9/32"} {
		n := MustParse(cidr)
		if !n.Overlaps(n) {
			t.Errorf("expected %s to overlap itself", cidr)
		}
	}
}

package relationship

import (
	"errors"
	"testing"
)

func TestCatalogLevel(t *testing.T) {
	catalog := NewCatalog()

	tests := []struct {
		networkType string
		want        int
	}{
		{networkType: "immediate", want: 1},
		{networkType: "extended", want: 2},
		{networkType: "friend", want: 3},
		{networkType: "distant", want: 3},
		{networkType: "acquaintance", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.networkType, func(t *testing.T) {
			level, err := catalog.Level(tt.networkType)
			if err != nil {
				t.Fatalf("Level(%q) returned error: %v", tt.networkType, err)
			}
			if level != tt.want {
				t.Errorf("Level(%q) = %d, want %d", tt.networkType, level, tt.want)
			}
		})
	}
}

func TestCatalogUnknownType(t *testing.T) {
	catalog := NewCatalog()

	for _, networkType := range []string{"", "imediate", "IMMEDIATE", "family"} {
		_, err := catalog.Level(networkType)
		if !errors.Is(err, ErrUnknownNetworkType) {
			t.Errorf("Level(%q) = %v, want ErrUnknownNetworkType", networkType, err)
		}
	}
}

func TestCatalogTypesSorted(t *testing.T) {
	types := NewCatalog().Types()

	if len(types) == 0 {
		t.Fatal("expected a non-empty type list")
	}
	for i := 1; i < len(types); i++ {
		if types[i-1] >= types[i] {
			t.Errorf("types not sorted: %v", types)
		}
	}
}

package dice

import "testing"

func TestRollCounts(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "single die", n: 1, want: 1},
		{name: "full roll", n: MaxDice, want: MaxDice},
		{name: "zero clamps to one", n: 0, want: 1},
		{name: "negative clamps to one", n: -3, want: 1},
		{name: "oversized clamps to max", n: 100, want: MaxDice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			faces, err := Roll(tt.n)
			if err != nil {
				t.Fatalf("Roll(%d) returned error: %v", tt.n, err)
			}
			if len(faces) != tt.want {
				t.Errorf("Roll(%d) returned %d faces, want %d", tt.n, len(faces), tt.want)
			}
			for i, face := range faces {
				if face == "" {
					t.Errorf("face %d is empty", i)
				}
			}
		})
	}
}

func TestRollFacesComeFromDice(t *testing.T) {
	faces, err := Roll(MaxDice)
	if err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	for i, face := range faces {
		found := false
		for _, candidate := range dice[i] {
			if candidate == face {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("face %q is not on die %d", face, i)
		}
	}
}

package tutor

import "testing"

func TestContainsCodeSolution(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		level int
		want  bool
	}{
		{
			name:  "plain conceptual guidance",
			text:  "Think about which data structure gives you O(1) lookups.",
			level: 1,
			want:  false,
		},
		{
			name:  "javascript function declaration",
			text:  "Try this:\nfunction twoSum(nums, target) {\n  return [];\n}",
			level: 2,
			want:  true,
		},
		{
			name:  "python def",
			text:  "def two_sum(nums, target):\n    pass",
			level: 1,
			want:  true,
		},
		{
			name:  "class declaration",
			text:  "class Solution {\n}",
			level: 3,
			want:  true,
		},
		{
			name:  "for loop with brace",
			text:  "for (let i = 0; i < n; i++) {",
			level: 2,
			want:  true,
		},
		{
			name:  "while loop with brace",
			text:  "while (left < right) {",
			level: 1,
			want:  true,
		},
		{
			name:  "const assignment",
			text:  "const seen = new Map()",
			level: 2,
			want:  true,
		},
		{
			name:  "mentioning the word function is fine",
			text:  "A helper function could track the running sum for you.",
			level: 1,
			want:  false,
		},
		{
			name:  "code allowed at pseudocode level",
			text:  "function twoSum(nums, target) { ... }",
			level: 4,
			want:  false,
		},
		{
			name:  "code allowed at solution level",
			text:  "def two_sum(nums):\n    return []",
			level: 5,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsCodeSolution(tt.text, tt.level); got != tt.want {
				t.Errorf("ContainsCodeSolution(%q, %d) = %v, want %v", tt.text, tt.level, got, tt.want)
			}
		})
	}
}

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Simple name", input: "Red T-Shirt", want: "red-t-shirt"},
		{name: "Extra whitespace", input: "  Plain   Tote  ", want: "plain-tote"},
		{name: "Special characters stripped", input: "Kids' Jacket (2024)!", want: "kids-jacket-2024"},
		{name: "Already a slug", input: "red-t-shirt", want: "red-t-shirt"},
		{name: "Digits preserved", input: "Shirt 501", want: "shirt-501"},
		{name: "Empty input", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plankit/internal/dist"
	"plankit/internal/plan"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "   \n ", nil},
		{"single", "Boil the water.", []string{"Boil the water."}},
		{"several", "Boil the water. Add the tea!  Is it ready? Pour it.",
			[]string{"Boil the water.", "Add the tea!", "Is it ready?", "Pour it."}},
		{"no final stop", "Open the door. Walk in", []string{"Open the door.", "Walk in"}},
		{"multiline", "Pack the bag.\nLock the door.\n", []string{"Pack the bag.", "Lock the door."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitText(tt.in))
		})
	}
}

func TestStepsFromParagraph(t *testing.T) {
	s := StepsFromParagraph("morning", "Wake up. Make coffee.", plan.WithFixedDuration(5))
	assert.Equal(t, "morning", s.Name())
	kids := s.Children()
	require.Len(t, kids, 2)
	first := kids[0].(*plan.Action)
	assert.Equal(t, "Wake up.", first.Name())
	assert.Equal(t, dist.Known(5), first.Duration().MaxValue())
	assert.Equal(t, "Make coffee.", kids[1].Name())
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptimalLayout(t *testing.T) {
	req := require.New(t)
	req.Equal(LayoutSingle, OptimalLayout(0))
	req.Equal(LayoutSingle, OptimalLayout(1))
	req.Equal(LayoutDual, OptimalLayout(2))
	req.Equal(LayoutTriple, OptimalLayout(3))
	req.Equal(LayoutQuad, OptimalLayout(4))
	req.Equal(LayoutQuad, OptimalLayout(12))
}

func TestExpansionTarget(t *testing.T) {
	req := require.New(t)
	for layout := LayoutSingle; layout <= LayoutQuad; layout++ {
		for count := 0; count <= MaxSlots+1; count++ {
			target, ok := ExpansionTarget(layout, count)
			if ok {
				req.Equal(int(layout)+1, count, "only count = layout+1 expands")
				req.Equal(layout+1, target)
				continue
			}
			req.Equal(layout, target)
		}
	}
	_, ok := ExpansionTarget(LayoutQuad, 5)
	req.False(ok)
}

func TestSlotID(t *testing.T) {
	req := require.New(t)
	for i := 0; i < MaxSlots; i++ {
		idx, ok := SlotIDFor(i).Index()
		req.True(ok)
		req.Equal(i, idx)
	}
	for _, bad := range []SlotID{"slot-4", "slot--1", "slot-01", "slot", "", "seat-1"} {
		_, ok := bad.Index()
		req.False(ok, string(bad))
	}
}

func TestLayout_Capacity(t *testing.T) {
	req := require.New(t)
	req.Equal(3, LayoutTriple.Capacity())
	req.Equal(0, Layout(0).Capacity())
	req.Equal(0, Layout(5).Capacity())
	req.False(Layout(5).Valid())
}

func TestParticipant_SameIdentity(t *testing.T) {
	req := require.New(t)
	req.True(Participant{ID: "1", Name: "A"}.SameIdentity(Participant{ID: "1", Name: "B"}))
	req.False(Participant{ID: "1", Name: "A"}.SameIdentity(Participant{ID: "2", Name: "A"}))
	req.True(Participant{Name: "A"}.SameIdentity(Participant{ID: "2", Name: "A"}))
	req.False(Participant{Name: UnknownName}.IsPlaceable())
	req.False(Participant{ID: "1"}.IsPlaceable())
	req.True(Participant{Name: "A"}.IsPlaceable())
}

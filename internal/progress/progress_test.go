package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/studydeck/internal/models"
)

func full() Checklist {
	return Checklist{Theory: true, Questions: true, Revision1: true, Revision2: true, Revision3: true}
}

func allChecked(s Syllabus) map[string]Checklist {
	state := map[string]Checklist{}
	for _, t := range s.ClassXI {
		state[TopicKey(TierXI, t.Name)] = full()
	}
	for _, t := range s.ClassXII {
		state[TopicKey(TierXII, t.Name)] = full()
	}
	return state
}

func TestChecklistCount(t *testing.T) {
	assert.Equal(t, 0, Checklist{}.Count())
	assert.Equal(t, 2, Checklist{Theory: true, Revision3: true}.Count())
	assert.Equal(t, 5, full().Count())
}

func TestChecklistWithAndGet(t *testing.T) {
	c := Checklist{}.With(models.FieldRevision2, true)
	assert.True(t, c.Get(models.FieldRevision2))
	assert.False(t, c.Get(models.FieldTheory))
	assert.Equal(t, c, c.With("nope", true))
}

func TestOverall(t *testing.T) {
	s := Syllabus{
		ClassXI:  []Topic{{Name: "A", Weight: 2}},
		ClassXII: []Topic{{Name: "B", Weight: 3}},
	}

	tests := []struct {
		name  string
		state map[string]Checklist
		want  float64
	}{
		{name: "empty map", state: map[string]Checklist{}, want: 0},
		{name: "nil map", state: nil, want: 0},
		{name: "all checked", state: map[string]Checklist{"XI-A": full(), "XII-B": full()}, want: 100},
		// (2/5*5) / 5 * 100
		{name: "one topic complete", state: map[string]Checklist{"XI-A": full()}, want: 40},
		// (2/5*1 + 3/5*2) / 5 * 100 = (0.4 + 1.2) / 5 * 100
		{name: "partial", state: map[string]Checklist{"XI-A": {Theory: true}, "XII-B": {Theory: true, Questions: true}}, want: 32},
		{name: "tier matters", state: map[string]Checklist{"XII-A": full()}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Overall(s, tt.state), 1e-9)
		})
	}
}

func TestOverall_ZeroWeight(t *testing.T) {
	assert.Equal(t, 0.0, Overall(Syllabus{}, map[string]Checklist{"XI-A": full()}))
	assert.Equal(t, 0.0, Overall(Syllabus{ClassXI: []Topic{{Name: "A", Weight: 0}}}, map[string]Checklist{"XI-A": full()}))
}

func TestOverall_StaticSyllabiBounds(t *testing.T) {
	for _, subject := range models.Subjects {
		s, ok := For(subject)
		require.True(t, ok, subject)
		require.NotEmpty(t, s.ClassXI)
		require.NotEmpty(t, s.ClassXII)

		assert.Equal(t, 0.0, Overall(s, nil), subject)
		assert.InDelta(t, 100.0, Overall(s, allChecked(s)), 1e-9, subject)

		half := map[string]Checklist{}
		for _, tp := range s.ClassXI {
			half[TopicKey(TierXI, tp.Name)] = Checklist{Theory: true, Questions: true}
		}
		got := Overall(s, half)
		assert.Greater(t, got, 0.0)
		assert.Less(t, got, 100.0)
	}
}

func TestFor_Unknown(t *testing.T) {
	_, ok := For(models.Subject("biology"))
	assert.False(t, ok)
}

func TestTopicPercent(t *testing.T) {
	assert.Equal(t, 0.0, TopicPercent(0, full()))
	assert.InDelta(t, 60.0, TopicPercent(4, Checklist{Theory: true, Questions: true, Revision1: true}), 1e-9)
	assert.InDelta(t, 100.0, TopicPercent(3, full()), 1e-9)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0.0%", Format(0))
	assert.Equal(t, "33.3%", Format(100.0/3))
	assert.Equal(t, "100.0%", Format(100))
}

func TestFromRow(t *testing.T) {
	c := FromRow(models.TopicProgress{Theory: true, Revision3: true})
	assert.Equal(t, Checklist{Theory: true, Revision3: true}, c)
}

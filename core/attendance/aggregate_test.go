package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rec(id int, doc string, present bool) Record {
	return Record{ID: id, ClassID: 1, StudentDocument: doc, Date: "2026-03-02", Present: present}
}

func TestDedupeByStudent(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    []Record
	}{
		{name: "empty"},
		{
			name:    "no duplicates",
			records: []Record{rec(1, "A", true), rec(2, "B", false)},
			want:    []Record{rec(1, "A", true), rec(2, "B", false)},
		},
		{
			name:    "last write wins, first seen order",
			records: []Record{rec(1, "A", true), rec(2, "B", true), rec(3, "A", false)},
			want:    []Record{rec(3, "A", false), rec(2, "B", true)},
		},
		{
			name:    "triple duplicate",
			records: []Record{rec(1, "A", false), rec(2, "A", true), rec(3, "A", false)},
			want:    []Record{rec(3, "A", false)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DedupeByStudent(tt.records)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarize(t *testing.T) {
	records := []Record{
		{StudentDocument: "A", StudentName: "Ana Gómez", Present: true},
		{StudentDocument: "B", StudentName: "Luis Rojas", Present: false},
		{StudentDocument: "C", Present: true}, // student row deleted
	}

	sum := Summarize(records)

	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.Present)
	assert.Equal(t, 1, sum.Absent)
	assert.Equal(t, sum.Total, sum.Present+sum.Absent)

	assert.Len(t, sum.PerStudent, 3)
	assert.Equal(t, "Ana Gómez", sum.PerStudent[0].Name)
	assert.Equal(t, "desconocido", sum.PerStudent[2].Name)
}

func TestSummarizeAfterDedupe(t *testing.T) {
	// posting the same student twice must not double count
	records := []Record{rec(1, "A", true), rec(2, "B", true), rec(3, "A", false)}

	sum := Summarize(DedupeByStudent(records))

	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Present)
	assert.Equal(t, 1, sum.Absent)
	// the re-posted record overwrote the first one
	assert.Equal(t, "A", sum.PerStudent[0].Document)
	assert.False(t, sum.PerStudent[0].Present)
}

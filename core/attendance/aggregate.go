package attendance

// Name shown when a record's student relation can no longer be resolved.
const unknownStudentName = "desconocido"

// DedupeByStudent collapses duplicate records for the same student,
// keeping the record seen last. Output order is the order in which each
// student was first seen, so a stable fetch order stays stable.
func DedupeByStudent(records []Record) []Record {
	latest := make(map[string]Record, len(records))
	order := make([]string, 0, len(records))
	for _, rec := range records {
		if _, seen := latest[rec.StudentDocument]; !seen {
			order = append(order, rec.StudentDocument)
		}
		latest[rec.StudentDocument] = rec
	}
	deduped := make([]Record, 0, len(order))
	for _, doc := range order {
		deduped = append(deduped, latest[doc])
	}
	return deduped
}

// Summarize counts present and absent students over deduplicated
// records. Callers pass the result of DedupeByStudent; duplicates here
// would be double-counted.
func Summarize(deduped []Record) Summary {
	sum := Summary{
		Total:      len(deduped),
		PerStudent: make([]StudentSummary, 0, len(deduped)),
	}
	for _, rec := range deduped {
		name := rec.StudentName
		if name == "" {
			name = unknownStudentName
		}
		if rec.Present {
			sum.Present++
		} else {
			sum.Absent++
		}
		sum.PerStudent = append(sum.PerStudent, StudentSummary{
			Document: rec.StudentDocument,
			Name:     name,
			Present:  rec.Present,
		})
	}
	return sum
}

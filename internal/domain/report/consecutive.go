package report

// ══════════════════════════════════════════════════════════════════════════════
// CONSECUTIVE-ABSENCE ANNOTATOR
// For a daily list on day D, an entry is consecutive when the same student
// also has an absent record on D-1 - the literal previous calendar day.
// Non-school days are not skipped: if the ledger has no record for D-1, the
// student is simply not consecutive. The annotation is additive and never
// changes the ordering or filtering of the list.
// ══════════════════════════════════════════════════════════════════════════════

// AnnotateConsecutive marks the entries whose student appears in the set of
// students absent on the previous calendar day. The set comes from a ledger
// query for day D-1 with status "absent" (justified does not count).
func AnnotateConsecutive(list *DailyAbsenceList, absentPrevDay map[string]bool) {
	if list == nil || len(absentPrevDay) == 0 {
		return
	}
	for i := range list.Entries {
		if absentPrevDay[list.Entries[i].StudentID] {
			list.Entries[i].IsConsecutive = true
		}
	}
}

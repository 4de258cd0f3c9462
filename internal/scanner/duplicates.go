package scanner

// markDuplicates flags records whose content hash was already seen earlier
// in the (sorted) report. The first occurrence is left untouched.
func markDuplicates(records []FileRecord) {
	firstByHash := make(map[string]string)

	for i := range records {
		rec := &records[i]
		if rec.Hash == "" {
			continue
		}

		if first, ok := firstByHash[rec.Hash]; ok {
			rec.DuplicateOf = first
			continue
		}
		firstByHash[rec.Hash] = rec.Name
	}
}

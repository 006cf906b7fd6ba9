package core

// ContributionSummary buckets converted totals by who funded each expense,
// plus a grand total across the whole view. Computed on every read, never
// stored.
type ContributionSummary struct {
	Totals        ConvertedAmount            `json:"totals"`
	Contributions map[PaidBy]ConvertedAmount `json:"contributions"`
}

// Summarize folds a (possibly filtered) list of converted expenses into a
// contribution summary. Inputs are already rounded per expense at conversion
// time; sums of those rounded values get one final Round2 per bucket, which
// keeps totals bit-compatible with the rest of the read path.
func Summarize(expenses []ExpenseWithConversion) ContributionSummary {
	totals := ConvertedAmount{}
	buckets := map[PaidBy]ConvertedAmount{
		PaidByTefi:   {},
		PaidByFacu:   {},
		PaidByShared: {},
	}

	for _, e := range expenses {
		totals.USD += e.Converted.USD
		totals.BRL += e.Converted.BRL
		totals.ARS += e.Converted.ARS

		b := buckets[e.PaidBy]
		b.USD += e.Converted.USD
		b.BRL += e.Converted.BRL
		b.ARS += e.Converted.ARS
		buckets[e.PaidBy] = b
	}

	for k, b := range buckets {
		buckets[k] = roundAll(b)
	}

	return ContributionSummary{
		Totals:        roundAll(totals),
		Contributions: buckets,
	}
}

func roundAll(a ConvertedAmount) ConvertedAmount {
	return ConvertedAmount{
		USD: Round2(a.USD),
		BRL: Round2(a.BRL),
		ARS: Round2(a.ARS),
	}
}

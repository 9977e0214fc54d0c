package faqrepo

// createEntriesTable is shared by the SQL backends. position keeps insertion order.
const createEntriesTable = `
	CREATE TABLE IF NOT EXISTS faq_entries (
		position INTEGER PRIMARY KEY,
		question TEXT NOT NULL,
		answer   TEXT NOT NULL
	)
`

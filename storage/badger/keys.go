package badger

// Key prefixes for different data types
const (
	documentPrefix = "doc"
)

// makeDocumentKey generates a key for a document by slug.
func makeDocumentKey(slug string) []byte {
	return []byte(documentPrefix + ":" + slug)
}

// documentKeyPrefix returns the prefix shared by every document key,
// for iteration.
func documentKeyPrefix() []byte {
	return []byte(documentPrefix + ":")
}

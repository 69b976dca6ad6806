package badger

// Key layout: one prefix per collection, document keys beneath it.
//
//	vecdoc:<collection>:<chunk id>
const documentPrefix = "vecdoc"

// makeCollectionPrefix returns the key prefix shared by every document
// in a collection.
func makeCollectionPrefix(collection string) []byte {
	return []byte(documentPrefix + ":" + collection + ":")
}

// makeDocumentKey generates the key for a document in a collection.
func makeDocumentKey(collection, id string) []byte {
	return []byte(documentPrefix + ":" + collection + ":" + id)
}

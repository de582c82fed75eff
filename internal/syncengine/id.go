package syncengine

import (
	"fmt"
	"strconv"

	"lukechampine.com/blake3"
)

// DocumentID derives the version-addressed document ID for a file
// revision: hash(file_hash || updated_at_seconds). Re-fingerprinting an
// unchanged file reproduces the same ID, and a later revision of the same
// path gets a distinct one, so old versions are never silently clobbered
// in the store. Old versions stay until the path's documents are deleted
// by path (Sync removing a vanished file, or the watcher's delete handler).
func DocumentID(fileHash string, updatedAtUnix int64) string {
	input := fileHash + "|" + strconv.FormatInt(updatedAtUnix, 10)
	h := blake3.New(32, nil)
	h.Write([]byte(input))
	return fmt.Sprintf("%x", h.Sum(nil))
}

package report

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Student names are compared with Brazilian Portuguese collation so that
// accented names sort where a reader expects them ("Ágata" next to "Agata",
// not after "Z"). A collate.Collator is not safe for concurrent use, hence
// the mutex.
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
)

// CompareNames orders two student names with locale-aware collation.
// Returns a negative value when a sorts before b.
func CompareNames(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

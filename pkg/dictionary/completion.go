package dictionary

import (
	"sort"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Completion is a word that extends a prefix.
type Completion struct {
	Word      string
	Frequency int
}

// Complete returns known words starting with prefix, most frequent first.
// A prefix with capitals also matches the lower-case entries, with the
// capitals re-applied to them. limit <= 0 means no limit.
func (ix *Index) Complete(prefix string, limit int) []Completion {
	if prefix == "" {
		return nil
	}
	lowerPrefix, capitals := utils.ProcessCapitals(prefix)

	filter := utils.NewSuggestionFilter(prefix)
	var completions []Completion
	collect := func(restore bool) patricia.VisitorFunc {
		return func(p patricia.Prefix, item patricia.Item) error {
			freq, ok := item.(int)
			if !ok {
				log.Errorf("Unknown item type: %T for word %s", item, p)
				return nil
			}
			word := string(p)
			if restore {
				word = utils.ApplyCapitals(word, capitals)
			}
			if filter.ShouldInclude(word) {
				completions = append(completions, Completion{Word: word, Frequency: freq})
			}
			return nil
		}
	}

	if err := ix.trie.VisitSubtree(patricia.Prefix(prefix), collect(false)); err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}
	if capitals != nil {
		if err := ix.trie.VisitSubtree(patricia.Prefix(lowerPrefix), collect(true)); err != nil {
			log.Errorf("Error visiting trie subtree: %v", err)
		}
	}

	sort.Slice(completions, func(i, j int) bool {
		if completions[i].Frequency != completions[j].Frequency {
			return completions[i].Frequency > completions[j].Frequency
		}
		return completions[i].Word < completions[j].Word
	})
	if limit > 0 && len(completions) > limit {
		completions = completions[:limit]
	}
	return completions
}

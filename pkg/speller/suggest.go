package speller

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/config"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/distance"
	"github.com/bastiangx/wordcheck/pkg/phonetic"
)

// phoneticSlack is how much further than max-distance a sound-alike word
// may be and still be suggested.
const phoneticSlack = 2

// userFrequency ranks personal and session words among dictionary words.
const userFrequency = dictionary.DefaultFrequency

type candidate struct {
	word      string
	distance  int
	phonetic  bool
	lenDiff   int
	frequency int
}

// Suggest returns ranked corrections for word. A known word yields itself as
// the only suggestion. An empty result means nothing close enough was found.
func (s *Speller) Suggest(word string) ([]string, error) {
	w, err := validateWord(word)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.known(w) {
		return []string{w}, nil
	}

	candidates := s.gather(w)
	filter := utils.NewExactSuggestionFilter(w)
	if s.cfg.CaseMode != config.CaseSensitive {
		filter = utils.NewSuggestionFilter(w)
		if lower, capitals := utils.ProcessCapitals(w); capitals != nil {
			candidates = withCapitals(candidates, s.gather(lower), capitals)
		}
	}
	ranked := rank(merge(candidates))

	suggestions := make([]string, 0, len(ranked)+1)
	if correction, ok := s.lookupReplacement(w); ok && filter.ShouldInclude(correction) {
		suggestions = append(suggestions, correction)
	}
	for _, c := range ranked {
		if filter.ShouldInclude(c.word) {
			suggestions = append(suggestions, c.word)
		}
	}
	if limit := s.cfg.SuggestLimit; limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// withCapitals re-applies the input's capitals to the hits of the lower-case
// query. Raw hits that are a case variant of one of them are dropped.
func withCapitals(raw, lowered []candidate, capitals *utils.CapitalInfo) []candidate {
	out := make([]candidate, 0, len(raw)+len(lowered))
	folded := make(map[string]bool, len(lowered))
	for _, c := range lowered {
		folded[strings.ToLower(c.word)] = true
		c.word = utils.ApplyCapitals(c.word, capitals)
		out = append(out, c)
	}
	for _, c := range raw {
		if !folded[strings.ToLower(c.word)] {
			out = append(out, c)
		}
	}
	return out
}

func (s *Speller) lookupReplacement(w string) (string, bool) {
	if s.cfg.CaseMode == config.CaseSensitive {
		return s.repl.Lookup(w)
	}
	return s.repl.LookupFold(w)
}

func (s *Speller) gather(query string) []candidate {
	return append(s.editCandidates(query), s.phoneticCandidates(query)...)
}

// editCandidates returns the known words within max-distance of query.
func (s *Speller) editCandidates(query string) []candidate {
	maxDistance := s.cfg.MaxDistance
	queryLen := utf8.RuneCountInString(query)

	var out []candidate
	for c := range s.index.CandidatesWithinDistance(query, maxDistance) {
		out = append(out, candidate{
			word:      c.Word,
			distance:  c.Distance,
			lenDiff:   utils.AbsDiff(queryLen, utf8.RuneCountInString(c.Word)),
			frequency: c.Frequency,
		})
	}
	for _, w := range s.userWords() {
		if d, ok := distance.Within(query, w, maxDistance); ok {
			out = append(out, candidate{
				word:      w,
				distance:  d,
				lenDiff:   utils.AbsDiff(queryLen, utf8.RuneCountInString(w)),
				frequency: userFrequency,
			})
		}
	}
	return out
}

// phoneticCandidates returns the known words that share a phonetic key with
// query and lie within max-distance plus phoneticSlack.
func (s *Speller) phoneticCandidates(query string) []candidate {
	if len(s.encoder.Keys(query)) == 0 {
		return nil
	}
	limit := s.cfg.MaxDistance + phoneticSlack
	queryLen := utf8.RuneCountInString(query)

	var out []candidate
	add := func(w string, freq int) {
		d, ok := distance.Within(query, w, limit)
		if !ok {
			return
		}
		out = append(out, candidate{
			word:      w,
			distance:  d,
			phonetic:  true,
			lenDiff:   utils.AbsDiff(queryLen, utf8.RuneCountInString(w)),
			frequency: freq,
		})
	}
	for _, w := range s.index.PhoneticMatches(query) {
		add(w, s.index.Frequency(w))
	}
	for _, w := range s.userWords() {
		if phonetic.Share(s.encoder, query, w) {
			add(w, userFrequency)
		}
	}
	return out
}

func (s *Speller) userWords() []string {
	return append(s.session.List(), s.personal.List()...)
}

// merge folds candidates of the same word into one, keeping the smallest
// distance and the highest frequency.
func merge(candidates []candidate) []candidate {
	byWord := make(map[string]int, len(candidates))
	var out []candidate
	for _, c := range candidates {
		i, ok := byWord[c.word]
		if !ok {
			byWord[c.word] = len(out)
			out = append(out, c)
			continue
		}
		m := &out[i]
		m.distance = min(m.distance, c.distance)
		m.phonetic = m.phonetic || c.phonetic
		m.frequency = max(m.frequency, c.frequency)
	}
	return out
}

// rank orders by distance, sound-alike first, length difference, frequency
// and finally the word itself.
func rank(candidates []candidate) []candidate {
	slices.SortFunc(candidates, compareCandidates)
	return candidates
}

func compareCandidates(a, b candidate) int {
	if a.distance != b.distance {
		return a.distance - b.distance
	}
	if a.phonetic != b.phonetic {
		if a.phonetic {
			return -1
		}
		return 1
	}
	if a.lenDiff != b.lenDiff {
		return a.lenDiff - b.lenDiff
	}
	if a.frequency != b.frequency {
		return b.frequency - a.frequency
	}
	return strings.Compare(a.word, b.word)
}

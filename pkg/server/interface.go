/*
Package server implements msgpack IPC for spell checking services.

The server reads a stream of msgpack encoded requests from stdin and writes
one msgpack response per request to stdout. Requests are handled
synchronously, in order, with timing info included in responses.

# IPC

Every request carries an ID, which is echoed back, and an operation:

	{"id": "r1", "op": "check", "w": "flower"}
	{"id": "r2", "op": "suggest", "w": "flowr", "l": 5}
	{"id": "r3", "op": "replace", "w": "flowr", "c": "flower"}

Successful responses list words with their 1-based rank:

	{"id": "r2", "ok": false, "s": [{"w": "flower", "r": 1}, {"w": "flow", "r": 2}], "c": 2, "t": 145}

For check, "ok" is the verdict; for every other operation it is true.
Failed requests get an error message instead:

	{"id": "r4", "e": "invalid word \"two words\": contains whitespace", "code": 400}

# Operations

	check           w          is the word known
	suggest         w, l       ranked corrections
	complete        w, l       dictionary words starting with w
	add_session     w          accept w until the server exits
	add_personal    w          add w to the personal dictionary
	session_words              list session words
	personal_words             list personal words
	clear_session              forget session words
	clear_personal             empty the personal dictionary
	save                       write personal files
	replace         w, c       remember that w was corrected to c
	stats                      dictionary counters in "st"
	health                     liveness probe

Personal files are saved after every AutosaveEvery mutating requests and
when the input stream ends.
*/
package server

// Request is one client message.
type Request struct {
	ID         string `msgpack:"id"`
	Op         string `msgpack:"op"`
	Word       string `msgpack:"w,omitempty"`
	Correction string `msgpack:"c,omitempty"`
	Limit      int    `msgpack:"l,omitempty"`
}

// Suggestion is one ranked word of a response.
type Suggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// Response answers a successful request.
type Response struct {
	ID          string         `msgpack:"id"`
	OK          bool           `msgpack:"ok"`
	Suggestions []Suggestion   `msgpack:"s,omitempty"`
	Count       int            `msgpack:"c"`
	Stats       map[string]int `msgpack:"st,omitempty"`
	TimeTaken   int64          `msgpack:"t"`
}

// ErrorResponse answers a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"code"`
}

// Error codes.
const (
	CodeBadRequest = 400
	CodeInternal   = 500
)

// Operation names.
const (
	OpCheck         = "check"
	OpSuggest       = "suggest"
	OpComplete      = "complete"
	OpAddSession    = "add_session"
	OpAddPersonal   = "add_personal"
	OpSessionWords  = "session_words"
	OpPersonalWords = "personal_words"
	OpClearSession  = "clear_session"
	OpClearPersonal = "clear_personal"
	OpSave          = "save"
	OpReplace       = "replace"
	OpStats         = "stats"
	OpHealth        = "health"
)

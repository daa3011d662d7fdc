package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/config"
	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/bastiangx/wordcheck/pkg/speller"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for a speller.
type Server struct {
	speller   *speller.Speller
	config    config.ServerConfig
	decoder   *msgpack.Decoder
	writer    *bufio.Writer
	encoder   *msgpack.Encoder
	mutations int
}

// NewServer creates a server using stdin/stdout for IPC.
func NewServer(sp *speller.Speller, cfg config.ServerConfig) *Server {
	return NewServerIO(sp, cfg, os.Stdin, os.Stdout)
}

// NewServerIO creates a server reading requests from r and writing
// responses to w.
func NewServerIO(sp *speller.Speller, cfg config.ServerConfig, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		speller: sp,
		config:  cfg,
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		writer:  bw,
		encoder: msgpack.NewEncoder(bw),
	}
}

// Start handles requests until the input ends. Unsaved personal words are
// written before it returns.
func (s *Server) Start() error {
	log.Debug("Starting Server.")
	defer s.saveIfDirty()

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "malformed request", CodeBadRequest)
			return err
		}
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	start := time.Now()
	resp, err := s.dispatch(req)
	if err != nil {
		code := CodeInternal
		if isClientError(err) {
			code = CodeBadRequest
		}
		log.Debugf("Request %s (%s) failed: %v", req.ID, req.Op, err)
		s.sendError(req.ID, err.Error(), code)
		return
	}
	resp.ID = req.ID
	resp.TimeTaken = time.Since(start).Microseconds()
	s.sendResponse(resp)

	if isMutation(req.Op) {
		s.mutations++
		if every := s.config.AutosaveEvery; every > 0 && s.mutations%every == 0 {
			s.saveIfDirty()
		}
	}
}

func (s *Server) dispatch(req Request) (*Response, error) {
	switch req.Op {
	case OpCheck:
		if err := s.checkWord(req.Word); err != nil {
			return nil, err
		}
		ok, err := s.speller.Check(req.Word)
		if err != nil {
			return nil, err
		}
		return &Response{OK: ok}, nil

	case OpSuggest:
		if err := s.checkWord(req.Word); err != nil {
			return nil, err
		}
		words, err := s.speller.Suggest(req.Word)
		if err != nil {
			return nil, err
		}
		return s.listResponse(words, req.Limit), nil

	case OpComplete:
		if err := s.checkWord(req.Word); err != nil {
			return nil, err
		}
		completions := s.speller.Complete(req.Word, s.limit(req.Limit))
		words := make([]string, len(completions))
		for i, c := range completions {
			words[i] = c.Word
		}
		return s.listResponse(words, 0), nil

	case OpAddSession, OpAddPersonal:
		if err := s.checkWord(req.Word); err != nil {
			return nil, err
		}
		add := s.speller.AddToSession
		if req.Op == OpAddPersonal {
			add = s.speller.AddToPersonal
		}
		if err := add(req.Word); err != nil {
			return nil, err
		}
		return &Response{OK: true}, nil

	case OpSessionWords:
		return s.listResponse(s.speller.SessionWords(), 0), nil

	case OpPersonalWords:
		return s.listResponse(s.speller.PersonalWords(), 0), nil

	case OpClearSession:
		s.speller.ClearSession()
		return &Response{OK: true}, nil

	case OpClearPersonal:
		s.speller.ClearPersonal()
		return &Response{OK: true}, nil

	case OpSave:
		if err := s.speller.SaveAllWords(); err != nil {
			return nil, err
		}
		return &Response{OK: true}, nil

	case OpReplace:
		if err := s.checkWord(req.Word); err != nil {
			return nil, err
		}
		if err := s.checkWord(req.Correction); err != nil {
			return nil, err
		}
		if err := s.speller.RecordReplacement(req.Word, req.Correction); err != nil {
			return nil, err
		}
		return &Response{OK: true}, nil

	case OpStats:
		stats := s.speller.Stats()
		return &Response{OK: true, Stats: stats, Count: len(stats)}, nil

	case OpHealth:
		return &Response{OK: true}, nil
	}
	return nil, fmt.Errorf("%w: unknown op %q", errBadRequest, req.Op)
}

var errBadRequest = errors.New("bad request")

func isClientError(err error) bool {
	return errors.Is(err, errBadRequest) || errors.Is(err, errs.ErrInvalidWord)
}

func isMutation(op string) bool {
	switch op {
	case OpAddPersonal, OpClearPersonal, OpReplace:
		return true
	}
	return false
}

// checkWord rejects words longer than the configured maximum before they
// reach the speller.
func (s *Server) checkWord(word string) error {
	if maxLen := s.config.MaxWordLen; maxLen > 0 && utf8.RuneCountInString(word) > maxLen {
		return fmt.Errorf("%w: word exceeds maximum length of %d characters", errBadRequest, maxLen)
	}
	return nil
}

// limit clamps a requested result count to the configured maximum.
func (s *Server) limit(requested int) int {
	maxLimit := s.config.MaxLimit
	if requested <= 0 || (maxLimit > 0 && requested > maxLimit) {
		return maxLimit
	}
	return requested
}

func (s *Server) listResponse(words []string, limit int) *Response {
	if limit > 0 {
		limit = s.limit(limit)
		if len(words) > limit {
			words = words[:limit]
		}
	}
	ranks := utils.CreateRankList(len(words))
	suggestions := make([]Suggestion, len(words))
	for i, w := range words {
		suggestions[i] = Suggestion{Word: w, Rank: ranks[i]}
	}
	return &Response{OK: true, Suggestions: suggestions, Count: len(suggestions)}
}

func (s *Server) saveIfDirty() {
	if !s.speller.Dirty() {
		return
	}
	if err := s.speller.SaveAllWords(); err != nil {
		log.Errorf("Saving personal words: %v", err)
		return
	}
	log.Debug("Saved personal words")
}

// sendResponse encodes the response and flushes it to the client.
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}

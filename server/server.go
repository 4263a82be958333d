// Package server exposes the FEN codec over HTTP and websockets.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"fenblit/blitboard"
	"fenblit/render"
)

// Server routes codec requests. It holds no per-request state and is safe
// for concurrent use.
type Server struct {
	cfg      Config
	log      zerolog.Logger
	router   *mux.Router
	upgrader websocket.Upgrader
}

// New builds a Server and registers its routes.
func New(cfg Config, log zerolog.Logger) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 64 << 10
	}
	s := &Server{
		cfg:    cfg,
		log:    log,
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	if len(cfg.AllowedOrigins) > 0 {
		s.upgrader.CheckOrigin = s.originAllowed
	}

	s.router.NotFoundHandler = http.HandlerFunc(notFound)
	s.router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/decode", s.decode).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/encode", s.encode).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/render.svg", s.renderSVG).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/ws", s.ws)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler wraps the router with panic recovery, optional CORS and an access
// log written through the server's logger.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	if len(s.cfg.AllowedOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(s.cfg.AllowedOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(h)
	}
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{s.log}))(h)
	return handlers.LoggingHandler(s.log.With().Str("component", "access").Logger(), h)
}

// HTTPServer returns an http.Server listening on the configured address.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout),
		WriteTimeout: time.Duration(s.cfg.WriteTimeout),
	}
}

func (s *Server) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

type recoveryLogger struct{ log zerolog.Logger }

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error().Interface("panic", v).Msg("recovered from panic")
}

// ==========================
// Handlers
// ==========================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type decodeRequest struct {
	FEN string `json:"fen"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := s.readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := decodeRecord(req.FEN)
	if err != nil {
		s.log.Debug().Err(err).Str("fen", req.FEN).Msg("decode failed")
		writeJSON(w, http.StatusUnprocessableEntity, newErrorResponse(err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) encode(w http.ResponseWriter, r *http.Request) {
	var pj positionJSON
	if err := s.readJSON(w, r, &pj); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, encodeResponse{FEN: pj.position().ToFEN()})
}

func (s *Server) renderSVG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fen := q.Get("fen")
	if fen == "" {
		http.Error(w, "missing fen parameter", http.StatusBadRequest)
		return
	}
	p, err := blitboard.ParseFEN(fen)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, newErrorResponse(err))
		return
	}

	opts := render.Options{
		Coordinates: q.Get("coords") == "1",
		Flip:        q.Get("flip") == "1",
	}
	if size := q.Get("size"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 8 || n > 256 {
			http.Error(w, "size must be between 8 and 256", http.StatusBadRequest)
			return
		}
		opts.SquareSize = n
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	render.SVG(w, p, opts)
}

// ws decodes each text frame as a FEN record and answers with the same JSON
// the decode endpoint returns.
func (s *Server) ws(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	s.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("websocket connected")

	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn().Err(err).Msg("websocket read")
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		var reply interface{}
		if resp, err := decodeRecord(string(msg)); err != nil {
			reply = newErrorResponse(err)
		} else {
			reply = resp
		}
		if err := conn.WriteJSON(reply); err != nil {
			s.log.Warn().Err(err).Msg("websocket write")
			return
		}
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "not found", http.StatusNotFound)
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ==========================
// Wire types
// ==========================

type positionJSON struct {
	Pawns          uint64 `json:"pawns"`
	Knights        uint64 `json:"knights"`
	Bishops        uint64 `json:"bishops"`
	Rooks          uint64 `json:"rooks"`
	Queens         uint64 `json:"queens"`
	Kings          uint64 `json:"kings"`
	White          uint64 `json:"white"`
	Black          uint64 `json:"black"`
	SideToMove     uint32 `json:"side_to_move"`
	CastlingRights uint32 `json:"castling_rights"`
	EPTarget       uint32 `json:"ep_target"`
	HalfmoveClock  uint32 `json:"halfmove_clock"`
	FullmoveNumber uint32 `json:"fullmove_number"`
}

func newPositionJSON(p blitboard.Position) positionJSON {
	return positionJSON{
		Pawns: p.Pawns, Knights: p.Knights, Bishops: p.Bishops,
		Rooks: p.Rooks, Queens: p.Queens, Kings: p.Kings,
		White: p.White, Black: p.Black,
		SideToMove:     uint32(p.SideToMove),
		CastlingRights: uint32(p.CastlingRights),
		EPTarget:       uint32(p.EPTarget),
		HalfmoveClock:  p.HalfmoveClock,
		FullmoveNumber: p.FullmoveNumber,
	}
}

func (pj positionJSON) position() blitboard.Position {
	return blitboard.Position{
		Pawns: pj.Pawns, Knights: pj.Knights, Bishops: pj.Bishops,
		Rooks: pj.Rooks, Queens: pj.Queens, Kings: pj.Kings,
		White: pj.White, Black: pj.Black,
		SideToMove:     blitboard.Color(pj.SideToMove),
		CastlingRights: blitboard.CastlingRights(pj.CastlingRights),
		EPTarget:       blitboard.Square(pj.EPTarget),
		HalfmoveClock:  pj.HalfmoveClock,
		FullmoveNumber: pj.FullmoveNumber,
	}
}

type decodeResponse struct {
	FEN      string       `json:"fen"`
	Position positionJSON `json:"position"`
	Board    string       `json:"board"`
}

type encodeResponse struct {
	FEN string `json:"fen"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Kind       string `json:"kind"`
	Field      string `json:"field,omitempty"`
	Offset     int    `json:"offset"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

func decodeRecord(fen string) (decodeResponse, error) {
	dec, err := blitboard.Decode(fen)
	if err != nil {
		return decodeResponse{}, err
	}
	return decodeResponse{
		FEN:      dec.Position.ToFEN(),
		Position: newPositionJSON(dec.Position),
		Board:    render.Board(dec.Position),
	}, nil
}

var kindNames = []struct {
	err  error
	name string
}{
	{blitboard.ErrEmptyInput, "empty_input"},
	{blitboard.ErrArity, "arity"},
	{blitboard.ErrStructure, "structure"},
	{blitboard.ErrFieldLength, "field_length"},
	{blitboard.ErrFieldValue, "field_value"},
	{blitboard.ErrNumeric, "numeric"},
}

func newErrorResponse(err error) errorResponse {
	resp := errorResponse{Error: err.Error(), Kind: "unknown"}
	for _, k := range kindNames {
		if errors.Is(err, k.err) {
			resp.Kind = k.name
			break
		}
	}
	var pe *blitboard.ParseError
	if errors.As(err, &pe) {
		resp.Field = pe.Field.String()
		resp.Offset = pe.Offset
		resp.Diagnostic = pe.Diagnostic()
	}
	return resp
}

package server

import (
	_ "embed"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"peoplemover/internal/service"
)

//go:embed howto.html
var howtoPage []byte

// Server wires the pipeline service to the HTTP surface.
type Server struct {
	svc *service.PipelineService
	log zerolog.Logger
}

// New creates a Server around the given service.
func New(svc *service.PipelineService, log zerolog.Logger) *Server {
	return &Server{svc: svc, log: log}
}

// Router builds the HTTP routes. All endpoints are GET: the service is a
// demo driven from a browser address bar.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/create_input_database", s.handleCreateInputDatabase).Methods(http.MethodGet)
	r.HandleFunc("/show_input_database", s.handleShowInputDatabase).Methods(http.MethodGet)
	r.HandleFunc("/show_output_database", s.handleShowOutputDatabase).Methods(http.MethodGet)
	r.HandleFunc("/process_everything", s.handleProcessEverything).Methods(http.MethodGet)
	r.HandleFunc("/create_lots_of_people", s.handleCreateLotsOfPeople).Methods(http.MethodGet)
	r.HandleFunc("/runs", s.handleRuns).Methods(http.MethodGet)

	return r
}

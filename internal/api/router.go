package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"timesheet.service/internal/api/handler"
	"timesheet.service/internal/api/middleware"
	"timesheet.service/internal/core"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
// Everything except the health check requires a bearer token.
func NewRouter(submissions *core.SubmissionService, calendar *core.CalendarService, auth *middleware.Authenticator) *mux.Router {
	submissionHandler := handler.SubmissionHandler{Service: submissions}
	timeOffHandler := handler.TimeOffHandler{Service: calendar}

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	secured := api.NewRoute().Subrouter()
	secured.Use(auth.Middleware)

	secured.HandleFunc("/submissions", submissionHandler.Create).Methods(http.MethodPost)
	secured.HandleFunc("/submissions", submissionHandler.List).Methods(http.MethodGet)
	secured.HandleFunc("/submissions/summary", submissionHandler.Summary).Methods(http.MethodGet)
	secured.HandleFunc("/submissions/{id}", submissionHandler.Get).Methods(http.MethodGet)
	secured.HandleFunc("/submissions/{id}/actions", submissionHandler.Actions).Methods(http.MethodGet)
	secured.HandleFunc("/submissions/{id}/transitions", submissionHandler.Transition).Methods(http.MethodPost)
	secured.HandleFunc("/payments", submissionHandler.Payments).Methods(http.MethodGet)

	secured.HandleFunc("/time-off", timeOffHandler.List).Methods(http.MethodGet)
	secured.HandleFunc("/time-off", timeOffHandler.Create).Methods(http.MethodPost)
	secured.HandleFunc("/time-off/{id}", timeOffHandler.Update).Methods(http.MethodPut)
	secured.HandleFunc("/time-off/{id}", timeOffHandler.Delete).Methods(http.MethodDelete)

	return r
}

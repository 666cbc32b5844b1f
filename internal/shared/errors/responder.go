package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper translates a domain or application error into a ProblemDetail.
// The boolean reports whether the mapper recognized the error.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes ProblemDetail responses, running registered mappers
// before falling back to a generic internal error.
type Responder struct {
	// BaseURI is prepended to relative problem type URIs.
	BaseURI string
	mappers []ErrorMapper
}

// NewResponder builds a responder with the given error mappers.
func NewResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{BaseURI: baseURI, mappers: mappers}
}

// AddMapper appends a mapper to the chain.
func (r *Responder) AddMapper(mapper ErrorMapper) {
	r.mappers = append(r.mappers, mapper)
}

// Respond writes a problem document with the proper content type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError maps err through the chain; unrecognized errors become a 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.Respond(c, ErrInternal.WithDetail(err.Error()))
}

// BadRequest writes a 400 problem with the given detail.
func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

// NotFound writes a 404 problem for one resource.
func (r *Responder) NotFound(c *gin.Context, resourceType string, identifier any) {
	r.Respond(c, NewNotFoundProblem(resourceType, identifier))
}

// Unauthorized writes a 401 problem with the given detail.
func (r *Responder) Unauthorized(c *gin.Context, detail string) {
	r.Respond(c, ErrUnauthorized.WithDetail(detail))
}

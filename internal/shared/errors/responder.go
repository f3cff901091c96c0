package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper maps an application error to a problem, reporting whether it applied.
type ErrorMapper func(err error) (ProblemDetail, bool)

// WhenIs maps any error matching target via errors.Is to problem, carrying the error text as detail.
func WhenIs(target error, problem ProblemDetail) ErrorMapper {
	return func(err error) (ProblemDetail, bool) {
		if !errors.Is(err, target) {
			return ProblemDetail{}, false
		}
		return problem.WithDetail(err.Error()), true
	}
}

// Responder writes problem documents. Errors are resolved through the mappers in order, then as a
// wrapped ProblemDetail, and finally as a 500.
type Responder struct {
	baseURI string
	mappers []ErrorMapper
}

// NewResponder creates a responder. A non-empty baseURI is prefixed to relative problem types.
func NewResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{baseURI: baseURI, mappers: mappers}
}

// Respond sends problem with the problem+json content type, defaulting the instance to the request path.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError resolves err to a problem and sends it.
func (r *Responder) RespondError(c *gin.Context, err error) {
	r.Respond(c, r.resolve(err))
}

// BadRequest sends a 400 for input that could not be decoded.
func (r *Responder) BadRequest(c *gin.Context, err error) {
	r.Respond(c, ErrBadRequest.WithDetail(err.Error()))
}

// Validation sends a 400 naming the offending field.
func (r *Responder) Validation(c *gin.Context, field string, err error) {
	r.Respond(c, NewValidationProblem(map[string]string{field: err.Error()}).WithDetail(err.Error()))
}

func (r *Responder) resolve(err error) ProblemDetail {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}
	return ErrInternal.WithDetail(err.Error())
}

package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lintang-b-s/streetlinker/pkg/datastructure"
	"github.com/lintang-b-s/streetlinker/pkg/linking"
	"github.com/lintang-b-s/streetlinker/pkg/server/rest/service"

	"github.com/go-chi/render"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// ErrResponse is the JSON body of every failed linking request.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText    string   `json:"status"`
	ErrorText     string   `json:"error,omitempty"`
	VertexID      *int32   `json:"vertex_id,omitempty"`
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := make([]string, 0, len(errV))
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf("%s", e.Translate(trans)))
	}
	return errs
}

// ErrVertexNotFound is rendered when the requested vertex id is not in the graph.
func ErrVertexNotFound(id int32, err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Vertex not found.",
		ErrorText:      err.Error(),
		VertexID:       &id,
	}
}

// ErrNotLinkable is rendered when the vertex exists but is a street or splitter vertex, or
// when an entity of a kind the linker has no connector for is requested.
func ErrNotLinkable(id *int32, err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Vertex is not a linkable entity.",
		ErrorText:      err.Error(),
		VertexID:       id,
	}
}

func ErrInternal(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
	}
}

// linkingError maps an error returned by the linking service to its response. id is nil
// for requests that do not address an existing vertex.
func linkingError(id *int32, err error) render.Renderer {
	switch {
	case errors.Is(err, datastructure.ErrVertexNotFound) && id != nil:
		return ErrVertexNotFound(*id, err)
	case errors.Is(err, service.ErrNotEntity), errors.Is(err, linking.ErrUnknownEntityKind):
		return ErrNotLinkable(id, err)
	default:
		return ErrInternal(err)
	}
}

package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/lintang-b-s/streetlinker/pkg/datastructure"
	"github.com/lintang-b-s/streetlinker/pkg/linking"
	"github.com/lintang-b-s/streetlinker/pkg/server/rest/service"
	"github.com/lintang-b-s/streetlinker/pkg/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type LinkingService interface {
	AddEntity(ctx context.Context, kind datastructure.VertexKind, label string, lat, lon float64,
		wheelchairEntrance bool) (linking.Result, bool, error)
	Stats(ctx context.Context) service.StatsSnapshot
	EntityLinks(ctx context.Context, id int32) (*datastructure.Vertex, []service.LinkView, error)
}

type LinkingHandler struct {
	svc LinkingService
}

func LinkingRouter(r *chi.Mux, svc LinkingService) {
	handler := &LinkingHandler{svc}

	r.Group(func(r chi.Router) {
		r.Route("/api/linking", func(r chi.Router) {
			r.Post("/entities", handler.AddEntity)
			r.Get("/entities/{id}/links", handler.EntityLinks)
			r.Get("/stats", handler.Stats)
		})
	})
}

type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// AddEntityRequest is the body of POST /api/linking/entities.
type AddEntityRequest struct {
	Kind               string  `json:"kind" validate:"required,oneof=transit_stop bike_rental bike_park park_and_ride"`
	Label              string  `json:"label" validate:"max=256"`
	Lat                float64 `json:"lat" validate:"lte=90,gte=-90"`
	Lon                float64 `json:"lon" validate:"lte=180,gte=-180"`
	WheelchairEntrance bool    `json:"wheelchair_entrance"`
}

func (s *AddEntityRequest) Bind(r *http.Request) error {
	if s.Kind == "" {
		return errors.New("invalid request")
	}
	return nil
}

type VertexResponse struct {
	ID    int32  `json:"id"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Coord Coord  `json:"coordinate"`
}

func renderVertex(v *datastructure.Vertex) VertexResponse {
	return VertexResponse{
		ID:    v.ID,
		Kind:  v.Kind.String(),
		Label: v.Label,
		Coord: Coord{Lat: v.Lat, Lon: v.Lon},
	}
}

type TargetResponse struct {
	StreetVertex VertexResponse `json:"street_vertex"`
	EdgeID       int32          `json:"edge_id"`
	Distance     float64        `json:"distance"` // meters
	Split        bool           `json:"split"`
	Created      bool           `json:"created"`
}

type AddEntityResponse struct {
	Entity  VertexResponse   `json:"entity"`
	Linked  bool             `json:"linked"`
	Targets []TargetResponse `json:"targets"`
}

func RenderAddEntityResponse(res linking.Result, linked bool) *AddEntityResponse {
	targets := make([]TargetResponse, 0, len(res.Targets))
	for _, t := range res.Targets {
		targets = append(targets, TargetResponse{
			StreetVertex: renderVertex(t.StreetVertex),
			EdgeID:       t.Edge.ID,
			Distance:     util.RoundFloat(t.Distance, 3),
			Split:        t.Split,
			Created:      t.Created,
		})
	}
	return &AddEntityResponse{
		Entity:  renderVertex(res.Vertex),
		Linked:  linked,
		Targets: targets,
	}
}

// AddEntity creates an entity vertex and links it to the closest walkable street edges.
func (h *LinkingHandler) AddEntity(w http.ResponseWriter, r *http.Request) {
	data := &AddEntityRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	kind, ok := datastructure.ParseVertexKind(data.Kind)
	if !ok {
		render.Render(w, r, ErrInvalidRequest(errors.New("unknown entity kind")))
		return
	}

	res, linked, err := h.svc.AddEntity(r.Context(), kind, data.Label, data.Lat, data.Lon, data.WheelchairEntrance)
	if err != nil {
		render.Render(w, r, linkingError(nil, err))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, RenderAddEntityResponse(res, linked))
}

type StreetEdgeResponse struct {
	ID   int32  `json:"id"`
	Name string `json:"name,omitempty"`
	Path string `json:"path"`
}

type LinkResponse struct {
	EdgeID               int32                `json:"edge_id"`
	Kind                 string               `json:"kind"`
	WheelchairAccessible bool                 `json:"wheelchair_accessible"`
	StreetVertex         VertexResponse       `json:"street_vertex"`
	Path                 string               `json:"path"`
	StreetEdges          []StreetEdgeResponse `json:"street_edges"`
}

type EntityLinksResponse struct {
	Entity VertexResponse `json:"entity"`
	Links  []LinkResponse `json:"links"`
}

func RenderEntityLinksResponse(v *datastructure.Vertex, links []service.LinkView) *EntityLinksResponse {
	linksResp := make([]LinkResponse, 0, len(links))
	for _, l := range links {
		streetEdges := make([]StreetEdgeResponse, 0, len(l.StreetEdges))
		for _, se := range l.StreetEdges {
			streetEdges = append(streetEdges, StreetEdgeResponse{
				ID:   se.ID,
				Name: se.Name,
				Path: datastructure.EncodeGeometry(se.Geometry),
			})
		}
		linksResp = append(linksResp, LinkResponse{
			EdgeID:               l.Edge.ID,
			Kind:                 l.Edge.Kind.String(),
			WheelchairAccessible: l.Edge.WheelchairAccessible,
			StreetVertex:         renderVertex(l.Edge.To),
			Path:                 datastructure.EncodeGeometry(l.Edge.Geometry),
			StreetEdges:          streetEdges,
		})
	}
	return &EntityLinksResponse{
		Entity: renderVertex(v),
		Links:  linksResp,
	}
}

// EntityLinks lists the connector edges of an entity vertex.
func (h *LinkingHandler) EntityLinks(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(errors.New("vertex id must be an integer")))
		return
	}

	vertexID := int32(id)
	v, links, err := h.svc.EntityLinks(r.Context(), vertexID)
	if err != nil {
		render.Render(w, r, linkingError(&vertexID, err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderEntityLinksResponse(v, links))
}

type StatsResponse struct {
	Linked           int     `json:"linked"`
	Unlinked         int     `json:"unlinked"`
	UnlinkedIDs      []int32 `json:"unlinked_ids"`
	Splits           int     `json:"splits"`
	EndpointSnaps    int     `json:"endpoint_snaps"`
	LinkPairsCreated int     `json:"link_pairs_created"`
	Vertices         int     `json:"vertices"`
	LiveEdges        int     `json:"live_edges"`
	IndexEntries     int     `json:"index_entries"`
}

func (h *LinkingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s := h.svc.Stats(r.Context())

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &StatsResponse{
		Linked:           s.Linked,
		Unlinked:         len(s.Unlinked),
		UnlinkedIDs:      s.Unlinked,
		Splits:           s.Splits,
		EndpointSnaps:    s.EndpointSnaps,
		LinkPairsCreated: s.LinkPairsCreated,
		Vertices:         s.Vertices,
		LiveEdges:        s.LiveEdges,
		IndexEntries:     s.IndexEntries,
	})
}

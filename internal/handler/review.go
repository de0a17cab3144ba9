package handler

import (
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skelly37/Rentigo/internal/model"
	"github.com/skelly37/Rentigo/internal/rating"
)

// ReviewHandler serves review creation, listing, the aggregated summary
// and deletion. All business rules live in the rating service.
type ReviewHandler struct {
	Ratings *rating.Service
}

func NewReviewHandler(ratings *rating.Service) *ReviewHandler {
	if ratings == nil {
		panic("nil service passed to NewReviewHandler")
	}
	return &ReviewHandler{Ratings: ratings}
}

type createReviewReq struct {
	Rating              float64 `json:"rating"`
	CleanlinessRating   float64 `json:"cleanliness_rating"`
	LocationRating      float64 `json:"location_rating"`
	CommunicationRating float64 `json:"communication_rating"`
	ValueRating         float64 `json:"value_rating"`
	Comment             string  `json:"comment"`
}

type reviewResp struct {
	ID                  uint64  `json:"id"`
	PlaceID             uint64  `json:"place_id"`
	UserID              uint64  `json:"user_id"`
	Rating              float64 `json:"rating"`
	CleanlinessRating   float64 `json:"cleanliness_rating"`
	LocationRating      float64 `json:"location_rating"`
	CommunicationRating float64 `json:"communication_rating"`
	ValueRating         float64 `json:"value_rating"`
	Comment             string  `json:"comment,omitempty"`
	CreatedAt           string  `json:"created_at"`
}

func toReviewResp(r model.Review) reviewResp {
	return reviewResp{
		ID:                  r.ID,
		PlaceID:             r.PlaceID,
		UserID:              r.UserID,
		Rating:              r.Rating,
		CleanlinessRating:   r.CleanlinessRating,
		LocationRating:      r.LocationRating,
		CommunicationRating: r.CommunicationRating,
		ValueRating:         r.ValueRating,
		Comment:             r.Comment,
		CreatedAt:           r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// validRating checks a rating value against the 1..10 scale with one
// fractional digit.
func validRating(v float64) bool {
	if v < 1 || v > 10 {
		return false
	}
	scaled := v * 10
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

// Create handles POST /v1/places/:id/reviews. The caller must hold a
// finished (COMPLETED or CANCELLED) reservation for the place and must
// not have reviewed it before.
func (h *ReviewHandler) Create(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	placeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid place id"})
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	for _, v := range []float64{req.Rating, req.CleanlinessRating, req.LocationRating, req.CommunicationRating, req.ValueRating} {
		if !validRating(v) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ratings must be between 1.0 and 10.0 in steps of 0.1"})
		}
	}

	review, err := h.Ratings.CreateReview(c.Request().Context(), act, rating.CreateInput{
		PlaceID:             placeID,
		Rating:              req.Rating,
		CleanlinessRating:   req.CleanlinessRating,
		LocationRating:      req.LocationRating,
		CommunicationRating: req.CommunicationRating,
		ValueRating:         req.ValueRating,
		Comment:             strings.TrimSpace(req.Comment),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, toReviewResp(review))
}

// List handles GET /v1/places/:id/reviews, newest first.
func (h *ReviewHandler) List(c echo.Context) error {
	placeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid place id"})
	}
	reviews, err := h.Ratings.PlaceReviews(c.Request().Context(), placeID)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]reviewResp, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toReviewResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": out})
}

// Summary handles GET /v1/places/:id/reviews/summary with the
// per-category averages.
func (h *ReviewHandler) Summary(c echo.Context) error {
	placeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid place id"})
	}
	summary, err := h.Ratings.PlaceSummary(c.Request().Context(), placeID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Delete handles DELETE /v1/reviews/:id. The author and admins may
// delete; the place's rating cache is recomputed in the same
// transaction.
func (h *ReviewHandler) Delete(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	if err := h.Ratings.DeleteReview(c.Request().Context(), act, id); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

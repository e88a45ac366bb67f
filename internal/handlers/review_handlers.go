package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fathima-sithara/bootcamp-api/internal/apperr"
	"github.com/fathima-sithara/bootcamp-api/internal/auth"
	"github.com/fathima-sithara/bootcamp-api/internal/middleware"
	"github.com/fathima-sithara/bootcamp-api/internal/models"
	"github.com/fathima-sithara/bootcamp-api/internal/query"
	"github.com/fathima-sithara/bootcamp-api/internal/repository"
)

type ReviewHandler struct {
	reviews   *repository.Collection
	bootcamps *repository.Collection
}

func NewReviewHandler(reviews, bootcamps *repository.Collection) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, bootcamps: bootcamps}
}

func (h *ReviewHandler) bootcampPopulate() *query.Populate {
	return &query.Populate{
		Field:  "bootcamp",
		Select: []string{"name", "description"},
		Col:    h.bootcamps,
	}
}

// List handles GET /api/v1/reviews and GET /api/v1/bootcamps/:bootcampId/reviews.
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	spec := query.Compile(c.Queries())
	if bootcampID := c.Params("bootcampId"); bootcampID != "" {
		oid, err := primitive.ObjectIDFromHex(bootcampID)
		if err != nil {
			return apperr.NotFound("Resource not found")
		}
		spec.Filter["bootcamp"] = oid
	}
	spec.Populate = h.bootcampPopulate()

	res, err := query.Execute(c.Context(), h.reviews, spec)
	if err != nil {
		return apperr.Internal(err)
	}
	return listResponse(c, res)
}

func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	var review bson.M
	if err := h.reviews.FindByID(c.Context(), c.Params("id"), &review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(fmt.Sprintf("No review found with id of %s", c.Params("id")))
		}
		return err
	}
	if err := query.ExpandOne(c.Context(), review, h.bootcampPopulate()); err != nil {
		return apperr.Internal(err)
	}
	return dataResponse(c, fiber.StatusOK, review)
}

type reviewReq struct {
	Title  string  `json:"title"`
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
}

// Create handles POST /api/v1/bootcamps/:bootcampId/reviews. One review per
// user per bootcamp, enforced by a unique index.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var bootcamp models.Bootcamp
	if err := h.bootcamps.FindByID(c.Context(), c.Params("bootcampId"), &bootcamp); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(fmt.Sprintf("No bootcamp with id of %s", c.Params("bootcampId")))
		}
		return err
	}

	var req reviewReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if req.Title == "" || len(req.Title) > 100 || req.Text == "" {
		return apperr.BadRequest("Please provide a title (max 100 characters) and review text")
	}
	if req.Rating < 1 || req.Rating > 10 {
		return apperr.BadRequest("Please provide a rating between 1 and 10")
	}

	review := models.Review{
		Title:     req.Title,
		Text:      req.Text,
		Rating:    req.Rating,
		Bootcamp:  bootcamp.ID,
		User:      user.ID,
		CreatedAt: time.Now().UTC(),
	}
	id, err := h.reviews.InsertOne(c.Context(), &review)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.Conflict("You have already reviewed this bootcamp")
		}
		return apperr.Internal(err)
	}
	review.ID = id
	return dataResponse(c, fiber.StatusCreated, review)
}

var reviewPatchFields = map[string]bool{"title": true, "text": true, "rating": true}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	review, err := h.ownedReview(c)
	if err != nil {
		return err
	}

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	patch := bson.M{}
	for k, v := range body {
		if reviewPatchFields[k] {
			patch[k] = v
		}
	}
	if len(patch) == 0 {
		return apperr.BadRequest("No updatable fields provided")
	}
	if rating, ok := patch["rating"].(float64); ok && (rating < 1 || rating > 10) {
		return apperr.BadRequest("Please provide a rating between 1 and 10")
	}

	var updated models.Review
	if err := h.reviews.UpdateByID(c.Context(), review.ID.Hex(), patch, &updated); err != nil {
		return err
	}
	return dataResponse(c, fiber.StatusOK, updated)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	review, err := h.ownedReview(c)
	if err != nil {
		return err
	}

	var deleted models.Review
	if err := h.reviews.DeleteByID(c.Context(), review.ID.Hex(), &deleted); err != nil {
		return err
	}
	return dataResponse(c, fiber.StatusOK, deleted)
}

func (h *ReviewHandler) ownedReview(c *fiber.Ctx) (*models.Review, error) {
	var review models.Review
	if err := h.reviews.FindByID(c.Context(), c.Params("id"), &review); err != nil {
		return nil, err
	}
	user := middleware.CurrentUser(c)
	if !auth.OwnerOrAdmin(review.User, user.ID, user.Role) {
		return nil, apperr.Forbidden(fmt.Sprintf("User %s is not authorized to update this review", user.ID.Hex()))
	}
	return &review, nil
}

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

type CourseHandler struct {
	courses   *repository.Collection
	bootcamps *repository.Collection
}

func NewCourseHandler(courses, bootcamps *repository.Collection) *CourseHandler {
	return &CourseHandler{courses: courses, bootcamps: bootcamps}
}

// bootcampPopulate expands the course's bootcamp reference into a partial
// bootcamp, matching the original list shape.
func (h *CourseHandler) bootcampPopulate() *query.Populate {
	return &query.Populate{
		Field:  "bootcamp",
		Select: []string{"name", "description"},
		Col:    h.bootcamps,
	}
}

// List handles GET /api/v1/courses and GET /api/v1/bootcamps/:bootcampId/courses.
func (h *CourseHandler) List(c *fiber.Ctx) error {
	spec := query.Compile(c.Queries())
	if bootcampID := c.Params("bootcampId"); bootcampID != "" {
		oid, err := primitive.ObjectIDFromHex(bootcampID)
		if err != nil {
			return apperr.NotFound("Resource not found")
		}
		spec.Filter["bootcamp"] = oid
	}
	spec.Populate = h.bootcampPopulate()

	res, err := query.Execute(c.Context(), h.courses, spec)
	if err != nil {
		return apperr.Internal(err)
	}
	return listResponse(c, res)
}

func (h *CourseHandler) Get(c *fiber.Ctx) error {
	var course bson.M
	if err := h.courses.FindByID(c.Context(), c.Params("id"), &course); err != nil {
		return err
	}
	if err := query.ExpandOne(c.Context(), course, h.bootcampPopulate()); err != nil {
		return apperr.Internal(err)
	}
	return dataResponse(c, fiber.StatusOK, course)
}

type courseReq struct {
	Title                string  `json:"title"`
	Description          string  `json:"description"`
	Weeks                string  `json:"weeks"`
	Tuition              float64 `json:"tuition"`
	MinimumSkill         string  `json:"minimumSkill"`
	ScholarshipAvailable bool    `json:"scholarshipAvailable"`
}

// Create handles POST /api/v1/bootcamps/:bootcampId/courses. Only the
// bootcamp owner or an admin may add courses to it.
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var bootcamp models.Bootcamp
	if err := h.bootcamps.FindByID(c.Context(), c.Params("bootcampId"), &bootcamp); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(fmt.Sprintf("No bootcamp with id of %s", c.Params("bootcampId")))
		}
		return err
	}
	if !auth.OwnerOrAdmin(bootcamp.User, user.ID, user.Role) {
		return apperr.Forbidden(fmt.Sprintf("User %s is not authorized to add a course to this bootcamp", user.ID.Hex()))
	}

	var req courseReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if req.Title == "" || req.Description == "" || req.Weeks == "" {
		return apperr.BadRequest("Please provide a title, description and number of weeks")
	}
	if !models.ValidSkill(req.MinimumSkill) {
		return apperr.BadRequest("Please provide a minimum skill of beginner, intermediate or advanced")
	}

	course := models.Course{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		MinimumSkill:         req.MinimumSkill,
		ScholarshipAvailable: req.ScholarshipAvailable,
		Bootcamp:             bootcamp.ID,
		User:                 user.ID,
		CreatedAt:            time.Now().UTC(),
	}
	id, err := h.courses.InsertOne(c.Context(), &course)
	if err != nil {
		return apperr.Internal(err)
	}
	course.ID = id
	return dataResponse(c, fiber.StatusCreated, course)
}

var coursePatchFields = map[string]bool{
	"title": true, "description": true, "weeks": true, "tuition": true,
	"minimumSkill": true, "scholarshipAvailable": true,
}

func (h *CourseHandler) Update(c *fiber.Ctx) error {
	course, err := h.ownedCourse(c)
	if err != nil {
		return err
	}

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	patch := bson.M{}
	for k, v := range body {
		if coursePatchFields[k] {
			patch[k] = v
		}
	}
	if len(patch) == 0 {
		return apperr.BadRequest("No updatable fields provided")
	}
	if skill, ok := patch["minimumSkill"].(string); ok && !models.ValidSkill(skill) {
		return apperr.BadRequest("Please provide a minimum skill of beginner, intermediate or advanced")
	}

	var updated models.Course
	if err := h.courses.UpdateByID(c.Context(), course.ID.Hex(), patch, &updated); err != nil {
		return err
	}
	return dataResponse(c, fiber.StatusOK, updated)
}

func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	course, err := h.ownedCourse(c)
	if err != nil {
		return err
	}

	var deleted models.Course
	if err := h.courses.DeleteByID(c.Context(), course.ID.Hex(), &deleted); err != nil {
		return err
	}
	return dataResponse(c, fiber.StatusOK, deleted)
}

func (h *CourseHandler) ownedCourse(c *fiber.Ctx) (*models.Course, error) {
	var course models.Course
	if err := h.courses.FindByID(c.Context(), c.Params("id"), &course); err != nil {
		return nil, err
	}
	user := middleware.CurrentUser(c)
	if !auth.OwnerOrAdmin(course.User, user.ID, user.Role) {
		return nil, apperr.Forbidden(fmt.Sprintf("User %s is not authorized to update this course", user.ID.Hex()))
	}
	return &course, nil
}

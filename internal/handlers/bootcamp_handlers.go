package handlers

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/fathima-sithara/bootcamp-api/internal/apperr"
	"github.com/fathima-sithara/bootcamp-api/internal/auth"
	"github.com/fathima-sithara/bootcamp-api/internal/geocoder"
	"github.com/fathima-sithara/bootcamp-api/internal/middleware"
	"github.com/fathima-sithara/bootcamp-api/internal/models"
	"github.com/fathima-sithara/bootcamp-api/internal/query"
	"github.com/fathima-sithara/bootcamp-api/internal/repository"
	"github.com/fathima-sithara/bootcamp-api/internal/storage"
)

type BootcampHandler struct {
	bootcamps *repository.Collection
	courses   *repository.Collection
	geo       geocoder.Geocoder
	uploads   storage.Uploader
	maxUpload int64
	logger    *zap.SugaredLogger
}

func NewBootcampHandler(bootcamps, courses *repository.Collection, geo geocoder.Geocoder, uploads storage.Uploader, maxUpload int64, logger *zap.SugaredLogger) *BootcampHandler {
	return &BootcampHandler{bootcamps: bootcamps, courses: courses, geo: geo, uploads: uploads, maxUpload: maxUpload, logger: logger}
}

// List handles GET /api/v1/bootcamps with the full filter/select/sort/page
// query surface. Each bootcamp carries its courses, fetched in one batched
// query.
func (h *BootcampHandler) List(c *fiber.Ctx) error {
	spec := query.Compile(c.Queries())
	res, err := query.Execute(c.Context(), h.bootcamps, spec)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := h.attachCourses(c, res.Items); err != nil {
		return apperr.Internal(err)
	}
	return listResponse(c, res)
}

// attachCourses adds a "courses" array to every listed bootcamp.
func (h *BootcampHandler) attachCourses(c *fiber.Ctx, items []bson.M) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]interface{}, 0, len(items))
	for _, item := range items {
		if id, ok := item["_id"]; ok {
			ids = append(ids, id)
		}
	}
	courses, err := h.courses.Find(c.Context(), bson.M{"bootcamp": bson.M{"$in": ids}}, query.FindOptions{})
	if err != nil {
		return err
	}
	byBootcamp := map[interface{}][]bson.M{}
	for _, course := range courses {
		byBootcamp[course["bootcamp"]] = append(byBootcamp[course["bootcamp"]], course)
	}
	for _, item := range items {
		group := byBootcamp[item["_id"]]
		if group == nil {
			group = []bson.M{}
		}
		item["courses"] = group
	}
	return nil
}

func (h *BootcampHandler) Get(c *fiber.Ctx) error {
	var bootcamp models.Bootcamp
	if err := h.bootcamps.FindByID(c.Context(), c.Params("id"), &bootcamp); err != nil {
		return err
	}
	return dataResponse(c, fiber.StatusOK, bootcamp)
}

type bootcampReq struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Website       string   `json:"website"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	Careers       []string `json:"careers"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"jobAssistance"`
	JobGuarantee  bool     `json:"jobGuarantee"`
	AcceptGi      bool     `json:"acceptGi"`
}

// Create handles POST /api/v1/bootcamps. Publishers may own one bootcamp;
// admins are unrestricted.
func (h *BootcampHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req bootcampReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if req.Name == "" || req.Description == "" || req.Address == "" {
		return apperr.BadRequest("Please provide a name, description and address")
	}
	for _, career := range req.Careers {
		if !models.ValidCareer(career) {
			return apperr.BadRequest(fmt.Sprintf("Career '%s' is not in the allowed list", career))
		}
	}

	if user.Role != models.RoleAdmin {
		owned, err := h.bootcamps.Count(c.Context(), bson.M{"user": user.ID})
		if err != nil {
			return apperr.Internal(err)
		}
		if owned > 0 {
			return apperr.BadRequest(fmt.Sprintf("The user with ID %s has already published a bootcamp", user.ID.Hex()))
		}
	}

	bootcamp := models.Bootcamp{
		Name:          req.Name,
		Slug:          models.Slugify(req.Name),
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Careers:       req.Careers,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
		AcceptGi:      req.AcceptGi,
		Photo:         "no-photo.jpg",
		User:          user.ID,
		CreatedAt:     time.Now().UTC(),
	}

	// geocoding is best effort: on failure the raw address is kept
	if loc, err := h.geo.Geocode(c.Context(), req.Address); err == nil {
		bootcamp.Location = &models.Location{
			Type:             "Point",
			Coordinates:      []float64{loc.Lng, loc.Lat},
			FormattedAddress: loc.FormattedAddress,
			Street:           loc.Street,
			City:             loc.City,
			State:            loc.State,
			Zipcode:          loc.Zipcode,
			Country:          loc.Country,
		}
		bootcamp.Address = ""
	} else {
		h.logger.Warnw("geocoding failed, storing raw address", "address", req.Address, "error", err)
	}

	id, err := h.bootcamps.InsertOne(c.Context(), &bootcamp)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.Conflict("Duplicate field is not allowed")
		}
		return apperr.Internal(err)
	}
	bootcamp.ID = id
	return dataResponse(c, fiber.StatusCreated, bootcamp)
}

var bootcampPatchFields = map[string]bool{
	"name": true, "description": true, "website": true, "phone": true,
	"email": true, "address": true, "careers": true, "housing": true,
	"jobAssistance": true, "jobGuarantee": true, "acceptGi": true,
	"averageCost": true,
}

func (h *BootcampHandler) Update(c *fiber.Ctx) error {
	bootcamp, err := h.ownedBootcamp(c)
	if err != nil {
		return err
	}

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	patch := bson.M{}
	for k, v := range body {
		if bootcampPatchFields[k] {
			patch[k] = v
		}
	}
	if len(patch) == 0 {
		return apperr.BadRequest("No updatable fields provided")
	}
	if name, ok := patch["name"].(string); ok {
		patch["slug"] = models.Slugify(name)
	}

	var updated models.Bootcamp
	if err := h.bootcamps.UpdateByID(c.Context(), bootcamp.ID.Hex(), patch, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.Conflict("Duplicate field is not allowed")
		}
		return err
	}
	return dataResponse(c, fiber.StatusOK, updated)
}

func (h *BootcampHandler) Delete(c *fiber.Ctx) error {
	bootcamp, err := h.ownedBootcamp(c)
	if err != nil {
		return err
	}

	var deleted models.Bootcamp
	if err := h.bootcamps.DeleteByID(c.Context(), bootcamp.ID.Hex(), &deleted); err != nil {
		return err
	}
	return dataResponse(c, fiber.StatusOK, deleted)
}

// UploadPhoto handles PUT /api/v1/bootcamps/:id/photo with a multipart
// "file" field, storing the image in the object store.
func (h *BootcampHandler) UploadPhoto(c *fiber.Ctx) error {
	if h.uploads == nil {
		return apperr.BadRequest("Photo uploads are not configured")
	}
	bootcamp, err := h.ownedBootcamp(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.BadRequest("Please upload a file")
	}
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return apperr.BadRequest("Please upload an image file")
	}
	if fh.Size > h.maxUpload {
		return apperr.BadRequest(fmt.Sprintf("Please upload an image less than %d bytes", h.maxUpload))
	}

	f, err := fh.Open()
	if err != nil {
		return apperr.Internal(err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return apperr.Internal(err)
	}

	key := fmt.Sprintf("photos/%s%s", uuid.NewString(), filepath.Ext(fh.Filename))
	photoURL, err := h.uploads.Upload(c.Context(), key, contentType, data)
	if err != nil {
		return apperr.Internal(err)
	}

	var updated models.Bootcamp
	if err := h.bootcamps.UpdateByID(c.Context(), bootcamp.ID.Hex(), bson.M{"photo": photoURL}, &updated); err != nil {
		return err
	}
	return dataResponse(c, fiber.StatusOK, updated.Photo)
}

// ownedBootcamp loads the target bootcamp and enforces the owner-or-admin
// rule for mutations.
func (h *BootcampHandler) ownedBootcamp(c *fiber.Ctx) (*models.Bootcamp, error) {
	var bootcamp models.Bootcamp
	if err := h.bootcamps.FindByID(c.Context(), c.Params("id"), &bootcamp); err != nil {
		return nil, err
	}
	user := middleware.CurrentUser(c)
	if !auth.OwnerOrAdmin(bootcamp.User, user.ID, user.Role) {
		return nil, apperr.Forbidden(fmt.Sprintf("User %s is not authorized to update this bootcamp", user.ID.Hex()))
	}
	return &bootcamp, nil
}

package handlers

import (
	"mime/multipart"

	"github.com/anjiri1684/spacehub/middleware"
	"github.com/anjiri1684/spacehub/models"
	"github.com/anjiri1684/spacehub/services"
	"github.com/anjiri1684/spacehub/utils"
	"github.com/gofiber/fiber/v2"
)

const maxImagesPerUpload = 10

type SpaceHandler struct {
	svc *services.SpaceService
}

func NewSpaceHandler(svc *services.SpaceService) *SpaceHandler {
	return &SpaceHandler{svc: svc}
}

func (h *SpaceHandler) Create(c *fiber.Ctx) error {
	var req services.CreateSpaceInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	space, err := h.svc.CreateSpace(c.UserContext(), middleware.CurrentPrincipal(c).ID, req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, "Space created and awaiting approval", space)
}

func (h *SpaceHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "spaceId")
	if err != nil {
		return respondError(c, err)
	}
	var req services.UpdateSpaceInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	space, err := h.svc.UpdateSpace(c.UserContext(), middleware.CurrentPrincipal(c).ID, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Space updated successfully", space)
}

func (h *SpaceHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "spaceId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.DeleteSpace(c.UserContext(), middleware.CurrentPrincipal(c).ID, id); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Space deleted successfully", nil)
}

// UploadImages accepts a multipart form with one or more "images" files.
func (h *SpaceHandler) UploadImages(c *fiber.Ctx) error {
	id, err := paramID(c, "spaceId")
	if err != nil {
		return respondError(c, err)
	}
	form, err := c.MultipartForm()
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Expected a multipart form", "")
	}
	headers := form.File["images"]
	if len(headers) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "No images provided", "")
	}
	if len(headers) > maxImagesPerUpload {
		return utils.Error(c, fiber.StatusBadRequest, "Too many images in one upload", "")
	}

	files := make([]services.ImageFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "Cannot read uploaded file", fh.Filename)
		}
		opened = append(opened, f)
		files = append(files, services.ImageFile{Name: fh.Filename, Reader: f})
	}

	images, err := h.svc.AddImages(c.UserContext(), middleware.CurrentPrincipal(c).ID, id, files)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, "Images uploaded successfully", images)
}

func (h *SpaceHandler) RemoveImage(c *fiber.Ctx) error {
	spaceID, err := paramID(c, "spaceId")
	if err != nil {
		return respondError(c, err)
	}
	imageID, err := paramID(c, "imageId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.RemoveImage(c.UserContext(), middleware.CurrentPrincipal(c).ID, spaceID, imageID); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Image removed successfully", nil)
}

// UploadSignature creates a signature for a direct upload from the frontend.
func (h *SpaceHandler) UploadSignature(c *fiber.Ctx) error {
	signed, err := h.svc.SignUpload()
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Upload signature created", signed)
}

func (h *SpaceHandler) List(c *fiber.Ctx) error {
	categoryID, err := queryID(c, "category_id")
	if err != nil {
		return respondError(c, err)
	}
	locationID, err := queryID(c, "location_id")
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.svc.ListSpaces(c.UserContext(), services.SpaceFilter{
		CategoryID: categoryID,
		LocationID: locationID,
		Search:     c.Query("search"),
		Page:       queryInt(c, "page", 1),
		Limit:      queryInt(c, "limit", 20),
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Spaces retrieved successfully", page)
}

func (h *SpaceHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "spaceId")
	if err != nil {
		return respondError(c, err)
	}
	space, err := h.svc.GetSpace(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Space retrieved successfully", space)
}

func (h *SpaceHandler) HostSpaces(c *fiber.Ctx) error {
	spaces, err := h.svc.ListHostSpaces(c.UserContext(), middleware.CurrentPrincipal(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Spaces retrieved successfully", spaces)
}

func (h *SpaceHandler) AdminList(c *fiber.Ctx) error {
	spaces, err := h.svc.AdminListSpaces(c.UserContext(), models.ListingStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Spaces retrieved successfully", spaces)
}

func (h *SpaceHandler) Approve(c *fiber.Ctx) error {
	id, err := paramID(c, "spaceId")
	if err != nil {
		return respondError(c, err)
	}
	space, err := h.svc.ApproveSpace(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Space approved", space)
}

func (h *SpaceHandler) Reject(c *fiber.Ctx) error {
	id, err := paramID(c, "spaceId")
	if err != nil {
		return respondError(c, err)
	}
	var req services.RejectSpaceInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	space, err := h.svc.RejectSpace(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Space rejected", space)
}

package handler

import (
	catalogapp "github.com/foodgram/backend/internal/application/catalog"
	"github.com/foodgram/backend/internal/interfaces/http/dto"
	"github.com/foodgram/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ImportFileField is the multipart field carrying the ingredient CSV
const ImportFileField = "file"

// TagHandler handles tag requests
type TagHandler struct {
	BaseHandler
	tagService *catalogapp.TagService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService *catalogapp.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// List handles GET /tags
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tagService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tags)
}

// Get handles GET /tags/:id
func (h *TagHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "Tag")
	if !ok {
		return
	}

	tag, err := h.tagService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tag)
}

// Create handles POST /tags
func (h *TagHandler) Create(c *gin.Context) {
	var req catalogapp.CreateTagRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tag, err := h.tagService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tag)
}

// IngredientHandler handles ingredient requests
type IngredientHandler struct {
	BaseHandler
	ingredientService *catalogapp.IngredientService
	importService     *catalogapp.IngredientImportService
}

// NewIngredientHandler creates a new ingredient handler
func NewIngredientHandler(
	ingredientService *catalogapp.IngredientService,
	importService *catalogapp.IngredientImportService,
) *IngredientHandler {
	return &IngredientHandler{
		ingredientService: ingredientService,
		importService:     importService,
	}
}

// Search handles GET /ingredients?name=<prefix>
func (h *IngredientHandler) Search(c *gin.Context) {
	ingredients, err := h.ingredientService.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ingredients)
}

// Get handles GET /ingredients/:id
func (h *IngredientHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "Ingredient")
	if !ok {
		return
	}

	ingredient, err := h.ingredientService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ingredient)
}

// Create handles POST /ingredients
func (h *IngredientHandler) Create(c *gin.Context) {
	var req catalogapp.CreateIngredientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ingredient, err := h.ingredientService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ingredient)
}

// Import handles POST /ingredients/import, a multipart CSV upload of
// "name,measurement_unit" rows
func (h *IngredientHandler) Import(c *gin.Context) {
	header, err := c.FormFile(ImportFileField)
	if err != nil {
		h.BadRequest(c, "A CSV file is required in the \""+ImportFileField+"\" field")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.BadRequest(c, "Uploaded file could not be read")
		return
	}
	defer file.Close()

	result, err := h.importService.Import(c.Request.Context(), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewIngredientImportResponse(result))
}

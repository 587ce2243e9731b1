package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/01moynul/autoparts-golang/internal/logger"
	"github.com/01moynul/autoparts-golang/internal/models"
)

//
// --- Vehicle hierarchy: make -> model -> year -> body type -> engine ---
//
// Every level is listed in full or filtered by its parent id. Edits are full
// PUTs of name + parent. Deletes cascade to descendants and compatibilities.
//

// respondDeleted reports a cascading delete and feeds the metrics.
func (h *Handlers) respondDeleted(c *gin.Context, what string, sum models.DeleteSummary) {
	if h.Metrics != nil {
		h.Metrics.RecordCascade(map[string]int64{
			"makes":           sum.Makes,
			"models":          sum.Models,
			"years":           sum.Years,
			"body_types":      sum.BodyTypes,
			"engines":         sum.Engines,
			"compatibilities": sum.Compatibilities,
		})
	}
	logger.FromGin(c).Info("hierarchy node deleted",
		zap.String("level", what),
		zap.Int64("models", sum.Models),
		zap.Int64("years", sum.Years),
		zap.Int64("body_types", sum.BodyTypes),
		zap.Int64("engines", sum.Engines),
		zap.Int64("compatibilities", sum.Compatibilities))
	c.JSON(http.StatusOK, gin.H{"message": what + " deleted", "deleted": sum})
}

// --- Makes ---

// GetCarMakes is the handler for GET /api/car-makes
func (h *Handlers) GetCarMakes(c *gin.Context) {
	makes, err := h.Store.ListMakes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carMakes": makes})
}

func (h *Handlers) GetCarMake(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	m, err := h.Store.GetMake(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carMake": m})
}

func (h *Handlers) CreateCarMake(c *gin.Context) {
	var input models.CarMakeInput
	if !bindJSON(c, &input) {
		return
	}
	m, err := h.Store.CreateMake(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Car make created", "carMake": m})
}

func (h *Handlers) UpdateCarMake(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.CarMakeInput
	if !bindJSON(c, &input) {
		return
	}
	m, err := h.Store.UpdateMake(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Car make updated", "carMake": m})
}

func (h *Handlers) DeleteCarMake(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sum, err := h.Store.DeleteMake(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondDeleted(c, "Car make", sum)
}

// --- Models ---

// GetCarModels is the handler for GET /api/car-models[?makeId=]
func (h *Handlers) GetCarModels(c *gin.Context) {
	makeID, ok := queryID(c, "makeId")
	if !ok {
		return
	}
	list, err := h.Store.ListModels(c.Request.Context(), makeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carModels": list})
}

func (h *Handlers) GetCarModel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	m, err := h.Store.GetModel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carModel": m})
}

func (h *Handlers) CreateCarModel(c *gin.Context) {
	var input models.CarModelInput
	if !bindJSON(c, &input) {
		return
	}
	m, err := h.Store.CreateModel(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Car model created", "carModel": m})
}

func (h *Handlers) UpdateCarModel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.CarModelInput
	if !bindJSON(c, &input) {
		return
	}
	m, err := h.Store.UpdateModel(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Car model updated", "carModel": m})
}

func (h *Handlers) DeleteCarModel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sum, err := h.Store.DeleteModel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondDeleted(c, "Car model", sum)
}

// --- Years ---

// GetCarYears is the handler for GET /api/car-years[?modelId=]
func (h *Handlers) GetCarYears(c *gin.Context) {
	modelID, ok := queryID(c, "modelId")
	if !ok {
		return
	}
	list, err := h.Store.ListYears(c.Request.Context(), modelID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carYears": list})
}

func (h *Handlers) GetCarYear(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	y, err := h.Store.GetYear(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carYear": y})
}

func (h *Handlers) CreateCarYear(c *gin.Context) {
	var input models.CarYearInput
	if !bindJSON(c, &input) {
		return
	}
	y, err := h.Store.CreateYear(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Car year created", "carYear": y})
}

func (h *Handlers) UpdateCarYear(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.CarYearInput
	if !bindJSON(c, &input) {
		return
	}
	y, err := h.Store.UpdateYear(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Car year updated", "carYear": y})
}

func (h *Handlers) DeleteCarYear(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sum, err := h.Store.DeleteYear(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondDeleted(c, "Car year", sum)
}

// --- Body types ---

// GetCarBodyTypes is the handler for GET /api/car-body-types[?yearId=]
func (h *Handlers) GetCarBodyTypes(c *gin.Context) {
	yearID, ok := queryID(c, "yearId")
	if !ok {
		return
	}
	list, err := h.Store.ListBodyTypes(c.Request.Context(), yearID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carBodyTypes": list})
}

func (h *Handlers) GetCarBodyType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b, err := h.Store.GetBodyType(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carBodyType": b})
}

func (h *Handlers) CreateCarBodyType(c *gin.Context) {
	var input models.CarBodyTypeInput
	if !bindJSON(c, &input) {
		return
	}
	b, err := h.Store.CreateBodyType(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Car body type created", "carBodyType": b})
}

func (h *Handlers) UpdateCarBodyType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.CarBodyTypeInput
	if !bindJSON(c, &input) {
		return
	}
	b, err := h.Store.UpdateBodyType(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Car body type updated", "carBodyType": b})
}

func (h *Handlers) DeleteCarBodyType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sum, err := h.Store.DeleteBodyType(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondDeleted(c, "Car body type", sum)
}

// --- Engines ---

// GetCarEngines is the handler for GET /api/car-engines[?bodyTypeId=]
func (h *Handlers) GetCarEngines(c *gin.Context) {
	bodyTypeID, ok := queryID(c, "bodyTypeId")
	if !ok {
		return
	}
	list, err := h.Store.ListEngines(c.Request.Context(), bodyTypeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carEngines": list})
}

func (h *Handlers) GetCarEngine(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	e, err := h.Store.GetEngine(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carEngine": e})
}

func (h *Handlers) CreateCarEngine(c *gin.Context) {
	var input models.CarEngineInput
	if !bindJSON(c, &input) {
		return
	}
	e, err := h.Store.CreateEngine(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Car engine created", "carEngine": e})
}

func (h *Handlers) UpdateCarEngine(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.CarEngineInput
	if !bindJSON(c, &input) {
		return
	}
	e, err := h.Store.UpdateEngine(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Car engine updated", "carEngine": e})
}

func (h *Handlers) DeleteCarEngine(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sum, err := h.Store.DeleteEngine(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondDeleted(c, "Car engine", sum)
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/mesa-backend/events"
	"github.com/yeremiapane/mesa-backend/models"
	"github.com/yeremiapane/mesa-backend/services"
	"github.com/yeremiapane/mesa-backend/utils"
)

var ErrCnpjRequired = errors.New("cnpj is required")

type TableController struct {
	Service *services.TableService
	Events  events.Publisher
}

func NewTableController(service *services.TableService, publisher events.Publisher) *TableController {
	return &TableController{Service: service, Events: publisher}
}

type listTablesQuery struct {
	Page       *int   `form:"page"`
	Limit      *int   `form:"limit"`
	Cnpj       string `form:"cnpj"`
	MesaNumber string `form:"mesaNumber"`
}

// GetAllTables -> daftar meja milik restoran (cnpj), dengan search & paginasi
func (tc *TableController) GetAllTables(c *gin.Context) {
	var q listTablesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if q.Cnpj == "" {
		utils.RespondError(c, http.StatusBadRequest, ErrCnpjRequired)
		return
	}

	result, err := tc.Service.List(c.Request.Context(), models.TableQuery{
		Page:       q.Page,
		Limit:      q.Limit,
		Search:     c.QueryMap("search"),
		Cnpj:       q.Cnpj,
		MesaNumber: q.MesaNumber,
	})
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", result)
}

// GetTableByNumber -> detail satu meja berdasarkan nomor
func (tc *TableController) GetTableByNumber(c *gin.Context) {
	numero, err := strconv.Atoi(c.Param("numero"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table number"))
		return
	}
	cnpj := c.Query("cnpj")
	if cnpj == "" {
		utils.RespondError(c, http.StatusBadRequest, ErrCnpjRequired)
		return
	}

	table, err := tc.Service.FindOne(c.Request.Context(), numero, cnpj)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	if table == nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// CreateTable -> satu meja, atau rentang numero..endNumber
func (tc *TableController) CreateTable(c *gin.Context) {
	cnpj := c.Query("cnpj")
	if cnpj == "" {
		utils.RespondError(c, http.StatusBadRequest, ErrCnpjRequired)
		return
	}

	var input models.MesaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	tables, err := tc.Service.Create(c.Request.Context(), input, cnpj, input.EndNumber)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	for _, table := range tables {
		tc.publish(c, events.ActionCreated, cnpj, table)
	}

	if input.EndNumber != nil && *input.EndNumber > input.Numero {
		utils.InfoLogger.Printf("Tables %d..%d created for %s", input.Numero, *input.EndNumber, cnpj)
		utils.RespondJSON(c, http.StatusCreated, "Tables created successfully", tables)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", tables[0])
}

// UpdateTable -> update sebagian field meja berdasarkan id
func (tc *TableController) UpdateTable(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Service.UpdateRow(c.Request.Context(), body, c.Param("id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	response := table.Response()
	tc.publish(c, events.ActionUpdated, table.RestaurantCnpj, response)
	utils.RespondJSON(c, http.StatusOK, "Table updated", response)
}

// DeleteTable -> soft delete, baris tetap ada di database
func (tc *TableController) DeleteTable(c *gin.Context) {
	table, err := tc.Service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	tc.publish(c, events.ActionDeleted, table.RestaurantCnpj, table.Response())
	utils.RespondJSON(c, http.StatusOK, "Table deleted", table)
}

func (tc *TableController) publish(c *gin.Context, action, cnpj string, table models.MesaResponse) {
	if tc.Events == nil {
		return
	}
	// failures are logged by the publisher and never change the response
	_ = tc.Events.Publish(c.Request.Context(), events.TableEvent(action, cnpj, table))
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/backoffice_backend/models"
)

func ListVehiclesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var customerId *int
		if v, err := strconv.Atoi(c.Query("customer_id")); err == nil {
			customerId = &v
		}
		vehicles, err := models.GetVehicles(c.Request.Context(), customerId)
		if err != nil {
			respondError(c, "ListVehiclesHandler", err)
			return
		}
		respondData(c, http.StatusOK, vehicles)
	}
}

func CreateVehicleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			respondError(c, "CreateVehicleHandler", err)
			return
		}
		input, err := models.BindNewVehicle(body)
		if err != nil {
			respondError(c, "CreateVehicleHandler", err)
			return
		}
		vehicle, err := models.CreateVehicle(c.Request.Context(), input)
		if err != nil {
			respondError(c, "CreateVehicleHandler", err)
			return
		}
		respondMessage(c, http.StatusCreated, "vehicle created", vehicle)
	}
}

func GetVehicleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			respondError(c, "GetVehicleHandler", err)
			return
		}
		vehicle, err := models.GetVehicle(c.Request.Context(), id)
		if err != nil {
			respondError(c, "GetVehicleHandler", err)
			return
		}
		respondData(c, http.StatusOK, vehicle)
	}
}

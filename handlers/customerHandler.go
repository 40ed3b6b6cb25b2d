package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/models"
	"github.com/mmdatafocus/backoffice_backend/utils"
	"github.com/sirupsen/logrus"
)

func ListCustomersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.CustomerFilterFromQuery(c.Request.URL.Query())
		page, err := models.ListCustomers(c.Request.Context(), filter)
		if err != nil {
			respondError(c, "ListCustomersHandler", err)
			return
		}
		respondData(c, http.StatusOK, page)
	}
}

func CreateCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			respondError(c, "CreateCustomerHandler", err)
			return
		}
		input, err := models.BindNewCustomer(body)
		if err != nil {
			respondError(c, "CreateCustomerHandler", err)
			return
		}
		customer, err := models.CreateCustomer(c.Request.Context(), input)
		if err != nil {
			respondError(c, "CreateCustomerHandler", err)
			return
		}

		config.LoggerFromContext(c.Request.Context()).WithFields(logrus.Fields{
			"customer_id": customer.ID,
		}).Info("[customer.create]")
		respondMessage(c, http.StatusCreated, "customer created", customer)
	}
}

func GetCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			respondError(c, "GetCustomerHandler", err)
			return
		}
		detail, err := models.GetCustomer(c.Request.Context(), id)
		if err != nil {
			respondError(c, "GetCustomerHandler", err)
			return
		}
		respondData(c, http.StatusOK, detail)
	}
}

func UpdateCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			respondError(c, "UpdateCustomerHandler", err)
			return
		}
		body, err := readBody(c)
		if err != nil {
			respondError(c, "UpdateCustomerHandler", err)
			return
		}
		if _, err := utils.FetchModel[models.Customer](c.Request.Context(), id); err != nil {
			respondError(c, "UpdateCustomerHandler", err)
			return
		}
		input, present, err := models.BindCustomerUpdate(body)
		if err != nil {
			respondError(c, "UpdateCustomerHandler", err)
			return
		}
		customer, err := models.UpdateCustomer(c.Request.Context(), id, input, present)
		if err != nil {
			respondError(c, "UpdateCustomerHandler", err)
			return
		}
		respondMessage(c, http.StatusOK, "customer updated", customer)
	}
}

func DeleteCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			respondError(c, "DeleteCustomerHandler", err)
			return
		}
		customer, err := models.DeleteCustomer(c.Request.Context(), id)
		if err != nil {
			respondError(c, "DeleteCustomerHandler", err)
			return
		}

		config.LoggerFromContext(c.Request.Context()).WithFields(logrus.Fields{
			"customer_id": customer.ID,
		}).Info("[customer.delete]")
		respondMessage(c, http.StatusOK, "customer deleted", nil)
	}
}

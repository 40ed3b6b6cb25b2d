package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/models"
	"github.com/mmdatafocus/backoffice_backend/utils"
	"github.com/shopspring/decimal"
)

const (
	messageNotFound      = "resource not found"
	messageMalformed     = "request body must be a JSON object"
	messageInternalError = "internal server error"
)

func init() {
	// amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondMessage(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// respondError maps an error to its status: validation 422, missing record 404,
// malformed body 400, anything else 500 with the cause logged but not exposed.
func respondError(c *gin.Context, funcName string, err error) {
	var verr *utils.ValidationError
	switch {
	case errors.As(err, &verr):
		body := gin.H{"success": false}
		if verr.Message != "" {
			body["message"] = verr.Message
		}
		if len(verr.Fields) > 0 {
			body["errors"] = verr.Fields
		}
		c.JSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": messageNotFound})
	case errors.Is(err, models.ErrNoExchangeRate):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, utils.ErrMalformedBody):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": messageMalformed})
	default:
		config.LogError(config.GetLogger(), "handlers", funcName, c.Request.Method+" "+c.FullPath(), c.Request.URL.RawQuery, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": messageInternalError})
	}
}

// a non numeric id can never match a record
func paramId(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, utils.ErrorRecordNotFound
	}
	return id, nil
}

func readBody(c *gin.Context) ([]byte, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, utils.ErrMalformedBody
	}
	return body, nil
}

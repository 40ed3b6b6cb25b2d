package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/models"
	"github.com/sirupsen/logrus"
)

func CurrentExchangeRateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rate, err := models.GetCurrentExchangeRate(c.Request.Context())
		if err != nil {
			respondError(c, "CurrentExchangeRateHandler", err)
			return
		}
		respondData(c, http.StatusOK, rate)
	}
}

func SetExchangeRateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			respondError(c, "SetExchangeRateHandler", err)
			return
		}
		input, err := models.BindNewExchangeRate(body)
		if err != nil {
			respondError(c, "SetExchangeRateHandler", err)
			return
		}
		rate, err := models.SetManualExchangeRate(c.Request.Context(), input)
		if err != nil {
			respondError(c, "SetExchangeRateHandler", err)
			return
		}

		config.LoggerFromContext(c.Request.Context()).WithFields(logrus.Fields{
			"rate_date": rate.RateDate.String(),
			"buy_rate":  rate.BuyRate.String(),
			"sell_rate": rate.SellRate.String(),
		}).Info("[exchange_rate.set]")
		respondMessage(c, http.StatusOK, "exchange rate updated", rate)
	}
}

func ExchangeRateHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := models.ExchangeRateFilterFromQuery(c.Request.URL.Query())
		if err != nil {
			respondError(c, "ExchangeRateHistoryHandler", err)
			return
		}
		page, err := models.GetExchangeRateHistory(c.Request.Context(), filter)
		if err != nil {
			respondError(c, "ExchangeRateHistoryHandler", err)
			return
		}
		respondData(c, http.StatusOK, page)
	}
}

func ConvertCurrencyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			respondError(c, "ConvertCurrencyHandler", err)
			return
		}
		input, err := models.BindNewConversion(body)
		if err != nil {
			respondError(c, "ConvertCurrencyHandler", err)
			return
		}
		result, err := models.ConvertAmount(c.Request.Context(), input)
		if err != nil {
			respondError(c, "ConvertCurrencyHandler", err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

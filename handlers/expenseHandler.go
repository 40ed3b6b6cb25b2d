package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/models"
	"github.com/mmdatafocus/backoffice_backend/utils"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func ListExpensesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := models.ExpenseFilterFromQuery(c.Request.URL.Query())
		if err != nil {
			respondError(c, "ListExpensesHandler", err)
			return
		}
		page, err := models.ListExpenses(c.Request.Context(), filter)
		if err != nil {
			respondError(c, "ListExpensesHandler", err)
			return
		}
		respondData(c, http.StatusOK, page)
	}
}

func CreateExpenseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			respondError(c, "CreateExpenseHandler", err)
			return
		}
		input, err := models.BindNewExpense(body)
		if err != nil {
			respondError(c, "CreateExpenseHandler", err)
			return
		}
		ctx := c.Request.Context()
		expense, err := models.CreateExpense(ctx, input, utils.CallerId(ctx))
		if err != nil {
			respondError(c, "CreateExpenseHandler", err)
			return
		}

		userName, _ := utils.GetUserNameFromContext(ctx)
		config.LoggerFromContext(ctx).WithFields(logrus.Fields{
			"expense_id": expense.ID,
			"category":   expense.Category,
			"user":       userName,
		}).Info("[expense.create]")
		respondMessage(c, http.StatusCreated, "expense created", expense)
	}
}

func GetExpenseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			respondError(c, "GetExpenseHandler", err)
			return
		}
		expense, err := models.GetExpense(c.Request.Context(), id)
		if err != nil {
			respondError(c, "GetExpenseHandler", err)
			return
		}
		respondData(c, http.StatusOK, expense)
	}
}

func UpdateExpenseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			respondError(c, "UpdateExpenseHandler", err)
			return
		}
		body, err := readBody(c)
		if err != nil {
			respondError(c, "UpdateExpenseHandler", err)
			return
		}
		// the record must exist before its payload is judged
		if _, err := utils.FetchModel[models.Expense](c.Request.Context(), id); err != nil {
			respondError(c, "UpdateExpenseHandler", err)
			return
		}
		input, present, err := models.BindExpenseUpdate(body)
		if err != nil {
			respondError(c, "UpdateExpenseHandler", err)
			return
		}
		expense, err := models.UpdateExpense(c.Request.Context(), id, input, present)
		if err != nil {
			respondError(c, "UpdateExpenseHandler", err)
			return
		}
		respondMessage(c, http.StatusOK, "expense updated", expense)
	}
}

func DeleteExpenseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			respondError(c, "DeleteExpenseHandler", err)
			return
		}
		expense, err := models.DeleteExpense(c.Request.Context(), id)
		if err != nil {
			respondError(c, "DeleteExpenseHandler", err)
			return
		}

		config.LoggerFromContext(c.Request.Context()).WithFields(logrus.Fields{
			"expense_id": expense.ID,
		}).Info("[expense.delete]")
		respondMessage(c, http.StatusOK, "expense deleted", nil)
	}
}

func ExpenseSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := models.ExpenseFilterFromQuery(c.Request.URL.Query())
		if err != nil {
			respondError(c, "ExpenseSummaryHandler", err)
			return
		}
		summary, period, err := models.GetExpenseSummary(c.Request.Context(), filter)
		if err != nil {
			respondError(c, "ExpenseSummaryHandler", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"period":  period,
			"data":    summary,
		})
	}
}

func ExpenseCategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondData(c, http.StatusOK, models.ExpenseCategories())
	}
}

func ExportExpensesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := models.ExpenseFilterFromQuery(c.Request.URL.Query())
		if err != nil {
			respondError(c, "ExportExpensesHandler", err)
			return
		}
		// buffered so a failure can still be reported as JSON
		var buf bytes.Buffer
		if err := models.ExportExpenses(c.Request.Context(), filter, &buf); err != nil {
			respondError(c, "ExportExpensesHandler", err)
			return
		}
		filename := fmt.Sprintf("expenses_%s.xlsx", config.Now().Format("20060102"))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}

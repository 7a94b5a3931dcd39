// controllers/loan_controller.go
package controllers

import (
	"net/http"

	"Gin_postgres_redis_key_loans/app"
	"Gin_postgres_redis_key_loans/services"

	"github.com/gin-gonic/gin"
)

type LoanController struct{ *Srv }

func NewLoanController(s *Srv) *LoanController { return &LoanController{Srv: s} }

// 钥匙列表，?available=true 只看可借的
func (lc *LoanController) ListKeys(c *gin.Context) {
	keys, err := lc.Loans.ListKeys(c.Request.Context(), c.Query("available") == "true")
	if err != nil {
		lc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": keys})
}

// GET /api/keys/:code/loans
func (lc *LoanController) KeyHistory(c *gin.Context) {
	loans, err := lc.Loans.KeyHistory(c.Request.Context(), c.Param("code"))
	if err != nil {
		lc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": loans})
}

// 借出
func (lc *LoanController) OpenLoan(c *gin.Context) {
	var in services.OpenLoanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		lc.badRequest(c, "loan", err)
		return
	}
	loan, err := lc.Loans.OpenLoan(c.Request.Context(), in)
	if err != nil {
		lc.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

// 归还
func (lc *LoanController) Return(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		lc.respondError(c, err)
		return
	}
	loan, err := lc.Loans.CloseLoan(c.Request.Context(), id)
	if err != nil {
		lc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// 借还记录 ?status=open|closed
func (lc *LoanController) ListLoans(c *gin.Context) {
	ls, err := lc.Loans.ListLoans(c.Request.Context(), c.Query("status"))
	if err != nil {
		lc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ls})
}

func (lc *LoanController) GetLoan(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		lc.respondError(c, err)
		return
	}
	loan, err := lc.Loans.GetLoan(c.Request.Context(), id)
	if err != nil {
		lc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

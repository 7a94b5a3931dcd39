package controllers

import (
	"net/http"

	"Gin_postgres_redis_key_loans/app"
	"Gin_postgres_redis_key_loans/services"

	"github.com/gin-gonic/gin"
)

type BorrowerController struct{ *Srv }

func NewBorrowerController(s *Srv) *BorrowerController { return &BorrowerController{Srv: s} }

func (bc *BorrowerController) CreateBorrower(c *gin.Context) {
	var in services.BorrowerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bc.badRequest(c, "borrower", err)
		return
	}
	b, err := bc.Borrowers.CreateBorrower(c.Request.Context(), in)
	if err != nil {
		bc.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (bc *BorrowerController) ListBorrowers(c *gin.Context) {
	bs, err := bc.Borrowers.ListBorrowers(c.Request.Context())
	if err != nil {
		bc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": bs})
}

// GET /api/borrowers/:matricule, with the loan history
func (bc *BorrowerController) GetBorrower(c *gin.Context) {
	ctx := c.Request.Context()
	b, err := bc.Borrowers.GetBorrower(ctx, c.Param("matricule"))
	if err != nil {
		bc.respondError(c, err)
		return
	}
	loans, err := bc.Loans.BorrowerHistory(ctx, b.Matricule)
	if err != nil {
		bc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"borrower": b, "loans": loans})
}

func (bc *BorrowerController) UpdateBorrower(c *gin.Context) {
	var patch services.BorrowerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bc.badRequest(c, "borrower", err)
		return
	}
	b, err := bc.Borrowers.UpdateBorrower(c.Request.Context(), c.Param("matricule"), patch)
	if err != nil {
		bc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/borrowers/:matricule/loans
func (bc *BorrowerController) LoanHistory(c *gin.Context) {
	loans, err := bc.Loans.BorrowerHistory(c.Request.Context(), c.Param("matricule"))
	if err != nil {
		bc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": loans})
}

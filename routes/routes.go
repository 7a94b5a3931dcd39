package routes

import (
	"net/http"

	"Gin_postgres_redis_key_loans/app"
	"Gin_postgres_redis_key_loans/controllers"
	"Gin_postgres_redis_key_loans/metrics"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	roomCtl := controllers.NewRoomController(s)
	borrowerCtl := controllers.NewBorrowerController(s)
	loanCtl := controllers.NewLoanController(s)
	importCtl := controllers.NewImportController(s)
	dashCtl := controllers.NewDashboardController(s)

	r.GET("/healthz", func(c *app.Ctx) { c.JSON(http.StatusOK, app.H{"ok": true}) })
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/dashboard", dashCtl.Show)

	// ------------------------------
	// 房间与钥匙
	// ------------------------------
	rooms := api.Group("/rooms")
	{
		rooms.GET("", roomCtl.ListRooms)
		rooms.POST("", roomCtl.CreateRoom)
		rooms.GET("/:name", roomCtl.GetRoom)
		rooms.PUT("/:name", roomCtl.UpdateRoom)
		rooms.GET("/:name/status", roomCtl.RoomStatus)
	}

	keys := api.Group("/keys")
	{
		keys.GET("", loanCtl.ListKeys) // ?available=true
		keys.GET("/:code/loans", loanCtl.KeyHistory)
	}

	// ------------------------------
	// 借用人
	// ------------------------------
	borrowers := api.Group("/borrowers")
	{
		borrowers.GET("", borrowerCtl.ListBorrowers)
		borrowers.POST("", borrowerCtl.CreateBorrower)
		borrowers.GET("/:matricule", borrowerCtl.GetBorrower)
		borrowers.PUT("/:matricule", borrowerCtl.UpdateBorrower)
		borrowers.GET("/:matricule/loans", borrowerCtl.LoanHistory)
	}

	// ------------------------------
	// 借还
	// ------------------------------
	loans := api.Group("/loans")
	{
		loans.GET("", loanCtl.ListLoans) // ?status=open|closed
		loans.POST("", loanCtl.OpenLoan)
		loans.GET("/:id", loanCtl.GetLoan)
		loans.POST("/:id/return", loanCtl.Return)
	}

	// ------------------------------
	// 批量导入
	// ------------------------------
	imports := api.Group("/import")
	{
		imports.GET("/logs", importCtl.ListLogs) // ?kind=&limit=
		imports.POST("/:kind", importCtl.Import)
	}
}

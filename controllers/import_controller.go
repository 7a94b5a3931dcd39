package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"Gin_postgres_redis_key_loans/app"
	"Gin_postgres_redis_key_loans/apperr"
	"Gin_postgres_redis_key_loans/importer"

	"github.com/gin-gonic/gin"
)

type ImportController struct{ *Srv }

func NewImportController(s *Srv) *ImportController { return &ImportController{Srv: s} }

type importRequest struct {
	Source string           `json:"source"`
	Rows   []map[string]any `json:"rows"`
}

// POST /api/import/:kind
// JSON {"rows":[{...}]} or a multipart form with a CSV "file".
func (ic *ImportController) Import(c *gin.Context) {
	kind, err := importer.ParseKind(c.Param("kind"))
	if err != nil {
		ic.respondError(c, apperr.NewFieldError("import", "kind", c.Param("kind"), err.Error()))
		return
	}

	var rows []importer.Row
	var source string
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			ic.badRequest(c, "import", err)
			return
		}
		f, err := fh.Open()
		if err != nil {
			ic.respondError(c, err)
			return
		}
		defer f.Close()
		if rows, err = importer.DecodeCSV(f); err != nil {
			ic.respondError(c, apperr.NewValidationError("import", "unreadable CSV file", err.Error()))
			return
		}
		source = fh.Filename
	} else {
		// numbers stay json.Number so a numeric matricule keeps its digits
		var req importRequest
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		if err := dec.Decode(&req); err != nil {
			ic.badRequest(c, "import", err)
			return
		}
		rows = jsonRows(req.Rows)
		source = req.Source
	}

	rep, err := ic.Imports.Import(c.Request.Context(), kind, source, rows)
	if err != nil {
		ic.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// jsonRows stringifies the values so JSON numbers read like CSV cells.
func jsonRows(in []map[string]any) []importer.Row {
	rows := make([]importer.Row, 0, len(in))
	for _, m := range in {
		r := make(importer.Row, len(m))
		for k, v := range m {
			if v == nil {
				continue
			}
			r[strings.ToLower(strings.TrimSpace(k))] = cell(v)
		}
		rows = append(rows, r)
	}
	return rows
}

func cell(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// GET /api/import/logs?kind=&limit=
func (ic *ImportController) ListLogs(c *gin.Context) {
	raw := c.DefaultQuery("limit", "50")
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		ic.respondError(c, apperr.NewFieldError("import", "limit", raw, "limit must be a positive integer"))
		return
	}
	logs, err := ic.Imports.ListLogs(c.Request.Context(), c.Query("kind"), limit)
	if err != nil {
		ic.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": logs})
}

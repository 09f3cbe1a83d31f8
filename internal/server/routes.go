package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bazar/internal/draft"
	"bazar/internal/export"
	"bazar/internal/orders"
	"bazar/internal/response"
	"bazar/internal/validation"
)

// Routes builds the HTTP surface: draft session endpoints, the catalog
// search proxy, and the WebSocket upgrade.
func (a *App) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/drafts", a.handleDrafts)
	mux.HandleFunc("/api/drafts/", a.handleDraft)
	mux.HandleFunc("/api/catalog/search", a.handleCatalogSearch)
	mux.HandleFunc("/ws", a.Hub.HandleWS)
	return mux
}

type createDraftRequest struct {
	Form       string               `json:"form"`
	DocumentID string               `json:"document_id"`
	Header     map[string]string    `json:"header"`
	Lines      []draft.HydratedLine `json:"lines"`
}

func (a *App) handleDrafts(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		response.Err(w, "method not allowed", 405)
		return
	}
	var req createDraftRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}
	form, ok := orders.ByName(req.Form)
	if !ok {
		response.Err(w, "unknown form: "+req.Form, 400)
		return
	}

	id, sess := a.newSession(form)
	if req.DocumentID != "" || len(req.Lines) > 0 {
		sess.Hydrate(req.DocumentID, req.Header, req.Lines)
	} else {
		for k, v := range req.Header {
			sess.SetHeader(k, v)
		}
	}
	response.JSON(w, map[string]interface{}{"id": id, "snapshot": sess.Snapshot()})
}

type patchLineRequest struct {
	Product   *string  `json:"product"`
	Quantity  *int     `json:"quantity"`
	UnitPrice *float64 `json:"unit_price"`
	Search    *string  `json:"search"`
	Retry     bool     `json:"retry"`
}

func (a *App) handleDraft(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/drafts/"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" {
		response.Err(w, "not found", 404)
		return
	}

	sess := a.session(parts[0])
	if sess == nil {
		response.Err(w, "not found", 404)
		return
	}

	switch {
	case len(parts) == 1:
		a.handleSession(w, r, parts[0], sess)
	case parts[1] == "lines" && len(parts) == 2 && r.Method == "POST":
		sess.AddLine()
		response.JSON(w, sess.Snapshot())
	case parts[1] == "lines" && len(parts) == 3:
		a.handleLine(w, r, sess, parts[2])
	case parts[1] == "submit" && len(parts) == 2 && r.Method == "POST":
		a.handleSubmit(w, r, sess)
	case parts[1] == "export" && len(parts) == 2 && r.Method == "GET":
		a.handleExport(w, r, sess)
	default:
		response.Err(w, "not found", 404)
	}
}

func (a *App) handleSession(w http.ResponseWriter, r *http.Request, id string, sess *draft.Session) {
	switch r.Method {
	case "GET":
		response.JSON(w, sess.Snapshot())
	case "PATCH":
		var req struct {
			Header map[string]string `json:"header"`
		}
		if err := response.DecodeBody(r, &req); err != nil {
			response.Err(w, "invalid body", 400)
			return
		}
		for k, v := range req.Header {
			sess.SetHeader(k, v)
		}
		response.JSON(w, sess.Snapshot())
	case "DELETE":
		a.dropSession(id)
		response.JSON(w, map[string]string{"status": "discarded"})
	default:
		response.Err(w, "method not allowed", 405)
	}
}

func (a *App) handleLine(w http.ResponseWriter, r *http.Request, sess *draft.Session, rowID string) {
	switch r.Method {
	case "DELETE":
		if err := sess.RemoveLine(rowID); err != nil {
			writeDraftErr(w, err)
			return
		}
		response.JSON(w, sess.Snapshot())
	case "PATCH":
		var req patchLineRequest
		if err := response.DecodeBody(r, &req); err != nil {
			response.Err(w, "invalid body", 400)
			return
		}
		var err error
		if req.Quantity != nil {
			err = sess.SetQuantity(rowID, *req.Quantity)
		}
		if err == nil && req.UnitPrice != nil {
			err = sess.SetUnitPrice(rowID, *req.UnitPrice)
		}
		if err == nil && req.Product != nil {
			err = sess.SelectProduct(rowID, *req.Product)
		}
		if err == nil && req.Search != nil {
			err = sess.Search(rowID, *req.Search)
		}
		if err == nil && req.Retry {
			err = sess.Retry(rowID)
		}
		if err != nil {
			writeDraftErr(w, err)
			return
		}
		response.JSON(w, sess.Snapshot())
	default:
		response.Err(w, "method not allowed", 405)
	}
}

func (a *App) handleSubmit(w http.ResponseWriter, r *http.Request, sess *draft.Session) {
	err := sess.Submit(r.Context())
	if err != nil {
		var ve *validation.ValidationErrors
		switch {
		case errors.As(err, &ve):
			response.Fields(w, ve.Map())
		case errors.Is(err, draft.ErrSubmitInFlight):
			response.Err(w, err.Error(), 409)
		default:
			// Backend rejection: the draft is retained for correction.
			response.Err(w, err.Error(), 502)
		}
		return
	}
	response.JSON(w, sess.Snapshot())
}

func (a *App) handleExport(w http.ResponseWriter, r *http.Request, sess *draft.Session) {
	snap := sess.Snapshot()
	if r.URL.Query().Get("format") == "xlsx" {
		export.Excel(w, sheetName(snap.Form), snap)
		return
	}
	export.CSV(w, snap.Form+".csv", snap)
}

func sheetName(form string) string {
	if form == "" {
		return "Draft"
	}
	return strings.ToUpper(form[:1]) + form[1:]
}

func (a *App) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		response.Err(w, "method not allowed", 405)
		return
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	result, err := a.Catalog.Search(r.Context(), r.URL.Query().Get("term"), pageSize)
	if err != nil {
		response.Err(w, err.Error(), 502)
		return
	}
	response.JSONMeta(w, result.Items, result.TotalCount, 1, pageSize)
}

func writeDraftErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, draft.ErrRowNotFound):
		response.Err(w, err.Error(), 404)
	case errors.Is(err, draft.ErrLastLine):
		response.Err(w, err.Error(), 409)
	default:
		response.Err(w, err.Error(), 500)
	}
}

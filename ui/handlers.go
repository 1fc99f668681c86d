package ui

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/apper-canvas/studyflow-beta-ether/core"
	"github.com/apper-canvas/studyflow-beta-ether/middleware/auth"
	"github.com/apper-canvas/studyflow-beta-ether/notify"

	"github.com/a-h/templ"
)

// Handler returns an HTTP handler for the admin panel
func Handler(adm *core.Admin, hub *notify.Hub) http.Handler {
	handler := &AdminHandler{adm: adm, hub: hub}

	mux := http.NewServeMux()
	basePath := adm.GetConfig().BasePath

	// Authentication routes (if auth is enabled)
	authConfig := adm.GetAuth()
	if authConfig != nil && authConfig.Enabled {
		mux.HandleFunc(basePath+authConfig.LoginPath, handler.loginHandler)
		mux.HandleFunc(basePath+authConfig.LogoutPath, handler.logoutHandler)
	}

	mux.HandleFunc(basePath+"/", handler.indexHandler)

	var finalHandler http.Handler = mux
	if authConfig != nil {
		authMiddleware := auth.CreateAuthMiddleware(authConfig)
		finalHandler = authMiddleware(finalHandler)
	}

	return finalHandler
}

// AdminHandler wraps the admin registry to provide HTTP handler methods
type AdminHandler struct {
	adm *core.Admin
	hub *notify.Hub
}

// indexHandler routes all resource pages by path segments
func (h *AdminHandler) indexHandler(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, h.adm.GetConfig().BasePath)
	path = strings.Trim(path, "/")

	if path == "" {
		h.renderIndex(w, r)
		return
	}

	segments := strings.Split(path, "/")
	resourceName := segments[0]

	resource, exists := h.adm.GetResource(resourceName)
	if !exists {
		http.NotFound(w, r)
		return
	}
	client, _ := h.adm.Client(resourceName)

	switch len(segments) {
	case 1:
		// /admin/activity_c - resource list; POST creates
		if r.Method == http.MethodPost {
			h.handleCreateResource(w, r, client)
			return
		}
		h.renderResourceList(w, r, client)
	case 2:
		switch segments[1] {
		case "new":
			h.renderCreateForm(w, r, resource)
		case "delete":
			// /admin/activity_c/delete - batch delete of selected ids
			h.handleBatchDelete(w, r, client)
		default:
			// /admin/activity_c/7 - resource detail
			if r.Method == http.MethodPost && r.FormValue("_method") == "DELETE" {
				h.handleDeleteResource(w, r, client, segments[1])
				return
			}
			h.renderResourceDetail(w, r, client, segments[1])
		}
	case 3:
		if segments[2] == "edit" {
			if r.Method == http.MethodPost {
				h.handleUpdateResource(w, r, client, segments[1])
				return
			}
			h.renderEditForm(w, r, client, segments[1])
		} else {
			http.NotFound(w, r)
		}
	case 4:
		if segments[2] == "actions" && r.Method == http.MethodPost {
			h.handleAction(w, r, client, segments[1], segments[3])
		} else {
			http.NotFound(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}

// renderIndex renders the main admin index page
func (h *AdminHandler) renderIndex(w http.ResponseWriter, r *http.Request) {
	var visibleResources []*core.Resource
	for _, resource := range h.adm.GetResources() {
		if !resource.Hidden {
			visibleResources = append(visibleResources, resource)
		}
	}

	h.renderPage(w, r, Index(visibleResources))
}

// renderResourceList renders the resource list page, or only the extra rows
// for load-more requests
func (h *AdminHandler) renderResourceList(w http.ResponseWriter, r *http.Request, client *core.Client) {
	resource := client.Resource()
	query, search := parseQueryFromRequest(r, resource)

	outcome := client.List(r.Context(), resource.ProjectionFields(), query)
	if outcome.IsFatalFailure() {
		h.writeHTTPError(w, fmt.Sprintf("Failed to list %s: %s", resource.PluralName, outcome.Message), http.StatusBadGateway)
		return
	}

	if r.URL.Query().Get("load_more") == "true" {
		// Return only the additional rows for HTMX append
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := RecordRows(resource, outcome.Records).Render(r.Context(), w); err != nil {
			h.writeHTTPError(w, "Template rendering error", http.StatusInternalServerError)
		}
		return
	}

	view := listView{
		Resource: resource,
		Records:  outcome.Records,
		Query:    query,
		Total:    outcome.TotalCount,
		HasMore:  outcome.HasMore,
		Search:   search,
	}
	h.renderPage(w, r, ResourceList(view))
}

// renderResourceDetail renders a single record page
func (h *AdminHandler) renderResourceDetail(w http.ResponseWriter, r *http.Request, client *core.Client, idStr string) {
	resource := client.Resource()
	id, ok := parseID(idStr)
	if !ok {
		http.NotFound(w, r)
		return
	}

	outcome := client.Get(r.Context(), id, resource.ProjectionFields())
	switch {
	case outcome.IsNotFound():
		http.NotFound(w, r)
	case outcome.IsSuccess():
		h.renderPage(w, r, RecordDetail(resource, outcome.Record))
	default:
		h.writeHTTPError(w, fmt.Sprintf("Failed to load %s: %s", resource.DisplayName, outcome.Message), http.StatusBadGateway)
	}
}

// renderCreateForm renders an empty form for a new record
func (h *AdminHandler) renderCreateForm(w http.ResponseWriter, r *http.Request, resource *core.Resource) {
	if resource.ReadOnly {
		http.NotFound(w, r)
		return
	}
	actionURL := "/admin/" + resource.Name
	h.renderPage(w, r, RecordForm(resource, nil, actionURL, "New "+resource.DisplayName))
}

// renderEditForm renders the form pre-filled with the current record
func (h *AdminHandler) renderEditForm(w http.ResponseWriter, r *http.Request, client *core.Client, idStr string) {
	resource := client.Resource()
	id, ok := parseID(idStr)
	if !ok || resource.ReadOnly {
		http.NotFound(w, r)
		return
	}

	outcome := client.Get(r.Context(), id, resource.ProjectionFields())
	switch {
	case outcome.IsNotFound():
		http.NotFound(w, r)
	case outcome.IsSuccess():
		actionURL := fmt.Sprintf("/admin/%s/%d/edit", resource.Name, id)
		heading := fmt.Sprintf("Edit %s %d", resource.DisplayName, id)
		h.renderPage(w, r, RecordForm(resource, outcome.Record, actionURL, heading))
	default:
		h.writeHTTPError(w, fmt.Sprintf("Failed to load %s: %s", resource.DisplayName, outcome.Message), http.StatusBadGateway)
	}
}

// handleCreateResource processes a submitted create form
func (h *AdminHandler) handleCreateResource(w http.ResponseWriter, r *http.Request, client *core.Client) {
	resource := client.Resource()
	if resource.ReadOnly {
		http.NotFound(w, r)
		return
	}

	payload, err := decodeRecordForm(r, resource)
	if err != nil {
		h.hub.Error(err.Error())
		actionURL := "/admin/" + resource.Name
		h.renderPage(w, r, RecordForm(resource, nil, actionURL, "New "+resource.DisplayName))
		return
	}

	outcome := client.Create(r.Context(), payload)
	if !outcome.IsSuccess() {
		// The client already reported every reason through the hub
		actionURL := "/admin/" + resource.Name
		h.renderPage(w, r, RecordForm(resource, payload, actionURL, "New "+resource.DisplayName))
		return
	}

	if id, ok := outcome.Record.ID(); ok {
		http.Redirect(w, r, fmt.Sprintf("/admin/%s/%d", resource.Name, id), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, NewAdminURL(resource.Name).String(), http.StatusSeeOther)
}

// handleUpdateResource processes a submitted edit form
func (h *AdminHandler) handleUpdateResource(w http.ResponseWriter, r *http.Request, client *core.Client, idStr string) {
	resource := client.Resource()
	id, ok := parseID(idStr)
	if !ok || resource.ReadOnly {
		http.NotFound(w, r)
		return
	}

	actionURL := fmt.Sprintf("/admin/%s/%d/edit", resource.Name, id)
	heading := fmt.Sprintf("Edit %s %d", resource.DisplayName, id)

	payload, err := decodeRecordForm(r, resource)
	if err != nil {
		h.hub.Error(err.Error())
		h.renderPage(w, r, RecordForm(resource, nil, actionURL, heading))
		return
	}

	outcome := client.Update(r.Context(), id, payload)
	if !outcome.IsSuccess() {
		h.renderPage(w, r, RecordForm(resource, payload, actionURL, heading))
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/admin/%s/%d", resource.Name, id), http.StatusSeeOther)
}

// handleDeleteResource deletes a single record from its detail page
func (h *AdminHandler) handleDeleteResource(w http.ResponseWriter, r *http.Request, client *core.Client, idStr string) {
	resource := client.Resource()
	id, ok := parseID(idStr)
	if !ok || resource.ReadOnly {
		http.NotFound(w, r)
		return
	}

	client.Delete(r.Context(), []int{id})
	http.Redirect(w, r, NewAdminURL(resource.Name).String(), http.StatusSeeOther)
}

// handleBatchDelete deletes the records selected in the list view in one
// batch call
func (h *AdminHandler) handleBatchDelete(w http.ResponseWriter, r *http.Request, client *core.Client) {
	resource := client.Resource()
	if r.Method != http.MethodPost || resource.ReadOnly {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.writeHTTPError(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	var ids []int
	for _, raw := range r.PostForm["ids"] {
		if id, ok := parseID(raw); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		h.hub.Error("No records selected")
		http.Redirect(w, r, NewAdminURL(resource.Name).String(), http.StatusSeeOther)
		return
	}

	client.Delete(r.Context(), ids)
	http.Redirect(w, r, NewAdminURL(resource.Name).String(), http.StatusSeeOther)
}

// handleAction triggers a custom resource action for one record
func (h *AdminHandler) handleAction(w http.ResponseWriter, r *http.Request, client *core.Client, idStr, actionID string) {
	resource := client.Resource()
	id, ok := parseID(idStr)
	if !ok {
		http.NotFound(w, r)
		return
	}

	action, exists := resource.ActionByID(actionID)
	if !exists {
		http.NotFound(w, r)
		return
	}

	if err := action.Handler(r.Context(), client, id); err != nil {
		h.hub.Error(fmt.Sprintf("%s failed: %v", action.Title, err))
	}
	http.Redirect(w, r, fmt.Sprintf("/admin/%s/%d", resource.Name, id), http.StatusSeeOther)
}

// loginHandler serves the login page and processes credentials
func (h *AdminHandler) loginHandler(w http.ResponseWriter, r *http.Request) {
	authConfig := h.adm.GetAuth()
	basePath := h.adm.GetConfig().BasePath
	loginURL := basePath + authConfig.LoginPath

	if r.Method != http.MethodPost {
		h.renderLogin(w, r, loginURL, r.URL.Query().Get("return"), "")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, loginURL, "", "Invalid form submission")
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	returnURL := r.PostForm.Get("return")

	user, err := authConfig.Authenticator(r.Context(), username, password)
	if err != nil {
		h.renderLogin(w, r, loginURL, returnURL, "Invalid username or password")
		return
	}

	sessionID, err := authConfig.SessionStore.CreateSession(r.Context(), user)
	if err != nil {
		h.renderLogin(w, r, loginURL, returnURL, "Could not create session")
		return
	}
	auth.SetSessionCookie(w, sessionID)

	target := authConfig.LoginRedirect
	if returnURL != "" && strings.HasPrefix(returnURL, "/") {
		target = returnURL
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// logoutHandler ends the session and clears the cookie
func (h *AdminHandler) logoutHandler(w http.ResponseWriter, r *http.Request) {
	authConfig := h.adm.GetAuth()

	if sessionID, ok := auth.SessionIDFromRequest(r); ok {
		authConfig.SessionStore.DeleteSession(r.Context(), sessionID)
	}
	auth.ClearSessionCookie(w)

	http.Redirect(w, r, authConfig.LogoutRedirect, http.StatusSeeOther)
}

func (h *AdminHandler) renderLogin(w http.ResponseWriter, r *http.Request, loginURL, returnURL, errorMsg string) {
	page := Layout(h.adm.GetConfig().Title, nil, nil, LoginPage(loginURL, returnURL, errorMsg))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		h.writeHTTPError(w, "Template rendering error", http.StatusInternalServerError)
	}
}

// renderPage wraps content in the shared layout with the pending toasts
func (h *AdminHandler) renderPage(w http.ResponseWriter, r *http.Request, content templ.Component) {
	user, _ := auth.GetAuthUser(r.Context())
	page := Layout(h.adm.GetConfig().Title, user, h.hub.Drain(), content)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		h.writeHTTPError(w, "Template rendering error", http.StatusInternalServerError)
	}
}

func (h *AdminHandler) writeHTTPError(w http.ResponseWriter, message string, status int) {
	http.Error(w, message, status)
}

// parseQueryFromRequest builds the read options from list page parameters:
// sort, direction, offset, limit and the search term
func parseQueryFromRequest(r *http.Request, resource *core.Resource) (*core.Query, string) {
	query := core.NewQuery()
	params := r.URL.Query()

	if limit, err := strconv.Atoi(params.Get("limit")); err == nil {
		query.WithPagination(limit, query.Pagination.Offset)
	}
	if offset, err := strconv.Atoi(params.Get("offset")); err == nil {
		query.WithPagination(query.Pagination.Limit, offset)
	}

	if field := params.Get("sort"); field != "" && resource.IsFieldSortable(field) {
		direction := core.SortDirection(strings.ToUpper(params.Get("direction")))
		if !direction.IsValid() {
			direction = core.SortAsc
		}
		query.WithSort(field, direction)
	}
	query.ApplyDefaultSort(resource)

	search := strings.TrimSpace(params.Get("q"))
	if search != "" {
		// Search targets the resource's primary searchable field; filters
		// combine with AND, so matching one field keeps semantics simple
		if fields := resource.SearchableFields(); len(fields) > 0 {
			query.WithFilter(fields[0].Name, core.OpContains, search)
		}
	}

	return query, search
}

func parseID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

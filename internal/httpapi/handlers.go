package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Amar9nani/Stock-inventory-management/internal/analytics"
	"github.com/Amar9nani/Stock-inventory-management/internal/domain"
	"github.com/Amar9nani/Stock-inventory-management/internal/service"
	"github.com/Amar9nani/Stock-inventory-management/internal/store"
)

const maxTopProducts = 50

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !a.loginLimiter.Allow(clientKey(r)) {
		writeError(w, http.StatusTooManyRequests, errors.New("too many login attempts"))
		return
	}

	var req domain.LoginRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	user, err := a.service.GetUserByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		a.writeServiceError(w, r, err)
		return
	}
	if !a.auth.VerifyPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	a.writeSession(w, r, http.StatusOK, user)
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	hash, err := a.auth.HashPassword(req.Password)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	user, err := a.service.RegisterUser(r.Context(), req.Username, hash, req.Email)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	a.writeSession(w, r, http.StatusCreated, user)
}

func (a *API) writeSession(w http.ResponseWriter, r *http.Request, status int, user domain.User) {
	token, expiresAt, err := a.auth.IssueToken(user)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, status, domain.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.Format(time.RFC3339),
		User:        user,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	actor, _ := service.ActorFromContext(r.Context())
	if err := a.auth.Revoke(r.Context(), actor); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := service.ActorFromContext(r.Context())
	user, err := a.service.GetUser(r.Context(), actor.UserID)
	if err != nil {
		// The account was removed after the token was issued.
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, errInvalidToken)
			return
		}
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func productFilterFromQuery(r *http.Request) (domain.ProductFilter, error) {
	query := r.URL.Query()
	filter := domain.ProductFilter{
		Search:   query.Get("search"),
		Category: query.Get("category"),
	}
	if strings.EqualFold(strings.TrimSpace(filter.Category), "all") {
		filter.Category = ""
	}

	if raw := strings.TrimSpace(query.Get("status")); raw != "" && !strings.EqualFold(raw, "all") {
		status, ok := domain.ParseStockStatus(raw)
		if !ok {
			return domain.ProductFilter{}, fmt.Errorf("%w: unknown stock status %q", store.ErrInvalidInput, raw)
		}
		filter.Status = status
	}

	sort, ok := domain.ParseProductSort(query.Get("sort"))
	if !ok {
		return domain.ProductFilter{}, fmt.Errorf("%w: unknown sort %q", store.ErrInvalidInput, query.Get("sort"))
	}
	filter.Sort = sort
	return filter, nil
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := productFilterFromQuery(r)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	products, err := a.service.ListProducts(r.Context(), filter)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	product, err := a.service.GetProduct(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": domain.NewProductView(product)})
}

func (a *API) handleExportProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := productFilterFromQuery(r)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := a.service.ExportProductsCSV(r.Context(), &buf, filter); err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	filename := fmt.Sprintf("products-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductCreateRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	product, err := a.service.CreateProduct(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"product": domain.NewProductView(product)})
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	var req domain.ProductUpdateRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	product, err := a.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": domain.NewProductView(product)})
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	if err := a.service.DeleteProduct(r.Context(), id); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := a.service.ListTransactions(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

func (a *API) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req domain.TransactionRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	receipt, err := a.service.RecordTransaction(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (a *API) handleStockOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := a.service.StockOverview(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (a *API) handleSalesByDay(w http.ResponseWriter, r *http.Request) {
	var filter analytics.SalesFilter
	switch raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type"))); raw {
	case "", string(domain.TransactionSale):
	case "all":
		filter.AllTypes = true
	default:
		a.writeServiceError(w, r, fmt.Errorf("%w: type must be sale or all", store.ErrInvalidInput))
		return
	}

	series, err := a.service.SalesByDay(r.Context(), filter)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sales": series})
}

func (a *API) handleTopProducts(w http.ResponseWriter, r *http.Request) {
	limit := parsePositiveLimit(r.URL.Query().Get("limit"), analytics.DefaultTopProducts, maxTopProducts)
	top, err := a.service.TopProducts(r.Context(), limit)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": top})
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.service.ListUsers(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	if err := a.service.DeleteUser(r.Context(), id); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

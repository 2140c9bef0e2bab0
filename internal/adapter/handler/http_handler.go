package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/savdo-pos/internal/core/domain"
	"github.com/rl1809/savdo-pos/internal/core/service"
	"github.com/rl1809/savdo-pos/internal/port"
)

type HTTPHandler struct {
	auth     *service.AuthService
	session  *service.CartSession
	checkout *service.CheckoutService
	queue    port.PendingQueue
	settings port.SettingsRepository
	monitor  port.ConnectivityMonitor
}

func NewHTTPHandler(
	auth *service.AuthService,
	session *service.CartSession,
	checkout *service.CheckoutService,
	queue port.PendingQueue,
	settings port.SettingsRepository,
	monitor port.ConnectivityMonitor,
) *HTTPHandler {
	return &HTTPHandler{
		auth:     auth,
		session:  session,
		checkout: checkout,
		queue:    queue,
		settings: settings,
		monitor:  monitor,
	}
}

// Routes wires every endpoint with its capability gate.
func (h *HTTPHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/api/login", h.Login)
	mux.HandleFunc("/api/logout", h.requireAuth(h.Logout))
	mux.HandleFunc("/api/products", h.require("pos", h.ListProducts))
	mux.HandleFunc("/api/cart", h.require("pos", h.Cart))
	mux.HandleFunc("/api/cart/items", h.require("pos", h.AddItem))
	mux.HandleFunc("/api/cart/quantity", h.require("pos", h.ChangeQty))
	mux.HandleFunc("/api/cart/discount", h.require("pos", h.SetDiscount))
	mux.HandleFunc("/api/checkout", h.require("pos", h.Checkout))
	mux.HandleFunc("/api/queue", h.require("pos", h.QueueStatus))
	mux.HandleFunc("/api/expenses", h.require("finance", h.AddExpense))
	mux.HandleFunc("/api/settings", h.require("settings", h.Settings))
	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string   `json:"token"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	StoreName   string   `json:"store_name"`
	Permissions []string `json:"permissions"`
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	principal, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Token:       token,
		Name:        principal.Name,
		Role:        string(principal.Role),
		StoreName:   principal.StoreName,
		Permissions: principal.Permissions(),
	})
}

func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.auth.Logout(bearerToken(r))
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

type productResponse struct {
	ID       string `json:"id"`
	Barcode  string `json:"barcode"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
	Stock    int    `json:"stock"`
	LowStock bool   `json:"low_stock"`
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	catalog := h.session.Catalog()
	out := make([]productResponse, len(catalog))
	for i, p := range catalog {
		out[i] = productResponse{
			ID:       p.ID,
			Barcode:  p.Barcode,
			Name:     p.Name,
			Category: p.Category,
			Price:    p.Price,
			Stock:    p.Stock,
			LowStock: p.LowStock(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type cartLineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

type cartResponse struct {
	Lines          []cartLineResponse `json:"lines"`
	ItemCount      int                `json:"item_count"`
	Discount       int                `json:"discount"`
	Subtotal       int64              `json:"subtotal"`
	DiscountAmount int64              `json:"discount_amount"`
	Total          int64              `json:"total"`
}

func cartViewResponse(view service.CartView) cartResponse {
	lines := make([]cartLineResponse, len(view.Lines))
	for i, l := range view.Lines {
		lines[i] = cartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal(),
		}
	}
	return cartResponse{
		Lines:          lines,
		ItemCount:      view.ItemCount,
		Discount:       view.Discount,
		Subtotal:       view.Totals.Subtotal,
		DiscountAmount: view.Totals.DiscountAmount,
		Total:          view.Totals.Total,
	}
}

// Cart serves the open cart: GET returns the view, DELETE clears it.
func (h *HTTPHandler) Cart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, cartViewResponse(h.session.View()))
	case http.MethodDelete:
		h.session.Clear()
		writeJSON(w, http.StatusOK, cartViewResponse(h.session.View()))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Barcode   string `json:"barcode"`
}

func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	var err error
	switch {
	case req.ProductID != "":
		err = h.session.AddItem(req.ProductID)
	case req.Barcode != "":
		err = h.session.AddByBarcode(req.Barcode)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "product_id or barcode required"})
		return
	}
	if err != nil {
		if errors.Is(err, service.ErrUnknownProduct) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "product not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, cartViewResponse(h.session.View()))
}

type changeQtyRequest struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

func (h *HTTPHandler) ChangeQty(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req changeQtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.session.ChangeQty(req.ProductID, req.Delta); err != nil {
		if errors.Is(err, domain.ErrStockExceeded) {
			writeJSON(w, http.StatusConflict, errorResponse{Error: "not enough stock"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, cartViewResponse(h.session.View()))
}

type discountRequest struct {
	Percent int `json:"percent"`
}

func (h *HTTPHandler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req discountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.session.SetDiscount(req.Percent); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "discount must be between 0 and 100"})
		return
	}
	writeJSON(w, http.StatusOK, cartViewResponse(h.session.View()))
}

type checkoutRequest struct {
	Method string `json:"method"`
}

type checkoutResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Total         int64  `json:"total"`
	Buffered      bool   `json:"buffered"`
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	principal := principalFrom(r)
	txn, err := h.checkout.Checkout(r.Context(), domain.PaymentMethod(req.Method), principal.Name)
	if err != nil {
		status := http.StatusInternalServerError
		message := "internal error"
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			status, message = http.StatusBadRequest, "cart is empty"
		case errors.Is(err, service.ErrInvalidPayment):
			status, message = http.StatusBadRequest, "unknown payment method"
		case errors.Is(err, service.ErrOfflineDisabled):
			status, message = http.StatusServiceUnavailable, "offline and buffering disabled, retry when online"
		case errors.Is(err, service.ErrDurableWrite):
			status, message = http.StatusServiceUnavailable, "could not save sale, please retry"
		case errors.Is(err, port.ErrTransactionRejected):
			status, message = http.StatusUnprocessableEntity, "sale rejected by backend"
		}
		writeJSON(w, status, errorResponse{Error: message})
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{
		TransactionID: txn.ID,
		Status:        string(txn.Status),
		Total:         txn.Total,
		Buffered:      txn.Status == domain.SyncPending,
	})
}

type queueStatusResponse struct {
	Pending int  `json:"pending"`
	Online  bool `json:"online"`
}

func (h *HTTPHandler) QueueStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	n, err := h.queue.Len(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, queueStatusResponse{Pending: n, Online: h.monitor.IsOnline()})
}

type expenseRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

func (h *HTTPHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Category == "" || req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	principal := principalFrom(r)
	exp := domain.Expense{
		ID:          uuid.NewString(),
		Date:        time.Now(),
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Cashier:     principal.Name,
	}
	if err := h.checkout.RecordExpense(r.Context(), exp); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "could not record expense"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": exp.ID})
}

// Settings serves the persisted terminal settings: GET reads, POST replaces.
func (h *HTTPHandler) Settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := h.settings.Load(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	case http.MethodPost:
		var cfg domain.AppSettings
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		// The receipt counter is owned by the checkout path; a settings
		// update must not rewind it under a concurrent sale.
		current, err := h.settings.Load(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		cfg.ReceiptNo = current.ReceiptNo
		if err := h.settings.Save(r.Context(), cfg); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

package service

import (
	"net/http"

	"github.com/settleup/ledger/internal/auth"
	"github.com/settleup/ledger/internal/middleware"
)

// Services bundles every handler group for route registration.
type Services struct {
	Auth        *AuthService
	Groups      *GroupService
	Expenses    *ExpenseService
	Settlements *SettlementService
	Balances    *BalanceService
}

// RegisterRoutes wires all API routes onto the mux. Auth endpoints are
// public; everything else requires a valid session token.
func RegisterRoutes(mux *http.ServeMux, jwtManager *auth.JWTManager, s Services) {
	public := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.Metrics(pattern, h))
	}
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.Metrics(pattern, middleware.RequireAuth(jwtManager, h)))
	}

	public("POST /api/auth/register", s.Auth.HandleRegister)
	public("POST /api/auth/login", s.Auth.HandleLogin)

	protected("POST /api/groups", s.Groups.HandleCreate)
	protected("GET /api/groups", s.Groups.HandleList)
	protected("GET /api/groups/{id}", s.Groups.HandleGet)
	protected("PUT /api/groups/{id}", s.Groups.HandleUpdate)
	protected("DELETE /api/groups/{id}", s.Groups.HandleDelete)
	protected("POST /api/groups/{id}/members", s.Groups.HandleAddMembers)

	protected("POST /api/groups/{id}/expenses", s.Expenses.HandleCreate)
	protected("GET /api/groups/{id}/expenses", s.Expenses.HandleList)
	protected("DELETE /api/expenses/{id}", s.Expenses.HandleDelete)

	protected("POST /api/groups/{id}/settlements", s.Settlements.HandleCreate)
	protected("GET /api/groups/{id}/settlements", s.Settlements.HandleList)
	protected("DELETE /api/settlements/{id}", s.Settlements.HandleDelete)

	protected("GET /api/groups/{id}/balances", s.Balances.HandleGet)
}

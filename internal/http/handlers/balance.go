package handlers

import (
	"net/http"
)

// BalanceCheck re-reads the credit balance on demand. The value is
// advisory; a stale read surfaces as a request-time service error later.
func (a *App) BalanceCheck(w http.ResponseWriter, r *http.Request) {
	if a.Billing == nil {
		a.error(w, http.StatusServiceUnavailable, "billing_unavailable", "balance service not configured")
		return
	}
	balance, err := a.Billing.Balance(r.Context())
	if err != nil {
		a.error(w, http.StatusBadGateway, "billing_failure", err.Error())
		return
	}
	a.json(w, http.StatusOK, map[string]float64{"balance": balance})
}

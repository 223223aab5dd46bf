package http

import (
	"net/http"

	"trackmyfin/internal/analytics"
	"trackmyfin/internal/log"
)

type monthlyPointDTO struct {
	Label    string  `json:"label"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

type categorySliceDTO struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

type summaryDTO struct {
	TotalIncome          float64 `json:"total_income"`
	TotalExpenses        float64 `json:"total_expenses"`
	Balance              float64 `json:"balance"`
	MonthlyAvgIncome     float64 `json:"monthly_avg_income"`
	MonthlyAvgExpenses   float64 `json:"monthly_avg_expenses"`
	ExpenseCategoryCount int     `json:"expense_category_count"`
}

func (s *Server) handleMonthlySeries(w http.ResponseWriter, r *http.Request) {
	ds, err := s.data.Current(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load dataset", log.FieldError, err.Error())
		writeError(w, http.StatusServiceUnavailable, "financial data unavailable")
		return
	}

	entries := analytics.MonthlySeries(ds.Transactions, ds.Salaries)
	points := make([]monthlyPointDTO, len(entries))
	for i, e := range entries {
		points[i] = monthlyPointDTO{
			Label:    e.Label,
			Income:   e.Income.Float64(),
			Expenses: e.Expenses.Float64(),
			Net:      e.Net.Float64(),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": points})
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	ds, err := s.data.Current(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load dataset", log.FieldError, err.Error())
		writeError(w, http.StatusServiceUnavailable, "financial data unavailable")
		return
	}

	entries := analytics.CategoryBreakdown(ds.Transactions, ds.Categories)
	slices := make([]categorySliceDTO, len(entries))
	for i, e := range entries {
		slices[i] = categorySliceDTO{
			Name:       e.Name,
			Amount:     e.Amount.Float64(),
			Percentage: e.Percentage,
			Color:      e.Color,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": slices})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ds, err := s.data.Current(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load dataset", log.FieldError, err.Error())
		writeError(w, http.StatusServiceUnavailable, "financial data unavailable")
		return
	}

	stats := analytics.Summary(ds.Transactions, ds.Salaries)
	writeJSON(w, http.StatusOK, summaryDTO{
		TotalIncome:          stats.TotalIncome.Float64(),
		TotalExpenses:        stats.TotalExpenses.Float64(),
		Balance:              stats.NetBalance.Float64(),
		MonthlyAvgIncome:     stats.MonthlyAvgIncome,
		MonthlyAvgExpenses:   stats.MonthlyAvgExpenses,
		ExpenseCategoryCount: stats.ExpenseCategoryCount,
	})
}

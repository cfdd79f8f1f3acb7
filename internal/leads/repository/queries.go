package repository

import (
	"fmt"
	"strings"

	"leadscore_backend/internal/leads/domain"
)

const table = "lead_records"

func dollar(n int) string { return fmt.Sprintf("$%d", n) }
func question(int) string { return "?" }

// insertQuery lists every lead column followed by extra, with one
// placeholder per column.
func insertQuery(placeholder func(int) string, extra ...string) string {
	columns := append(domain.Columns(), "score")
	columns = append(columns, extra...)

	marks := make([]string, len(columns))
	for i := range columns {
		marks[i] = placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(marks, ", "))
}

func selectQuery(placeholder func(int) string) string {
	return fmt.Sprintf("SELECT id, %s, score, created_at FROM %s WHERE lead_number = %s",
		strings.Join(domain.Columns(), ", "), table, placeholder(1))
}

func existsQuery(placeholder func(int) string) string {
	return fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE lead_number = %s)", table, placeholder(1))
}

// insertArgs returns the column values of rec in insertQuery order.
func insertArgs(rec *domain.LeadRecord, extra ...any) []any {
	args := make([]any, 0, len(domain.Fields)+1+len(extra))
	for _, f := range domain.Fields {
		args = append(args, f.Get(&rec.Lead))
	}
	args = append(args, rec.Score)
	return append(args, extra...)
}

// scanTargets returns pointers matching selectQuery's column order.
func scanTargets(rec *domain.LeadRecord) []any {
	targets := make([]any, 0, len(domain.Fields)+3)
	targets = append(targets, &rec.ID)
	for _, f := range domain.Fields {
		targets = append(targets, f.Ref(&rec.Lead))
	}
	return append(targets, &rec.Score, &rec.CreatedAt)
}

// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"municipal-portal/internal/repository"
)

// escapeILIKE escapes the ILIKE wildcards in kw and wraps it in %.
func escapeILIKE(kw string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(kw) + "%"
}

// whereClause builds the WHERE clause shared by the COUNT and SELECT list queries.
// Placeholders start at $1; next is the index of the first unused placeholder.
func whereClause(cols filterColumns, f repository.Filters) (clause string, args []any, next int) {
	var conditions []string
	next = 1

	add := func(format string, arg any) {
		conditions = append(conditions, fmt.Sprintf(format, next))
		args = append(args, arg)
		next++
	}

	if kw := strings.TrimSpace(f.Search); kw != "" && len(cols.search) > 0 {
		parts := make([]string, len(cols.search))
		for i, c := range cols.search {
			parts[i] = fmt.Sprintf("%s ILIKE $%d", c, next)
		}
		conditions = append(conditions, "("+strings.Join(parts, " OR ")+")")
		args = append(args, escapeILIKE(kw))
		next++
	}
	if f.Category != "" {
		add("category = $%d", string(f.Category))
	}
	if f.Year != 0 {
		switch {
		case cols.year != "":
			add(cols.year+" = $%d", f.Year)
		case cols.yearFrom != "":
			add("EXTRACT(YEAR FROM "+cols.yearFrom+")::int = $%d", f.Year)
		}
	}
	if f.Upcoming != nil && cols.starts != "" {
		end := cols.starts
		if cols.ends != "" {
			end = "COALESCE(" + cols.ends + ", " + cols.starts + ")"
		}
		if *f.Upcoming {
			conditions = append(conditions, end+" >= now()")
		} else {
			conditions = append(conditions, end+" < now()")
		}
	}
	if f.Status != "" && cols.status != "" {
		add(cols.status+" = $%d", f.Status)
	}
	if f.Featured != nil && cols.featured != "" {
		add(cols.featured+" = $%d", *f.Featured)
	}

	if len(conditions) == 0 {
		return "", args, next
	}
	return "WHERE " + strings.Join(conditions, " AND "), args, next
}

// filterColumns maps the generic filters onto one table's columns.
// Empty names disable the matching filter.
type filterColumns struct {
	search   []string
	year     string // integer year column
	yearFrom string // timestamp column the year is extracted from
	starts   string
	ends     string
	status   string
	featured string
}

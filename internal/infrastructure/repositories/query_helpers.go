package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/pkg/utils"
)

// conn returns the request scoped handle, joining a transaction when one is running
func conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	return GetDB(ctx, fallback).WithContext(ctx)
}

// translateError maps driver errors onto domain errors.
// Duplicate keys become a conflict carrying the entity specific message.
func translateError(err error, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainerrors.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domainerrors.Conflict(conflictMsg)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domainerrors.BadRequest("Referenced record does not exist")
	}
	return err
}

// likePattern builds a case-insensitive contains pattern for LOWER(col) LIKE ?
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	return "%" + s + "%"
}

// listPage counts the rows matched by filtered and loads one page of them into dest.
// decorate adds display joins and ordering that must not take part in the count.
func listPage(filtered *gorm.DB, p utils.PaginationParams, dest interface{}, decorate func(*gorm.DB) *gorm.DB) (int64, error) {
	q := filtered.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	p = utils.GetPaginationParams(p.Page, p.Limit)
	find := q
	if decorate != nil {
		find = decorate(find)
	}
	if err := find.Limit(p.Limit).Offset(p.CalculateOffset()).Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// searchCondition ORs a case-insensitive LIKE over the given columns
func searchCondition(term string, columns ...string) (string, []interface{}) {
	pattern := likePattern(term)
	parts := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, "LOWER(COALESCE("+col+", '')) LIKE ? ESCAPE '\\'")
		args = append(args, pattern)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// partyColumns selects table.* plus the patient and provider names joined by joinParties
func partyColumns(table string) string {
	return table + ".*, " +
		"pu.first_name AS patient_first_name, pu.last_name AS patient_last_name, " +
		"du.first_name AS provider_first_name, du.last_name AS provider_last_name"
}

func joinParties(q *gorm.DB, table string) *gorm.DB {
	return q.Joins("LEFT JOIN users pu ON pu.id = " + table + ".patient_id").
		Joins("LEFT JOIN users du ON du.id = " + table + ".provider_id")
}

func withParties(q *gorm.DB, table string) *gorm.DB {
	return joinParties(q.Select(partyColumns(table)), table)
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

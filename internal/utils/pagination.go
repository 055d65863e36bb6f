package utils

import "strconv"

// ParsePagination разбирает limit и offset из query-параметров.
// Мусорные и отрицательные значения приводятся к допустимым: иначе
// они попали бы прямо в LIMIT/OFFSET и уронили бы запрос
func ParsePagination(limitStr, offsetStr string, defaultLimit, maxLimit int) (limit, offset int) {
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}

	offset, err = strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		offset = 0
	}

	return limit, offset
}

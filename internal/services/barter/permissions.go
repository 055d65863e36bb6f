package barter

import "github.com/swaply/barter-api/internal/models"

// changeAllowedBy сообщает, вправе ли участник перевести обмен в целевой
// статус: принять или отклонить может только владелец запрошенного товара,
// завершить — любая из сторон
func changeAllowedBy(target models.BarterStatus, isOwner, isRequester bool) bool {
	switch target {
	case models.BarterAccepted, models.BarterRejected:
		return isOwner
	case models.BarterCompleted:
		return isOwner || isRequester
	}
	return false
}

package database

import "errors"

// Бизнес-ошибки хранилища. Сервисы возвращают их как есть,
// транспортный слой переводит в коды ответов.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrRequestNotFound = errors.New("item request not found")

	// ErrNotAvailable вещь недоступна для бронирования либо не выполнено
	// условие для комментария
	ErrNotAvailable = errors.New("item not available")

	// ErrAccessDenied нет прав на операцию; наружу отдается как not found,
	// чтобы не раскрывать существование сущности
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyDecided повторное решение по уже рассмотренной заявке
	ErrAlreadyDecided = errors.New("booking already decided")

	// ErrAlreadyExists дубликат уникального поля или повторный комментарий
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidTimeRange некорректный интервал бронирования
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidArgument некорректное значение поля запроса
	ErrInvalidArgument = errors.New("invalid argument")
)

package constants

const (
	MISSING_LOGIN_INPUT  = "MISSING_LOGIN_INPUT"
	INVALID_USERNAME     = "INVALID_USERNAME"
	INVALID_PASSWORD     = "INVALID_PASSWORD"
	ACCOUNT_NOT_ACTIVE   = "ACCOUNT_NOT_ACTIVE"
	ERROR_INTERNAL_ERROR = "ERROR_INTERNAL_ERROR"

	DATA_INPUT_IS_NOT_NUMBER = "DATA_INPUT_IS_NOT_NUMBER"
	INVALID_INPUT            = "INVALID_INPUT"

	EVENT_NOT_FOUND        = "EVENT_NOT_FOUND"
	QUEUE_NOT_FOUND        = "QUEUE_NOT_FOUND"
	TICKET_NOT_FOUND       = "TICKET_NOT_FOUND"
	NOTIFICATION_NOT_FOUND = "NOTIFICATION_NOT_FOUND"
	NO_ACTIVE_QUEUE        = "NO_ACTIVE_QUEUE"
	QUEUE_NAME_EXISTS      = "QUEUE_NAME_EXISTS"
	INVALID_STATUS_CHANGE  = "INVALID_STATUS_CHANGE"
	NOT_TICKET_OWNER       = "NOT_TICKET_OWNER"
	TARGET_QUEUE_NOT_FOUND = "TARGET_QUEUE_NOT_FOUND"
	SAME_TARGET_QUEUE      = "SAME_TARGET_QUEUE"
)

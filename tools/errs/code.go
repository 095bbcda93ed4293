package errs

// Code ranges: 110xx auth, 120xx validation, 130xx persistence,
// 140xx broker, 150xx processing.
const (
	AuthTokenMissingCode = 11001
	AuthTokenInvalidCode = 11002
	AuthTokenExpiredCode = 11003

	ValidationEmptyContentCode = 12001
	ValidationMissingRoomCode  = 12002
	ValidationNotInRoomCode    = 12003

	PersistenceCode = 13001

	BrokerNotReadyCode = 14001
	BrokerPublishCode  = 14002

	ProcessingCode = 15001
)

var (
	ErrTokenMissing = NewCodeError(AuthTokenMissingCode, "Authorization token required.")
	ErrTokenInvalid = NewCodeError(AuthTokenInvalidCode, "Invalid or expired token.")
	ErrTokenExpired = NewCodeError(AuthTokenExpiredCode, "Invalid or expired token.")

	ErrEmptyContent = NewCodeError(ValidationEmptyContentCode, "Message content cannot be empty.")
	ErrMissingRoom  = NewCodeError(ValidationMissingRoomCode, "Room parameter is required.")
	ErrNotInRoom    = NewCodeError(ValidationNotInRoomCode, "You are not in this room.")

	ErrPersistence = NewCodeError(PersistenceCode, "Failed to send message.")

	ErrBrokerNotReady = NewCodeError(BrokerNotReadyCode, "broker not ready")
	ErrBrokerPublish  = NewCodeError(BrokerPublishCode, "broker publish failed")

	ErrProcessing = NewCodeError(ProcessingCode, "message processing failed")
)
